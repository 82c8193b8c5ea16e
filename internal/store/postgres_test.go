package store_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"team-timelog/internal/calendar"
	"team-timelog/internal/database"
	"team-timelog/internal/models"
	"team-timelog/internal/store"
)

var (
	sharedDB      *gorm.DB
	sharedDBOnce  sync.Once
	sharedDBError error
)

// testStore returns a store over a migrated Postgres container with empty
// tables. The container is started once per test binary.
func testStore(t *testing.T) *store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres repository test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedDBOnce.Do(func() {
		ctx := context.Background()
		log := logrus.New()
		log.SetOutput(io.Discard)

		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("timelog-test"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			sharedDBError = err
			return
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedDBError = err
			return
		}
		if sharedDB, sharedDBError = database.Open(dsn, log); sharedDBError != nil {
			return
		}
		sharedDBError = database.Migrate(ctx, sharedDB, log)
	})
	require.NoError(t, sharedDBError, "failed to set up postgres test container")

	err := sharedDB.Exec("TRUNCATE audit_logs, time_logs, profiles RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
	return store.New(sharedDB)
}

func seedProfile(t *testing.T, s *store.Store, email string, role models.UserRole) models.Profile {
	t.Helper()
	p := models.Profile{ID: uuid.New(), Email: email, Role: role}
	require.NoError(t, s.Profiles.Create(context.Background(), &p))
	return p
}

func actorFor(p models.Profile) models.Actor {
	return models.Actor{UserID: p.ID, IP: "10.0.0.7", UserAgent: "store-test"}
}

func seedLog(t *testing.T, s *store.Store, p models.Profile, day string, hours float64) models.TimeLog {
	t.Helper()
	d, err := calendar.ParseDay(day)
	require.NoError(t, err)
	log := models.TimeLog{Date: d, Hours: hours}
	require.NoError(t, s.TimeLogs.Insert(context.Background(), actorFor(p), &log))
	return log
}

func dayPtr(t *testing.T, day string) *time.Time {
	t.Helper()
	d, err := calendar.ParseDay(day)
	require.NoError(t, err)
	return &d
}
