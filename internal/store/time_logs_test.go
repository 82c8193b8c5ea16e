package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

func TestInsertSameDayTwiceIsDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)

	seedLog(t, s, alice, "2024-03-05", 8)

	again := models.TimeLog{Date: *dayPtr(t, "2024-03-05"), Hours: 4}
	err := s.TimeLogs.Insert(ctx, actorFor(alice), &again)
	assert.ErrorIs(t, err, models.ErrDuplicate)

	bob := seedProfile(t, s, "bob@example.com", models.RoleUser)
	seedLog(t, s, bob, "2024-03-05", 4)
}

func TestListForUserAndFindByDate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)
	bob := seedProfile(t, s, "bob@example.com", models.RoleUser)

	seedLog(t, s, alice, "2024-02-29", 1)
	seedLog(t, s, alice, "2024-03-31", 7.25)
	seedLog(t, s, alice, "2024-03-01", 2.5)
	seedLog(t, s, alice, "2024-04-01", 3)
	seedLog(t, s, bob, "2024-03-10", 6)

	month := *dayPtr(t, "2024-03-15")
	logs, err := s.TimeLogs.ListForUser(ctx, alice.ID, calendar.StartOfMonth(month), calendar.EndOfMonth(month))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-03-01", calendar.FormatDay(logs[0].Date))
	assert.Equal(t, 2.5, logs[0].Hours)
	assert.Equal(t, "2024-03-31", calendar.FormatDay(logs[1].Date))
	assert.Equal(t, 7.25, logs[1].Hours)

	found, err := s.TimeLogs.FindByDate(ctx, alice.ID, *dayPtr(t, "2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, logs[1].ID, found.ID)

	_, err = s.TimeLogs.FindByDate(ctx, alice.ID, *dayPtr(t, "2024-03-10"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateHoursAndDeleteOnlyTouchOwnLogs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)
	bob := seedProfile(t, s, "bob@example.com", models.RoleUser)
	log := seedLog(t, s, alice, "2024-03-05", 8)

	_, err := s.TimeLogs.UpdateHours(ctx, actorFor(bob), log.ID, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.TimeLogs.Delete(ctx, actorFor(bob), log.ID), models.ErrNotFound)

	_, err = s.TimeLogs.UpdateHours(ctx, actorFor(alice), uuid.New(), 2)
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := s.TimeLogs.UpdateHours(ctx, actorFor(alice), log.ID, 6.5)
	require.NoError(t, err)
	assert.Equal(t, log.ID, updated.ID)
	assert.Equal(t, 6.5, updated.Hours)

	require.NoError(t, s.TimeLogs.Delete(ctx, actorFor(alice), log.ID))
	assert.ErrorIs(t, s.TimeLogs.Delete(ctx, actorFor(alice), log.ID), models.ErrNotFound)
}

func TestQueryTeamDateBoundsAreInclusive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)

	for _, day := range []string{"2024-02-29", "2024-03-01", "2024-03-15", "2024-03-31", "2024-04-01"} {
		seedLog(t, s, alice, day, 1)
	}

	f := models.TimeLogFilter{From: dayPtr(t, "2024-03-01"), To: dayPtr(t, "2024-03-31")}
	logs, total, err := s.TimeLogs.QueryTeam(ctx, f, pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, logs, 3)
	assert.Equal(t, "2024-03-31", calendar.FormatDay(logs[0].Date))
	assert.Equal(t, "2024-03-15", calendar.FormatDay(logs[1].Date))
	assert.Equal(t, "2024-03-01", calendar.FormatDay(logs[2].Date))
	for _, l := range logs {
		assert.Equal(t, "alice@example.com", l.Email)
		assert.Equal(t, alice.ID, l.UserID)
	}

	sum, err := s.TimeLogs.SumHours(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3.0, sum)

	sameDay := models.TimeLogFilter{From: dayPtr(t, "2024-03-15"), To: dayPtr(t, "2024-03-15")}
	logs, err = s.TimeLogs.ListTeam(ctx, sameDay)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2024-03-15", calendar.FormatDay(logs[0].Date))
}

func TestQueryTeamPageSumsMatchTotal(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)
	bob := seedProfile(t, s, "bob@example.com", models.RoleUser)

	hours := []float64{0.1, 0.2, 7.75, 8, 3.33, 4.5, 1.25}
	for i, h := range hours {
		owner := alice
		if i%2 == 1 {
			owner = bob
		}
		seedLog(t, s, owner, calendar.FormatDay((*dayPtr(t, "2024-05-01")).AddDate(0, 0, i)), h)
	}

	f := models.TimeLogFilter{}
	total, err := s.TimeLogs.SumHours(ctx, f)
	require.NoError(t, err)
	assert.InDelta(t, 25.13, total, 1e-9)

	var (
		pageSum float64
		rows    int64
		seen    = map[uuid.UUID]bool{}
	)
	for page := 1; page <= 3; page++ {
		logs, count, err := s.TimeLogs.QueryTeam(ctx, f, pagination.Request{Page: page, PageSize: 3})
		require.NoError(t, err)
		assert.EqualValues(t, len(hours), count)
		for _, l := range logs {
			assert.False(t, seen[l.ID], "log %s on two pages", l.ID)
			seen[l.ID] = true
			pageSum += l.Hours
			rows++
		}
	}
	assert.EqualValues(t, len(hours), rows)
	assert.InDelta(t, total, pageSum, 1e-9)

	logs, count, err := s.TimeLogs.QueryTeam(ctx, f, pagination.Request{Page: 4, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.EqualValues(t, len(hours), count)
}

func TestSumHoursWithoutMatchesIsZero(t *testing.T) {
	s := testStore(t)
	seedProfile(t, s, "alice@example.com", models.RoleUser)

	sum, err := s.TimeLogs.SumHours(context.Background(), models.TimeLogFilter{EmailContains: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestTeamEmailFilterEscapesWildcards(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	under := seedProfile(t, s, "x_y@example.com", models.RoleUser)
	plain := seedProfile(t, s, "xzy@example.com", models.RoleUser)
	percent := seedProfile(t, s, "100%real@example.com", models.RoleUser)
	seedLog(t, s, under, "2024-03-01", 1)
	seedLog(t, s, plain, "2024-03-01", 2)
	seedLog(t, s, percent, "2024-03-01", 3)

	logs, err := s.TimeLogs.ListTeam(ctx, models.TimeLogFilter{EmailContains: "X_Y"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "x_y@example.com", logs[0].Email)

	logs, err = s.TimeLogs.ListTeam(ctx, models.TimeLogFilter{EmailContains: "%"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "100%real@example.com", logs[0].Email)

	logs, err = s.TimeLogs.ListTeam(ctx, models.TimeLogFilter{EmailContains: "@EXAMPLE"})
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestMembersOnlyExcludesAdmins(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	admin := seedProfile(t, s, "boss@example.com", models.RoleAdmin)
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)
	seedLog(t, s, admin, "2024-03-01", 5)
	seedLog(t, s, alice, "2024-03-01", 2)

	logs, err := s.TimeLogs.ListTeam(ctx, models.TimeLogFilter{MembersOnly: true})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "alice@example.com", logs[0].Email)

	sum, err := s.TimeLogs.SumHours(ctx, models.TimeLogFilter{MembersOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2.0, sum)

	all, err := s.TimeLogs.SumHours(ctx, models.TimeLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 7.0, all)
}

func TestProfilesGetAndCreate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleAdmin)

	got, err := s.Profiles.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, got.IsAdmin())

	_, err = s.Profiles.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	dup := models.Profile{ID: alice.ID, Email: "other@example.com", Role: models.RoleUser}
	assert.ErrorIs(t, s.Profiles.Create(ctx, &dup), models.ErrDuplicate)
}
