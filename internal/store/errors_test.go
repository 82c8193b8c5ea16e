package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"team-timelog/internal/models"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))

	err := wrap("get profile", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NotErrorIs(t, err, models.ErrRemoteCall)

	err = wrap("insert time log", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	cause := errors.New("connection refused")
	err = wrap("list time logs", cause)
	assert.ErrorIs(t, err, models.ErrRemoteCall)
	assert.ErrorIs(t, err, cause)

	var rc *models.RemoteCallError
	if assert.ErrorAs(t, err, &rc) {
		assert.Equal(t, "list time logs", rc.Op)
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%alice%", containsPattern("alice"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}
