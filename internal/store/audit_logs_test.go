package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

func TestAuditFilterByActionAndEmail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "Alice@Example.com", models.RoleUser)
	malice := seedProfile(t, s, "malice@example.com", models.RoleUser)
	bob := seedProfile(t, s, "bob@example.com", models.RoleUser)

	first := seedLog(t, s, alice, "2024-03-01", 8)
	second := seedLog(t, s, alice, "2024-03-02", 8)
	other := seedLog(t, s, malice, "2024-03-02", 5)
	bobs := seedLog(t, s, bob, "2024-03-02", 3)

	_, err := s.TimeLogs.UpdateHours(ctx, actorFor(alice), first.ID, 7)
	require.NoError(t, err)
	_, err = s.TimeLogs.UpdateHours(ctx, actorFor(bob), bobs.ID, 2)
	require.NoError(t, err)
	_, err = s.TimeLogs.UpdateHours(ctx, actorFor(malice), other.ID, 4)
	require.NoError(t, err)
	_, err = s.TimeLogs.UpdateHours(ctx, actorFor(alice), second.ID, 6)
	require.NoError(t, err)
	require.NoError(t, s.TimeLogs.Delete(ctx, actorFor(alice), first.ID))

	f := models.AuditFilter{EmailContains: "alice", Action: models.AuditUpdate}
	entries, total, err := s.AuditLogs.Query(ctx, f, pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 3)

	assert.Equal(t, second.ID, entries[0].RecordID)
	assert.Equal(t, other.ID, entries[1].RecordID)
	assert.Equal(t, first.ID, entries[2].RecordID)
	for i, e := range entries {
		assert.Equal(t, models.AuditUpdate, e.Action)
		assert.Equal(t, "time_logs", e.Table)
		assert.Equal(t, "10.0.0.7", e.IPAddress)
		assert.Equal(t, "store-test", e.UserAgent)
		assert.Contains(t, []string{"Alice@Example.com", "malice@example.com"}, e.Email)
		if i > 0 {
			prev := entries[i-1]
			assert.False(t, e.ChangedAt.After(prev.ChangedAt), "entries must be newest first")
			if e.ChangedAt.Equal(prev.ChangedAt) {
				assert.Less(t, e.ID, prev.ID)
			}
		}
	}

	var oldData, newData struct {
		Hours float64 `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(entries[0].OldData, &oldData))
	require.NoError(t, json.Unmarshal(entries[0].NewData, &newData))
	assert.Equal(t, 8.0, oldData.Hours)
	assert.Equal(t, 6.0, newData.Hours)

	page2, total, err := s.AuditLogs.Query(ctx, f, pagination.Request{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, first.ID, page2[0].RecordID)
}

func TestAuditRecordsEveryMutation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)

	log := seedLog(t, s, alice, "2024-03-01", 8)
	_, err := s.TimeLogs.UpdateHours(ctx, actorFor(alice), log.ID, 4)
	require.NoError(t, err)
	require.NoError(t, s.TimeLogs.Delete(ctx, actorFor(alice), log.ID))

	entries, total, err := s.AuditLogs.Query(ctx, models.AuditFilter{}, pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, models.AuditDelete, entries[0].Action)
	assert.Equal(t, models.AuditUpdate, entries[1].Action)
	assert.Equal(t, models.AuditCreate, entries[2].Action)
	assert.Nil(t, entries[0].NewData)
	assert.Nil(t, entries[2].OldData)

	deletes, total, err := s.AuditLogs.Query(ctx, models.AuditFilter{Action: models.AuditDelete}, pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, deletes, 1)
	assert.Equal(t, log.ID, deletes[0].RecordID)
}

func TestAuditEntry(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	alice := seedProfile(t, s, "alice@example.com", models.RoleUser)
	log := seedLog(t, s, alice, "2024-03-01", 8)

	entries, _, err := s.AuditLogs.Query(ctx, models.AuditFilter{}, pagination.Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry, err := s.AuditLogs.Entry(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, log.ID, entry.RecordID)
	assert.Equal(t, alice.ID, entry.UserID)
	assert.Equal(t, "alice@example.com", entry.Email)
	assert.Equal(t, models.AuditCreate, entry.Action)

	_, err = s.AuditLogs.Entry(ctx, entries[0].ID+1000)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
