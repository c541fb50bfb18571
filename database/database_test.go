package database

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_SaveRun(t *testing.T) {
	db := newTestDB(t)

	now := time.Now()
	run := &RunDB{
		StartedAt:  now,
		FinishedAt: now.Add(time.Second),
		Attempts:   4,
		Succeeded:  1,
		Failed:     3,
		Settings:   datatypes.JSON(`{"workers":30}`),
		Successes: []SuccessDB{{
			Address:  "a",
			Port:     "3389",
			Domain:   ".",
			Username: "u1",
			Password: "p2",
			Record:   "a:3389 /d:. | u1 | p2",
		}},
	}
	require.NoError(t, db.SaveRun(run))
	assert.NotZero(t, run.ID)

	second := &RunDB{StartedAt: now, FinishedAt: now, Attempts: 1, Failed: 1}
	require.NoError(t, db.SaveRun(second))

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, 4, runs[1].Attempts)
	assert.JSONEq(t, `{"workers":30}`, string(runs[1].Settings))

	successes, err := db.Successes(run.ID)
	require.NoError(t, err)
	require.Len(t, successes, 1)
	assert.Equal(t, "a:3389 /d:. | u1 | p2", successes[0].Record)
	assert.Equal(t, run.ID, successes[0].RunID)

	successes, err = db.Successes(second.ID)
	require.NoError(t, err)
	assert.Empty(t, successes)
}

func TestDB_Successes_UnknownRun(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Successes(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
