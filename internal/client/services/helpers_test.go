package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

// ---- helpers ----

// setupDB opens a migrated database in a temp file. goose keeps package-level
// state, so tests using it do not run in parallel.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "talk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAccounts(t *testing.T) (AccountService, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	return NewAccountService(db, Inline, discardLogger()), db
}

func discardLogger() logging.Logger { return logging.Discard() }

func boolPtr(b bool) *bool { return &b }

func mustCreate(t *testing.T, s AccountService, in models.UserUpsert) *models.User {
	t.Helper()
	u, err := s.CreateOrUpdateUser(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func currentFlags(t *testing.T, db *sql.DB) map[int64]bool {
	t.Helper()
	rows, err := db.Query(`SELECT id, is_current FROM users`)
	require.NoError(t, err)
	defer rows.Close()

	out := map[int64]bool{}
	for rows.Next() {
		var (
			id  int64
			cur bool
		)
		require.NoError(t, rows.Scan(&id, &cur))
		out[id] = cur
	}
	require.NoError(t, rows.Err())
	return out
}
