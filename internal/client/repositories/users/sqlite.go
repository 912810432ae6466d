package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/dbx"
)

const userColumns = `id, username, base_url, token, display_name, user_id,
	push_configuration_state, is_current, scheduled_for_deletion`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u                                          models.User
		token, displayName, userID, pushConfigured sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.BaseURL, &token, &displayName, &userID,
		&pushConfigured, &u.Current, &u.ScheduledForDeletion)
	if err != nil {
		return nil, err
	}
	u.Token = token.String
	u.DisplayName = displayName.String
	u.UserID = userID.String
	u.PushConfigurationState = pushConfigured.String
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *SQLiteRepository) queryOne(ctx context.Context, what string, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return u, nil
}

func (r *SQLiteRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE scheduled_for_deletion = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context, scheduled bool) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE scheduled_for_deletion = ? ORDER BY id`, scheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) FirstActive(ctx context.Context) (*models.User, error) {
	return r.queryOne(ctx, "active user",
		`SELECT `+userColumns+` FROM users WHERE scheduled_for_deletion = 0 ORDER BY id LIMIT 1`)
}

func (r *SQLiteRepository) Current(ctx context.Context) (*models.User, error) {
	return r.queryOne(ctx, "current user",
		`SELECT `+userColumns+` FROM users
		 WHERE is_current = 1 AND scheduled_for_deletion = 0 ORDER BY id LIMIT 1`)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.queryOne(ctx, fmt.Sprintf("user[%d]", id),
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByIdentity(ctx context.Context, username, baseURL string) (*models.User, error) {
	return r.queryOne(ctx, fmt.Sprintf("user[%s@%s]", username, baseURL),
		`SELECT `+userColumns+` FROM users WHERE username = ? AND base_url = ? LIMIT 1`, username, baseURL)
}

func (r *SQLiteRepository) Save(ctx context.Context, u *models.User) error {
	if u.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO users (username, base_url, token, display_name, user_id,
				push_configuration_state, is_current, scheduled_for_deletion)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Username, u.BaseURL, nullable(u.Token), nullable(u.DisplayName), nullable(u.UserID),
			nullable(u.PushConfigurationState), u.Current, u.ScheduledForDeletion)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted user id: %w", err)
		}
		u.ID = id
		return nil
	}

	n, err := dbx.RowsAffected(ctx, r.db, `
		UPDATE users SET username = ?, base_url = ?, token = ?, display_name = ?, user_id = ?,
			push_configuration_state = ?, is_current = ?, scheduled_for_deletion = ?
		WHERE id = ?`,
		u.Username, u.BaseURL, nullable(u.Token), nullable(u.DisplayName), nullable(u.UserID),
		nullable(u.PushConfigurationState), u.Current, u.ScheduledForDeletion, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user[%d]: %w", u.ID, err)
	}
	if n != 1 {
		return fmt.Errorf("failed to update user[%d]: %w", u.ID, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	n, err := dbx.RowsAffected(ctx, r.db, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user[%d]: %w", id, err)
	}
	if n != 1 {
		return fmt.Errorf("failed to delete user[%d]: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ClearCurrentExcept(ctx context.Context, id int64) (int64, error) {
	n, err := dbx.RowsAffected(ctx, r.db, `UPDATE users SET is_current = 0 WHERE id <> ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to clear current flag: %w", err)
	}
	return n, nil
}
