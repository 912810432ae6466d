package users

import (
	"context"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
)

// Repository describes the queries over persisted accounts.
type Repository interface {
	// CountActive counts accounts not scheduled for deletion.
	CountActive(ctx context.Context) (int, error)

	// List returns accounts whose deletion flag equals scheduled, ordered by id.
	List(ctx context.Context, scheduled bool) ([]models.User, error)

	// FirstActive returns any account not scheduled for deletion.
	FirstActive(ctx context.Context) (*models.User, error)

	// Current returns the current account that is not scheduled for deletion.
	Current(ctx context.Context) (*models.User, error)

	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIdentity(ctx context.Context, username, baseURL string) (*models.User, error)

	// Save inserts u when u.ID is zero (and sets u.ID), otherwise overwrites
	// every column of the row with that id.
	Save(ctx context.Context, u *models.User) error

	DeleteByID(ctx context.Context, id int64) error

	// ClearCurrentExcept resets is_current on every row whose id differs from id.
	ClearCurrentExcept(ctx context.Context, id int64) (int64, error)
}
