// Package rooms stores development server conversations.
package rooms

import (
	"context"

	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

// Repository returns copies; changes are written back with Update.
type Repository interface {
	Create(ctx context.Context, room *models.Room) (*models.Room, error)
	Get(ctx context.Context, token string) (*models.Room, error)
	ListFor(ctx context.Context, username string) ([]*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, token string) error
}
