// Package users stores development server accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
