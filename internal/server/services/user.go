// Package services contains the business logic of the development server.
// This file implements UserService: accounts, password checks and app
// passwords.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/server/auth"
	"github.com/dmitrijs2005/talkclient/internal/server/config"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
	"github.com/dmitrijs2005/talkclient/internal/server/repositories/repomanager"
)

// ErrBadRequest marks input the server refuses to act on.
var ErrBadRequest = errors.New("bad request")

// UserService provides account operations:
// - Register: create users with a bcrypt password hash
// - Authenticate: accept the login password or an app password
// - IssueAppPassword: mint an app password bound to the username
type UserService struct {
	repomanager         repomanager.RepositoryManager
	jwtSecret           []byte
	appPasswordValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:         m,
		jwtSecret:           []byte(cfg.SecretKey),
		appPasswordValidity: cfg.AppPasswordValidity,
	}
}

// Register creates a user. The display name defaults to the username.
func (s *UserService) Register(ctx context.Context, username, password, displayName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrBadRequest)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{UserName: username, DisplayName: displayName, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Get returns the user or common.ErrNotFound.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users().GetUserByLogin(ctx, username)
}

// Authenticate accepts secret as an app password of username or as the login
// password. Unknown users and wrong secrets both yield
// common.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, secret string) (*models.User, error) {
	user, err := s.repomanager.Users().GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	if owner, err := auth.GetUsernameFromToken(secret, s.jwtSecret); err == nil && owner == user.UserName {
		return user, nil
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(secret)) != nil {
		return nil, common.ErrUnauthorized
	}
	return user, nil
}

// IssueAppPassword mints a new app password for username.
func (s *UserService) IssueAppPassword(ctx context.Context, username string) (string, error) {
	return auth.GenerateToken(username, s.jwtSecret, s.appPasswordValidity)
}
