package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

var ErrAccountScheduledForDeletion = errors.New("account is scheduled for deletion")

// AuthService covers signing accounts in and out.
//
// Contract:
//   - Login: trade the login password for an app password, store the account
//     and make it current.
//   - Logout: schedule the current account for deletion and activate another.
//   - Ping: check that a server is reachable and installed.
type AuthService interface {
	Login(ctx context.Context, serverURL, username string, password []byte) (*models.User, error)
	Logout(ctx context.Context) (next *models.User, err error)
	Ping(ctx context.Context, serverURL string) error
}

type authService struct {
	client   client.Client
	accounts AccountService
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// account store.
func NewAuthService(client client.Client, accounts AccountService, log logging.Logger) AuthService {
	return &authService{client: client, accounts: accounts, log: log.With("module", "auth")}
}

// NormalizeServerURL adds a scheme when missing and drops trailing slashes.
func NormalizeServerURL(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.Contains(s, "://") {
		s = "https://" + s
	}
	return strings.TrimRight(s, "/")
}

// Login authenticates username on serverURL. The login password is only used
// to obtain an app password; the stored token is the app password. Accounts
// that are still waiting for deletion cannot log in again until purged.
func (a *authService) Login(ctx context.Context, serverURL, username string, password []byte) (*models.User, error) {
	serverURL = NormalizeServerURL(serverURL)

	scheduled, err := a.accounts.IsUserScheduledForDeletion(ctx, username, serverURL)
	if err != nil {
		return nil, err
	}
	if scheduled {
		return nil, ErrAccountScheduledForDeletion
	}

	if err := a.client.Ping(ctx, serverURL); err != nil {
		return nil, fmt.Errorf("server check error: %w", err)
	}

	appPassword, err := a.client.AppPassword(ctx, serverURL, username, string(password))
	if err != nil {
		return nil, fmt.Errorf("app password error: %w", err)
	}

	profile, err := a.client.Profile(ctx, models.User{BaseURL: serverURL, Username: username, Token: appPassword})
	if err != nil {
		return nil, fmt.Errorf("profile error: %w", err)
	}

	current := true
	u, err := a.accounts.CreateOrUpdateUser(ctx, models.UserUpsert{
		Username:    username,
		Token:       appPassword,
		ServerURL:   serverURL,
		DisplayName: profile.DisplayName,
		UserID:      profile.ID,
		Current:     &current,
	})
	if err != nil {
		return nil, err
	}

	if err := a.accounts.DisableAllUsersWithoutID(ctx, u.ID); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "logged in", "id", u.ID, "username", username, "server", serverURL)
	return u, nil
}

// Logout returns the account that became current, or nil when none is left.
func (a *authService) Logout(ctx context.Context) (*models.User, error) {
	cur, err := a.accounts.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrNoCurrentUser
	}

	found, err := a.accounts.ScheduleUserForDeletionWithID(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return a.accounts.CurrentUser(ctx)
}

func (a *authService) Ping(ctx context.Context, serverURL string) error {
	return a.client.Ping(ctx, NormalizeServerURL(serverURL))
}
