package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/common"
)

// getSimpleText, getChoice and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getChoice     = GetChoice
	getPassword   = GetPassword
)

// Login prompts for server, username and login password, signs in and makes
// the account current. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	server, err := getChoice(a.reader, "Server", a.config.ServerURL, a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Login password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, server, username, password)
	if err != nil {
		a.say("Login unsuccessful: %v", err)
		return err
	}

	a.setUser(u)
	a.setMode(ctx, ModeOnline)
	a.say("Logged in as %s on %s", displayName(*u), u.BaseURL)
	return nil
}

// Logout schedules the current account for deletion and continues with
// another stored account when there is one.
func (a *App) Logout(ctx context.Context) error {
	next, err := a.authService.Logout(ctx)
	if err != nil {
		a.say("Logout failed: %v", err)
		return err
	}
	a.setUser(next)
	if next == nil {
		a.say("Logged out. No other accounts left.")
		return nil
	}
	a.say("Logged out. Now acting as %s on %s", displayName(*next), next.BaseURL)
	return nil
}

// Accounts lists stored accounts, marking the current one, followed by the
// ones waiting for deletion.
func (a *App) Accounts(ctx context.Context) error {
	active, err := a.accounts.Users(ctx)
	if err != nil {
		return err
	}
	scheduled, err := a.accounts.UsersScheduledForDeletion(ctx)
	if err != nil {
		return err
	}

	if len(active) == 0 && len(scheduled) == 0 {
		a.say("No accounts.")
		return nil
	}
	for _, u := range active {
		mark := " "
		if u.Current {
			mark = "*"
		}
		a.say("%s %d  %s  %s", mark, u.ID, displayName(u), u.BaseURL)
	}
	for _, u := range scheduled {
		a.say("- %d  %s  %s  (scheduled for deletion)", u.ID, displayName(u), u.BaseURL)
	}
	return nil
}

// Switch makes the account with the given id current.
func (a *App) Switch(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		a.say("Usage: switch <account id>")
		return err
	}

	u, err := a.accounts.SwitchTo(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.say("No active account %d", id)
		}
		return err
	}
	a.setUser(u)
	a.say("Now acting as %s on %s", displayName(*u), u.BaseURL)
	return nil
}

// Forget removes an account scheduled for deletion right away instead of
// waiting for the purge watcher.
func (a *App) Forget(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		a.say("Usage: forget <account id>")
		return err
	}

	scheduled, err := a.accounts.UsersScheduledForDeletion(ctx)
	if err != nil {
		return err
	}
	for _, u := range scheduled {
		if u.ID != id {
			continue
		}
		done := make(chan error, 1)
		a.accounts.DeleteUserAsync(ctx, u.Username, u.BaseURL, func(err error) {
			if err != nil {
				a.sayLocked("Could not forget %s: %v", u.Username, err)
			} else {
				a.sayLocked("Forgot %s on %s", u.Username, u.BaseURL)
			}
			done <- err
		})
		return <-done
	}

	a.say("Account %d is not scheduled for deletion", id)
	return common.ErrNotFound
}

// Profile refreshes the display name and user id of the current account.
func (a *App) Profile(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		a.say("Not logged in")
		return nil
	}
	p, err := a.api.Profile(ctx, *u)
	if err != nil {
		a.say("Profile refresh failed: %v", err)
		return err
	}

	done := make(chan error, 1)
	a.accounts.CreateOrUpdateUserAsync(ctx, models.UserUpsert{
		InternalID:  u.ID,
		DisplayName: p.DisplayName,
		UserID:      p.ID,
	}, func(updated *models.User, err error) {
		if err == nil {
			a.mu.Lock()
			a.user = updated
			a.mu.Unlock()
			a.sayLocked("Profile: %s (%s)", displayName(*updated), updated.UserID)
		} else {
			a.sayLocked("Profile update failed: %v", err)
		}
		done <- err
	})
	return <-done
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one id, got %d arguments", len(args))
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func displayName(u models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
