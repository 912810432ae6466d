package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/client/repositories/users"
	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/dbx"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

// AccountService manages the locally persisted Talk accounts.
//
// Contract:
//   - Users/UsersScheduledForDeletion split the store by the deletion flag.
//   - CurrentUser returns the current, non-scheduled account or nil.
//   - ScheduleUserForDeletionWithID soft-deletes and re-activates another account.
//   - CreateOrUpdateUser merges by internal id, else by (username, server).
//   - The *Async variants run off the caller and report through the Dispatcher.
type AccountService interface {
	AnyUserExists(ctx context.Context) (bool, error)
	Users(ctx context.Context) ([]models.User, error)
	UsersScheduledForDeletion(ctx context.Context) ([]models.User, error)
	AnyUserAndSetActive(ctx context.Context) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	DeleteUser(ctx context.Context, username, serverURL string) error
	DeleteUserAsync(ctx context.Context, username, serverURL string, done func(error))
	DisableAllUsersWithoutID(ctx context.Context, id int64) error
	IsUserScheduledForDeletion(ctx context.Context, username, serverURL string) (bool, error)
	UserExists(ctx context.Context, username, serverURL string) (bool, error)
	ScheduleUserForDeletionWithID(ctx context.Context, id int64) (bool, error)
	CreateOrUpdateUser(ctx context.Context, in models.UserUpsert) (*models.User, error)
	CreateOrUpdateUserAsync(ctx context.Context, in models.UserUpsert, done func(*models.User, error))
	SwitchTo(ctx context.Context, id int64) (*models.User, error)
	PurgeScheduled(ctx context.Context) (int, error)
}

type accountService struct {
	db       *sql.DB
	dispatch Dispatcher
	log      logging.Logger
}

// NewAccountService constructs an AccountService over db. Async completions
// are delivered through dispatch; a nil dispatch runs them inline.
func NewAccountService(db *sql.DB, dispatch Dispatcher, log logging.Logger) AccountService {
	return &accountService{db: db, dispatch: dispatch, log: log.With("module", "accounts")}
}

func (s *accountService) repo(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (s *accountService) AnyUserExists(ctx context.Context) (bool, error) {
	n, err := s.repo(s.db).CountActive(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *accountService) Users(ctx context.Context) ([]models.User, error) {
	return s.repo(s.db).List(ctx, false)
}

func (s *accountService) UsersScheduledForDeletion(ctx context.Context) ([]models.User, error) {
	return s.repo(s.db).List(ctx, true)
}

func (s *accountService) AnyUserAndSetActive(ctx context.Context) (*models.User, error) {
	return anyUserAndSetActive(ctx, s.repo(s.db))
}

func anyUserAndSetActive(ctx context.Context, repo users.Repository) (*models.User, error) {
	u, err := repo.FirstActive(ctx)
	if err != nil || u == nil {
		return nil, err
	}
	u.Current = true
	if err := repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *accountService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.repo(s.db).Current(ctx)
}

func (s *accountService) DeleteUser(ctx context.Context, username, serverURL string) error {
	repo := s.repo(s.db)
	u, err := repo.GetByIdentity(ctx, username, serverURL)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("delete user %s@%s: %w", username, serverURL, common.ErrNotFound)
	}
	if err := repo.DeleteByID(ctx, u.ID); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "id", u.ID, "username", username)
	return nil
}

func (s *accountService) DeleteUserAsync(ctx context.Context, username, serverURL string, done func(error)) {
	go func() {
		err := s.DeleteUser(ctx, username, serverURL)
		if done != nil {
			s.dispatch.run(func() { done(err) })
		}
	}()
}

func (s *accountService) DisableAllUsersWithoutID(ctx context.Context, id int64) error {
	_, err := s.repo(s.db).ClearCurrentExcept(ctx, id)
	return err
}

func (s *accountService) IsUserScheduledForDeletion(ctx context.Context, username, serverURL string) (bool, error) {
	u, err := s.repo(s.db).GetByIdentity(ctx, username, serverURL)
	if err != nil || u == nil {
		return false, err
	}
	return u.ScheduledForDeletion, nil
}

func (s *accountService) UserExists(ctx context.Context, username, serverURL string) (bool, error) {
	u, err := s.repo(s.db).GetByIdentity(ctx, username, serverURL)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// ScheduleUserForDeletionWithID flags the account, clears its current mark and
// activates any remaining account. It reports whether a replacement was found.
// An unknown id flags nothing but still runs the re-activation.
// Other current accounts are left alone, so callers schedule the current one.
func (s *accountService) ScheduleUserForDeletionWithID(ctx context.Context, id int64) (bool, error) {
	var replacement *models.User
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u != nil {
			u.ScheduledForDeletion = true
			u.Current = false
			if err := repo.Save(ctx, u); err != nil {
				return err
			}
		}
		replacement, err = anyUserAndSetActive(ctx, repo)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("schedule user[%d] for deletion: %w", id, err)
	}

	if replacement != nil {
		s.log.Info(ctx, "account scheduled for deletion", "id", id, "replacement", replacement.ID)
	} else {
		s.log.Info(ctx, "account scheduled for deletion", "id", id)
	}
	return replacement != nil, nil
}

// CreateOrUpdateUser resolves the account by in.InternalID when non-zero, else
// by (Username, ServerURL). A new account takes every supplied field and is
// current unless in.Current says otherwise. An existing account only takes
// string fields that are non-empty and differ from the stored value, and its
// current flag only changes when in.Current is set.
func (s *accountService) CreateOrUpdateUser(ctx context.Context, in models.UserUpsert) (*models.User, error) {
	var result *models.User
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		var (
			u   *models.User
			err error
		)
		if in.InternalID != 0 {
			u, err = repo.GetByID(ctx, in.InternalID)
		} else {
			u, err = repo.GetByIdentity(ctx, in.Username, in.ServerURL)
		}
		if err != nil {
			return err
		}

		if u == nil {
			u = &models.User{
				Username:               in.Username,
				BaseURL:                in.ServerURL,
				Token:                  in.Token,
				DisplayName:            in.DisplayName,
				PushConfigurationState: in.PushConfigurationState,
				UserID:                 in.UserID,
				Current:                true,
			}
			if in.Current != nil {
				u.Current = *in.Current
			}
		} else if !mergeUser(u, in) {
			result = u
			return nil
		}

		if err := repo.Save(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create or update user %s@%s: %w", in.Username, in.ServerURL, err)
	}
	return result, nil
}

// mergeUser applies in to u and reports whether anything changed.
func mergeUser(u *models.User, in models.UserUpsert) bool {
	changed := false
	set := func(dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	set(&u.UserID, in.UserID)
	set(&u.Token, in.Token)
	set(&u.DisplayName, in.DisplayName)
	set(&u.PushConfigurationState, in.PushConfigurationState)

	if in.Current != nil && *in.Current != u.Current {
		u.Current = *in.Current
		changed = true
	}
	return changed
}

func (s *accountService) CreateOrUpdateUserAsync(ctx context.Context, in models.UserUpsert, done func(*models.User, error)) {
	go func() {
		u, err := s.CreateOrUpdateUser(ctx, in)
		if done != nil {
			s.dispatch.run(func() { done(u, err) })
		}
	}()
}

// SwitchTo makes id the only current account.
func (s *accountService) SwitchTo(ctx context.Context, id int64) (*models.User, error) {
	var result *models.User
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil || u.ScheduledForDeletion {
			return common.ErrNotFound
		}
		if !u.Current {
			u.Current = true
			if err := repo.Save(ctx, u); err != nil {
				return err
			}
		}
		if _, err := repo.ClearCurrentExcept(ctx, id); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("switch to user[%d]: %w", id, err)
	}
	s.log.Info(ctx, "switched account", "id", id, "username", result.Username)
	return result, nil
}

// PurgeScheduled hard-deletes every account scheduled for deletion and
// returns how many were removed.
func (s *accountService) PurgeScheduled(ctx context.Context) (int, error) {
	n := 0
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		scheduled, err := repo.List(ctx, true)
		if err != nil {
			return err
		}
		for _, u := range scheduled {
			if err := repo.DeleteByID(ctx, u.ID); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge scheduled users: %w", err)
	}
	if n > 0 {
		s.log.Info(ctx, "purged scheduled accounts", "count", n)
	}
	return n, nil
}
