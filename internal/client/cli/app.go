package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/config"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/client/roomlist"
	"github.com/dmitrijs2005/talkclient/internal/client/services"
	"github.com/dmitrijs2005/talkclient/internal/filex"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	api         client.Client
	accounts    services.AccountService
	authService services.AuthService
	runner      *services.OperationRunner
	adapter     *roomlist.Adapter
	log         logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// outMu serializes everything written to out; it doubles as the
	// dispatcher lock for background completions.
	outMu sync.Mutex

	mu         sync.Mutex
	Mode       Mode
	user       *models.User
	roomsStale bool
	menuRoom   *models.Room
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewText(os.Stderr, c.LogLevel)

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		log.Error(ctx, "error preparing database directory", "err", err)
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.RequestTimeout, log)
	return newApp(c, db, api, bufio.NewReader(os.Stdin), os.Stdout, log), nil
}

// newApp wires the services around an open database and API client.
func newApp(c *config.Config, db *sql.DB, api client.Client, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	a := &App{config: c, db: db, api: api, reader: reader, out: out, log: log.With("module", "cli")}

	a.accounts = services.NewAccountService(db, a.dispatch, log)
	a.authService = services.NewAuthService(api, a.accounts, log)
	a.runner = services.NewOperationRunner(api, a.accounts, &host{app: a}, services.OperationOptions{
		Retries:             c.Retries,
		RetryDelay:          c.RetryDelay,
		SuccessDismissDelay: c.SuccessDismissDelay,
		Dispatcher:          a.dispatch,
	}, log)
	a.adapter = roomlist.NewAdapter(roomlist.NewAvatarLoader(api), a.showMenu, log)
	return a
}

// dispatch runs fn while holding the output lock.
func (a *App) dispatch(fn func()) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fn()
}

// say writes one line to the user.
func (a *App) say(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	a.sayLocked(format, args...)
}

func (a *App) sayLocked(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	a.roomsStale = true
	a.mu.Unlock()
	if u == nil {
		a.adapter.SetItems(nil)
	}
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.db.Close()
	defer a.runner.Close()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the current account's server every interval
// and flips Mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	u := a.currentUser()
	if u == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pctx, u.BaseURL)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// StartPurgeWatcher hard-deletes accounts scheduled for deletion every interval.
func (a *App) StartPurgeWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := a.accounts.PurgeScheduled(ctx); err != nil {
				a.log.Warn(ctx, "purge failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
