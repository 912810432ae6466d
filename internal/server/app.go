// Package server initializes and runs the development Talk server. It seeds
// accounts and demo rooms, handles graceful shutdown and serves the OCS API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/talkclient/internal/logging"
	"github.com/dmitrijs2005/talkclient/internal/server/config"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
	"github.com/dmitrijs2005/talkclient/internal/server/ocs"
	"github.com/dmitrijs2005/talkclient/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/talkclient/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	roomService *services.RoomService
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	m := repomanager.NewInMemoryRepositoryManager()
	app := &App{
		config:      c,
		logger:      logger,
		userService: services.NewUserService(m, c),
		roomService: services.NewRoomService(m),
	}

	if err := app.seed(context.Background()); err != nil {
		return nil, fmt.Errorf("seed error: %w", err)
	}
	return app, nil
}

// seed creates the configured users and, when enabled, demo rooms owned by
// the first user.
func (app *App) seed(ctx context.Context) error {
	for _, u := range app.config.Users {
		if _, err := app.userService.Register(ctx, u.Username, u.Password, u.DisplayName); err != nil {
			return err
		}
		app.logger.Info(ctx, "user created", "username", u.Username)
	}

	if !app.config.SeedRooms || len(app.config.Users) < 2 {
		return nil
	}

	owner, peer := app.config.Users[0].Username, app.config.Users[1].Username
	demo := []struct {
		name     string
		kind     int
		members  []string
		password string
	}{
		{"", models.RoomTypeOneToOne, []string{peer}, ""},
		{"Dev Team", models.RoomTypeGroup, []string{peer}, ""},
		{"Town Hall", models.RoomTypePublic, nil, ""},
		{"Board", models.RoomTypePublic, []string{peer}, "secret"},
	}
	for _, d := range demo {
		r, err := app.roomService.Create(ctx, owner, d.name, d.kind, d.members, d.password)
		if err != nil {
			return err
		}
		app.logger.Info(ctx, "room created", "token", r.Token, "name", d.name, "type", d.kind)
	}
	return nil
}

// Server builds the HTTP server over the app's services.
func (app *App) Server() *ocs.Server {
	return ocs.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.roomService)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.Server().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
