package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talkclient/internal/server/config"
	"github.com/dmitrijs2005/talkclient/internal/server/models"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.AppPasswordValidity = time.Hour
	c.LogLevel = "error"
	return c
}

func TestNewApp_Seed(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	ctx := context.Background()

	u, err := app.userService.Authenticate(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)

	aliceRooms, err := app.roomService.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceRooms, 4)

	bobRooms, err := app.roomService.List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobRooms, 3)

	var locked *models.Room
	for _, r := range aliceRooms {
		if r.Name == "Board" {
			locked = r
		}
	}
	require.NotNil(t, locked)
	assert.NotNil(t, locked.PasswordHash)
	assert.Equal(t, models.RoomTypePublic, locked.Type)
}

func TestNewApp_NoRooms(t *testing.T) {
	c := testConfig()
	c.SeedRooms = false
	app, err := NewApp(c)
	require.NoError(t, err)

	rooms, err := app.roomService.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestNewApp_DuplicateUser(t *testing.T) {
	c := testConfig()
	c.Users = []config.SeedUser{{Username: "x", Password: "x"}, {Username: "x", Password: "y"}}
	_, err := NewApp(c)
	require.Error(t, err)
}

func TestApp_Server(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)

	srv := httptest.NewServer(app.Server().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status.php")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
