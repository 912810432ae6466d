package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/config"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

// ---- fake API client ----

// fakeAPI implements client.Client. errs maps a method name to the error it
// returns on every call.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	args  []string
	errs  map[string]error
	rooms []models.Room
}

func (f *fakeAPI) record(name, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.args = append(f.args, arg)
	return f.errs[name]
}

func (f *fakeAPI) setErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = map[string]error{}
	}
	f.errs[name] = err
}

// last returns the argument of the most recent call to name.
func (f *fakeAPI) last(name string) (string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	arg, n := "", 0
	for i, c := range f.calls {
		if c == name {
			arg = f.args[i]
			n++
		}
	}
	return arg, n
}

func (f *fakeAPI) Ping(ctx context.Context, baseURL string) error {
	return f.record("Ping", baseURL)
}

func (f *fakeAPI) AppPassword(ctx context.Context, baseURL, username, password string) (string, error) {
	if err := f.record("AppPassword", password); err != nil {
		return "", err
	}
	return "app-" + password, nil
}

func (f *fakeAPI) Profile(ctx context.Context, user models.User) (*models.Profile, error) {
	if err := f.record("Profile", user.Username); err != nil {
		return nil, err
	}
	return &models.Profile{ID: user.Username + "-id", DisplayName: "Display " + user.Username}, nil
}

func (f *fakeAPI) Rooms(ctx context.Context, user models.User) ([]models.Room, error) {
	if err := f.record("Rooms", user.Username); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Room(nil), f.rooms...), nil
}

func (f *fakeAPI) RemoveSelfFromRoom(ctx context.Context, user models.User, roomToken string) error {
	return f.record("RemoveSelfFromRoom", roomToken)
}

func (f *fakeAPI) RenameRoom(ctx context.Context, user models.User, roomToken, name string) error {
	return f.record("RenameRoom", name)
}

func (f *fakeAPI) MakeRoomPublic(ctx context.Context, user models.User, roomToken string) error {
	return f.record("MakeRoomPublic", roomToken)
}

func (f *fakeAPI) MakeRoomPrivate(ctx context.Context, user models.User, roomToken string) error {
	return f.record("MakeRoomPrivate", roomToken)
}

func (f *fakeAPI) SetPassword(ctx context.Context, user models.User, roomToken, password string) error {
	return f.record("SetPassword", password)
}

func (f *fakeAPI) DeleteRoom(ctx context.Context, user models.User, roomToken string) error {
	return f.record("DeleteRoom", roomToken)
}

func (f *fakeAPI) JoinRoom(ctx context.Context, user models.User, roomToken, password string) (string, error) {
	if err := f.record("JoinRoom", password); err != nil {
		return "", err
	}
	return "session-1", nil
}

func (f *fakeAPI) Avatar(ctx context.Context, user models.User, name string, size int) ([]byte, error) {
	return nil, f.record("Avatar", name)
}

var _ client.Client = (*fakeAPI)(nil)

// ---- helpers ----

// syncBuffer is a bytes.Buffer safe for the background callbacks.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL:           "https://cloud.example.com",
		DatabasePath:        filepath.Join(t.TempDir(), "talk.db"),
		LogLevel:            "error",
		RequestTimeout:      time.Second,
		OnlineCheckInterval: time.Hour,
		PurgeInterval:       time.Hour,
		Retries:             1,
		RetryDelay:          time.Millisecond,
		SuccessDismissDelay: 2500 * time.Millisecond,
	}
}

// newTestApp builds an App over a migrated temp database. goose keeps
// package-level state, so tests using it do not run in parallel.
func newTestApp(t *testing.T, api *fakeAPI) (*App, *syncBuffer) {
	t.Helper()
	c := testConfig(t)
	db, err := client.InitDatabase(context.Background(), c.DatabasePath)
	require.NoError(t, err)

	out := &syncBuffer{}
	a := newApp(c, db, api, bufio.NewReader(strings.NewReader("")), out, logging.Discard())
	t.Cleanup(func() {
		a.runner.Close()
		_ = db.Close()
	})
	return a, out
}

// stubPrompts replaces the interactive input helpers for one test.
func stubPrompts(t *testing.T, text string, password string) {
	t.Helper()
	origText, origChoice, origPass := getSimpleText, getChoice, getPassword
	t.Cleanup(func() { getSimpleText, getChoice, getPassword = origText, origChoice, origPass })

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return text, nil }
	getChoice = func(_ *bufio.Reader, _ string, def string, _ io.Writer) (string, error) { return def, nil }
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(password), nil }
}

func mustLogin(t *testing.T, a *App, username string) *models.User {
	t.Helper()
	stubPrompts(t, username, "pw")
	require.NoError(t, a.Login(context.Background()))
	u := a.currentUser()
	require.NotNil(t, u)
	return u
}
