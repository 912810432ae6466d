package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/talkclient/internal/client/models"
)

// ---- fake API client ----

// fakeAPI implements client.Client. Each call is recorded by name; err, when
// set, decides the outcome of the n-th call (1-based) of any method.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	users []models.User
	args  []string

	err       func(n int) error
	sessionID string
	block     bool
}

func (f *fakeAPI) record(ctx context.Context, name string, user models.User, arg string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.users = append(f.users, user)
	f.args = append(f.args, arg)
	n := len(f.calls)
	block, errFn := f.block, f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if errFn != nil {
		return errFn(n)
	}
	return nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Ping(ctx context.Context, baseURL string) error {
	return f.record(ctx, "Ping", models.User{BaseURL: baseURL}, "")
}

func (f *fakeAPI) AppPassword(ctx context.Context, baseURL, username, password string) (string, error) {
	if err := f.record(ctx, "AppPassword", models.User{BaseURL: baseURL, Username: username}, password); err != nil {
		return "", err
	}
	return "app-" + password, nil
}

func (f *fakeAPI) Profile(ctx context.Context, user models.User) (*models.Profile, error) {
	if err := f.record(ctx, "Profile", user, ""); err != nil {
		return nil, err
	}
	return &models.Profile{ID: user.Username + "-id", DisplayName: "Display " + user.Username}, nil
}

func (f *fakeAPI) Rooms(ctx context.Context, user models.User) ([]models.Room, error) {
	return nil, f.record(ctx, "Rooms", user, "")
}

func (f *fakeAPI) RemoveSelfFromRoom(ctx context.Context, user models.User, roomToken string) error {
	return f.record(ctx, "RemoveSelfFromRoom", user, roomToken)
}

func (f *fakeAPI) RenameRoom(ctx context.Context, user models.User, roomToken, name string) error {
	return f.record(ctx, "RenameRoom", user, name)
}

func (f *fakeAPI) MakeRoomPublic(ctx context.Context, user models.User, roomToken string) error {
	return f.record(ctx, "MakeRoomPublic", user, roomToken)
}

func (f *fakeAPI) MakeRoomPrivate(ctx context.Context, user models.User, roomToken string) error {
	return f.record(ctx, "MakeRoomPrivate", user, roomToken)
}

func (f *fakeAPI) SetPassword(ctx context.Context, user models.User, roomToken, password string) error {
	return f.record(ctx, "SetPassword", user, password)
}

func (f *fakeAPI) DeleteRoom(ctx context.Context, user models.User, roomToken string) error {
	return f.record(ctx, "DeleteRoom", user, roomToken)
}

func (f *fakeAPI) JoinRoom(ctx context.Context, user models.User, roomToken, password string) (string, error) {
	if err := f.record(ctx, "JoinRoom", user, password); err != nil {
		return "", err
	}
	return f.sessionID, nil
}

func (f *fakeAPI) Avatar(ctx context.Context, user models.User, name string, size int) ([]byte, error) {
	return nil, f.record(ctx, "Avatar", user, name)
}

// ---- fake host ----

type fakeHost struct {
	mu         sync.Mutex
	results    []Result
	dismissals []Dismissal
	calls      []models.CallTarget
	pops       int
}

func (h *fakeHost) ShowResult(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, r)
}

func (h *fakeHost) Dismiss(d Dismissal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dismissals = append(h.dismissals, d)
}

func (h *fakeHost) OpenCall(t models.CallTarget) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, t)
}

func (h *fakeHost) Pop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pops++
}

func (h *fakeHost) events() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results) + len(h.dismissals) + len(h.calls) + h.pops
}

// ---- fake account source ----

type fakeCurrent struct {
	user *models.User
	err  error
}

func (f fakeCurrent) CurrentUser(context.Context) (*models.User, error) {
	return f.user, f.err
}
