package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
)

var alice = &models.User{ID: 7, Username: "alice", BaseURL: "https://cloud", Token: "tok", Current: true}

func newRunner(api *fakeAPI, host *fakeHost) *OperationRunner {
	opts := OperationOptions{Retries: 1, RetryDelay: time.Millisecond, Dispatcher: Inline}
	return NewOperationRunner(api, fakeCurrent{user: alice}, host, opts, discardLogger())
}

func waitRunner(t *testing.T, r *OperationRunner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

func failAlways(err error) func(int) error {
	return func(int) error { return err }
}

func TestRunner_RenameSuccess_ShowsResultAndSchedulesDismiss(t *testing.T) {
	api, host := &fakeAPI{}, &fakeHost{}
	r := newRunner(api, host)

	room := models.Room{Token: "r1", Name: "Renamed"}
	require.NoError(t, r.Start(context.Background(), models.OperationRequest{Code: models.OpRenameRoom, Room: room}))
	waitRunner(t, r)

	assert.Equal(t, StateSucceeded, r.State())
	assert.Equal(t, 1, r.Attempts())
	assert.Equal(t, []string{"RenameRoom"}, api.Calls())
	assert.Equal(t, []string{"Renamed"}, api.args)
	assert.Equal(t, []Result{{OK: true, Code: models.OpRenameRoom}}, host.results)
	assert.Equal(t, []Dismissal{{Cancelable: true, Delay: 2500 * time.Millisecond, Refresh: true, Close: true}}, host.dismissals)
	assert.Empty(t, host.calls)
}

func TestRunner_Join403_PopsAndSetsErrorHolder(t *testing.T) {
	api := &fakeAPI{err: failAlways(&client.HTTPError{StatusCode: http.StatusForbidden})}
	host := &fakeHost{}
	r := newRunner(api, host)

	req := models.OperationRequest{Code: models.OpJoinRoom, Room: models.Room{Token: "r1"}, CallPassword: "wrong"}
	require.NoError(t, r.Start(context.Background(), req))
	waitRunner(t, r)

	assert.Equal(t, StateFailed, r.State())
	assert.Equal(t, 2, r.Attempts(), "one retry before reporting")
	assert.Empty(t, host.results, "no generic failure view")
	assert.Equal(t, []Dismissal{{Cancelable: true}}, host.dismissals)
	assert.Equal(t, 1, host.pops)
	assert.Equal(t, MessageCallPasswordWrong, r.ErrorHolder().Take())
	assert.Equal(t, MessageNone, r.ErrorHolder().Peek())
}

func TestRunner_JoinSuccess_OpensCall(t *testing.T) {
	api := &fakeAPI{sessionID: "sess-9"}
	host := &fakeHost{}
	r := newRunner(api, host)

	req := models.OperationRequest{Code: models.OpJoinRoom, Room: models.Room{Token: "r1"}}
	require.NoError(t, r.Start(context.Background(), req))
	waitRunner(t, r)

	assert.Equal(t, []models.CallTarget{{RoomToken: "r1", User: *alice, SessionID: "sess-9"}}, host.calls)
	assert.Empty(t, host.results)
	assert.Empty(t, host.dismissals)
}

func TestRunner_GenericFailure_ReportedOnceAfterRetry(t *testing.T) {
	boom := &client.HTTPError{StatusCode: http.StatusInternalServerError}
	tests := []struct {
		code    models.OperationCode
		refresh bool
	}{
		{models.OpLeaveRoom, true},
		{models.OpMakePrivate, true},
		{models.OpJoinRoom, false},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			api, host := &fakeAPI{err: failAlways(boom)}, &fakeHost{}
			r := newRunner(api, host)

			require.NoError(t, r.Start(context.Background(), models.OperationRequest{Code: tt.code, Room: models.Room{Token: "r"}}))
			waitRunner(t, r)

			assert.Equal(t, 2, r.Attempts())
			require.Len(t, host.results, 1)
			res := host.results[0]
			assert.False(t, res.OK)
			assert.ErrorIs(t, res.Err, boom)
			assert.Equal(t, Dismissal{Cancelable: true, Refresh: tt.refresh, Close: true}, res.DismissAction)
			assert.Empty(t, host.dismissals)
			assert.Zero(t, host.pops)
		})
	}
}

func TestRunner_Join403OnFirstAttemptOnly_Succeeds(t *testing.T) {
	api := &fakeAPI{sessionID: "s", err: func(n int) error {
		if n == 1 {
			return &client.HTTPError{StatusCode: http.StatusForbidden}
		}
		return nil
	}}
	host := &fakeHost{}
	r := newRunner(api, host)

	require.NoError(t, r.Start(context.Background(), models.OperationRequest{Code: models.OpJoinRoom, Room: models.Room{Token: "r"}}))
	waitRunner(t, r)

	assert.Equal(t, StateSucceeded, r.State())
	assert.Zero(t, host.pops)
	assert.Len(t, host.calls, 1)
	assert.Equal(t, MessageNone, r.ErrorHolder().Peek())
}

func TestRunner_DispatchTable(t *testing.T) {
	room := models.Room{Token: "r1", Name: "n", Password: "pw"}
	tests := []struct {
		code models.OperationCode
		want string
		arg  string
	}{
		{models.OpLeaveRoom, "RemoveSelfFromRoom", "r1"},
		{models.OpRenameRoom, "RenameRoom", "n"},
		{models.OpMakePublic, "MakeRoomPublic", "r1"},
		{models.OpSetPassword, "SetPassword", "pw"},
		{models.OpChangePass, "SetPassword", "pw"},
		{models.OpClearPassword, "SetPassword", "pw"},
		{models.OpMakePrivate, "MakeRoomPrivate", "r1"},
		{models.OpDeleteRoom, "DeleteRoom", "r1"},
		{models.OpJoinRoom, "JoinRoom", "call-pw"},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			api, host := &fakeAPI{}, &fakeHost{}
			r := newRunner(api, host)

			req := models.OperationRequest{Code: tt.code, Room: room, CallPassword: "call-pw"}
			require.NoError(t, r.Start(context.Background(), req))
			waitRunner(t, r)

			assert.Equal(t, []string{tt.want}, api.Calls(), "exactly one call, no fall-through")
			assert.Equal(t, []string{tt.arg}, api.args)
		})
	}
}

func TestRunner_NotDispatchedCodes_StayIdle(t *testing.T) {
	for _, code := range []models.OperationCode{models.OpShareLink, 42} {
		api, host := &fakeAPI{}, &fakeHost{}
		r := newRunner(api, host)

		err := r.Start(context.Background(), models.OperationRequest{Code: code})
		require.ErrorIs(t, err, ErrOperationNotDispatched)
		assert.Equal(t, StateIdle, r.State())
		assert.Empty(t, api.Calls())
		assert.Zero(t, host.events())
	}
}

func TestRunner_NoCurrentUser(t *testing.T) {
	api, host := &fakeAPI{}, &fakeHost{}
	r := NewOperationRunner(api, fakeCurrent{}, host, OperationOptions{}, discardLogger())

	err := r.Start(context.Background(), models.OperationRequest{Code: models.OpLeaveRoom})
	require.ErrorIs(t, err, ErrNoCurrentUser)

	r = NewOperationRunner(api, fakeCurrent{err: errors.New("db down")}, host, OperationOptions{}, discardLogger())
	err = r.Start(context.Background(), models.OperationRequest{Code: models.OpLeaveRoom})
	require.Error(t, err)
	assert.Empty(t, api.Calls())
}

func TestRunner_ExplicitUserWins(t *testing.T) {
	api, host := &fakeAPI{}, &fakeHost{}
	r := newRunner(api, host)
	bob := &models.User{ID: 9, Username: "bob"}

	require.NoError(t, r.Start(context.Background(), models.OperationRequest{Code: models.OpLeaveRoom, User: bob}))
	waitRunner(t, r)

	require.Len(t, api.users, 1)
	assert.Equal(t, "bob", api.users[0].Username)
}

func TestRunner_CloseSuppressesCallbacks(t *testing.T) {
	api, host := &fakeAPI{block: true}, &fakeHost{}
	r := newRunner(api, host)

	require.NoError(t, r.Start(context.Background(), models.OperationRequest{Code: models.OpDeleteRoom}))
	require.Eventually(t, func() bool { return len(api.Calls()) == 1 }, time.Second, time.Millisecond)

	r.Close()
	waitRunner(t, r)

	assert.Zero(t, host.events())
	assert.Equal(t, 1, r.Attempts(), "cancellation is not retried")
	require.ErrorIs(t, r.Start(context.Background(), models.OperationRequest{Code: models.OpDeleteRoom}), ErrRunnerClosed)
}

func TestRunner_StartCancelsPrevious(t *testing.T) {
	api, host := &fakeAPI{block: true}, &fakeHost{}
	r := newRunner(api, host)
	ctx := context.Background()

	require.NoError(t, r.Start(ctx, models.OperationRequest{Code: models.OpDeleteRoom}))
	require.Eventually(t, func() bool { return len(api.Calls()) == 1 }, time.Second, time.Millisecond)

	api.mu.Lock()
	api.block = false
	api.mu.Unlock()

	require.NoError(t, r.Start(ctx, models.OperationRequest{Code: models.OpMakePublic}))
	waitRunner(t, r)

	assert.Equal(t, []string{"DeleteRoom", "MakeRoomPublic"}, api.Calls())
	require.Len(t, host.results, 1)
	assert.Equal(t, models.OpMakePublic, host.results[0].Code)
}

func TestDefaultOperationOptions(t *testing.T) {
	o := DefaultOperationOptions()
	assert.EqualValues(t, 1, o.Retries)
	assert.Equal(t, 2500*time.Millisecond, o.SuccessDismissDelay)
}
