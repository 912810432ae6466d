package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

var (
	ErrNoCurrentUser          = errors.New("no current user")
	ErrOperationNotDispatched = errors.New("operation not dispatched")
	ErrRunnerClosed           = errors.New("operation runner closed")
)

const (
	DefaultRetries             = 1
	DefaultRetryDelay          = 250 * time.Millisecond
	DefaultSuccessDismissDelay = 2500 * time.Millisecond
)

// RunState is the lifecycle of one dispatched operation.
type RunState int

const (
	StateIdle RunState = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateInFlight:
		return "in-flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Dismissal tells the host how to close the operation view.
type Dismissal struct {
	Cancelable bool
	// Delay before the view closes by itself; zero means on user action.
	Delay   time.Duration
	Refresh bool
	Close   bool
}

// Result is what the operation view renders.
type Result struct {
	OK   bool
	Code models.OperationCode
	Err  error
	// DismissAction is bound to the dismiss button of a failure view.
	DismissAction Dismissal
}

// Host is the screen an OperationRunner reports to. Callbacks arrive through
// the runner's Dispatcher and must not call Close synchronously.
type Host interface {
	ShowResult(Result)
	Dismiss(Dismissal)
	OpenCall(models.CallTarget)
	Pop()
}

// CurrentUserSource resolves the acting account when a request names none.
type CurrentUserSource interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

type OperationOptions struct {
	Retries             uint64
	RetryDelay          time.Duration
	SuccessDismissDelay time.Duration
	Dispatcher          Dispatcher
	ErrorHolder         *ErrorHolder
}

func (o OperationOptions) withDefaults() OperationOptions {
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Millisecond
	}
	if o.SuccessDismissDelay <= 0 {
		o.SuccessDismissDelay = DefaultSuccessDismissDelay
	}
	if o.ErrorHolder == nil {
		o.ErrorHolder = &ErrorHolder{}
	}
	return o
}

// DefaultOperationOptions retries once and dismisses successes after 2.5s.
func DefaultOperationOptions() OperationOptions {
	return OperationOptions{
		Retries:             DefaultRetries,
		RetryDelay:          DefaultRetryDelay,
		SuccessDismissDelay: DefaultSuccessDismissDelay,
	}
}

type call func(ctx context.Context) (sessionID string, err error)

// OperationRunner performs one room operation at a time on behalf of a Host.
//
// Start cancels whatever is still in flight before dispatching. Failures are
// retried up to Retries times and reported once. After Close returns no Host
// callback is delivered.
type OperationRunner struct {
	api      client.Client
	accounts CurrentUserSource
	host     Host
	opts     OperationOptions
	log      logging.Logger

	mu       sync.Mutex
	state    RunState
	attempts int
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool

	// deliver is held while a Host callback runs.
	deliver sync.Mutex
}

func NewOperationRunner(api client.Client, accounts CurrentUserSource, host Host, opts OperationOptions, log logging.Logger) *OperationRunner {
	return &OperationRunner{
		api:      api,
		accounts: accounts,
		host:     host,
		opts:     opts.withDefaults(),
		log:      log.With("module", "operations"),
	}
}

func (r *OperationRunner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Attempts counts the calls issued for the current operation, retries included.
func (r *OperationRunner) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func (r *OperationRunner) ErrorHolder() *ErrorHolder {
	return r.opts.ErrorHolder
}

// Start resolves the acting account, picks the API call for req.Code and runs
// it in the background. It returns ErrNoCurrentUser when no account can act
// and ErrOperationNotDispatched for codes handled elsewhere or unknown.
func (r *OperationRunner) Start(ctx context.Context, req models.OperationRequest) error {
	user := req.User
	if user == nil {
		u, err := r.accounts.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("resolve current user: %w", err)
		}
		if u == nil {
			return ErrNoCurrentUser
		}
		user = u
	}

	op := r.pick(req, *user)
	if op == nil {
		return fmt.Errorf("%w: %s", ErrOperationNotDispatched, req.Code)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.state = StateInFlight
	r.attempts = 0
	done := make(chan struct{})
	r.done = done
	r.mu.Unlock()

	r.log.Debug(ctx, "operation started", "code", req.Code, "room", req.Room.Token, "user", user.ID)

	go r.run(runCtx, cancel, gen, done, req, *user, op)
	return nil
}

func (r *OperationRunner) pick(req models.OperationRequest, user models.User) call {
	token := req.Room.Token
	noSession := func(f func(ctx context.Context) error) call {
		return func(ctx context.Context) (string, error) { return "", f(ctx) }
	}

	switch req.Code {
	case models.OpLeaveRoom:
		return noSession(func(ctx context.Context) error { return r.api.RemoveSelfFromRoom(ctx, user, token) })
	case models.OpRenameRoom:
		return noSession(func(ctx context.Context) error { return r.api.RenameRoom(ctx, user, token, req.Room.Name) })
	case models.OpMakePublic:
		return noSession(func(ctx context.Context) error { return r.api.MakeRoomPublic(ctx, user, token) })
	case models.OpSetPassword, models.OpChangePass, models.OpClearPassword:
		return noSession(func(ctx context.Context) error { return r.api.SetPassword(ctx, user, token, req.Room.Password) })
	case models.OpMakePrivate:
		return noSession(func(ctx context.Context) error { return r.api.MakeRoomPrivate(ctx, user, token) })
	case models.OpDeleteRoom:
		return noSession(func(ctx context.Context) error { return r.api.DeleteRoom(ctx, user, token) })
	case models.OpJoinRoom:
		return func(ctx context.Context) (string, error) { return r.api.JoinRoom(ctx, user, token, req.CallPassword) }
	default:
		return nil
	}
}

func (r *OperationRunner) run(ctx context.Context, cancel context.CancelFunc, gen uint64, done chan struct{},
	req models.OperationRequest, user models.User, op call) {
	defer close(done)
	defer cancel()

	backoff := retry.WithMaxRetries(r.opts.Retries, retry.NewConstant(r.opts.RetryDelay))
	sessionID, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		r.mu.Lock()
		r.attempts++
		r.mu.Unlock()

		sid, err := op(ctx)
		if err != nil && ctx.Err() == nil {
			return "", retry.RetryableError(err)
		}
		return sid, err
	})

	if ctx.Err() != nil {
		r.log.Debug(ctx, "operation cancelled", "code", req.Code, "room", req.Room.Token)
		return
	}

	r.mu.Lock()
	if r.gen != gen {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.state = StateFailed
	} else {
		r.state = StateSucceeded
	}
	r.cancel = nil
	r.mu.Unlock()

	if err != nil {
		r.log.Warn(ctx, "operation failed", "code", req.Code, "room", req.Room.Token, "err", err)
	} else {
		r.log.Info(ctx, "operation succeeded", "code", req.Code, "room", req.Room.Token)
	}

	r.opts.Dispatcher.run(func() {
		r.deliver.Lock()
		defer r.deliver.Unlock()

		r.mu.Lock()
		live := !r.closed && r.gen == gen
		r.mu.Unlock()
		if !live {
			return
		}

		if err != nil {
			r.onFailure(req, err)
			return
		}
		r.onSuccess(req, user, sessionID)
	})
}

func (r *OperationRunner) onSuccess(req models.OperationRequest, user models.User, sessionID string) {
	if req.Code == models.OpJoinRoom {
		r.host.OpenCall(models.CallTarget{RoomToken: req.Room.Token, User: user, SessionID: sessionID})
		return
	}
	r.host.ShowResult(Result{OK: true, Code: req.Code})
	r.host.Dismiss(Dismissal{Cancelable: true, Delay: r.opts.SuccessDismissDelay, Refresh: true, Close: true})
}

func (r *OperationRunner) onFailure(req models.OperationRequest, err error) {
	if req.Code == models.OpJoinRoom && client.StatusCode(err) == http.StatusForbidden {
		r.host.Dismiss(Dismissal{Cancelable: true})
		r.opts.ErrorHolder.Set(MessageCallPasswordWrong)
		r.host.Pop()
		return
	}
	r.host.ShowResult(Result{
		OK:   false,
		Code: req.Code,
		Err:  err,
		DismissAction: Dismissal{
			Cancelable: true,
			Refresh:    req.Code != models.OpJoinRoom,
			Close:      true,
		},
	})
}

// Wait blocks until the most recently started operation has finished or ctx
// is done.
func (r *OperationRunner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the in-flight operation and waits for a Host callback that is
// already running. It is idempotent.
func (r *OperationRunner) Close() {
	r.mu.Lock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.deliver.Lock()
	r.deliver.Unlock() //nolint:staticcheck // waits out a running callback
}
