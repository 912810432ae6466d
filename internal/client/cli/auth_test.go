package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/talkclient/internal/client/client"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/common"
)

func TestLogin_StoresAppPasswordAndWipesInput(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})

	var entered []byte
	stubPrompts(t, "alice", "")
	getPassword = func(string, io.Writer) ([]byte, error) {
		entered = []byte("s3cret")
		return entered, nil
	}

	require.NoError(t, a.Login(context.Background()))

	u := a.currentUser()
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "https://cloud.example.com", u.BaseURL)
	assert.Equal(t, "app-s3cret", u.Token)
	assert.Equal(t, "Display alice", u.DisplayName)
	assert.True(t, u.Current)
	assert.Equal(t, ModeOnline, a.Mode)
	assert.Equal(t, make([]byte, len(entered)), entered, "password must be wiped")
	assert.Contains(t, out.String(), "Logged in as Display alice on https://cloud.example.com")
}

func TestLogin_UsesEnteredServer(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{})
	stubPrompts(t, "bob", "pw")
	getChoice = func(*bufio.Reader, string, string, io.Writer) (string, error) {
		return "talk.example.org/", nil
	}

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "https://talk.example.org", a.currentUser().BaseURL)
}

func TestLogin_Unauthorized(t *testing.T) {
	api := &fakeAPI{}
	api.setErr("AppPassword", &client.HTTPError{StatusCode: 401})
	a, out := newTestApp(t, api)
	stubPrompts(t, "alice", "wrong")

	err := a.Login(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Nil(t, a.currentUser())
	assert.Contains(t, out.String(), "Login unsuccessful")
}

func TestLogin_PromptError(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{})
	stubPrompts(t, "alice", "pw")
	getPassword = func(string, io.Writer) ([]byte, error) { return nil, io.EOF }

	require.ErrorIs(t, a.Login(context.Background()), io.EOF)
	assert.Nil(t, a.currentUser())
}

func TestLogout_SwitchesToRemainingAccount(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})
	ctx := context.Background()

	alice := mustLogin(t, a, "alice")
	bob := mustLogin(t, a, "bob")
	assert.Equal(t, bob.ID, a.currentUser().ID)

	require.NoError(t, a.Logout(ctx))
	require.NotNil(t, a.currentUser())
	assert.Equal(t, alice.ID, a.currentUser().ID)
	assert.Contains(t, out.String(), "Now acting as Display alice")

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "No other accounts left")

	require.Error(t, a.Logout(ctx))
}

func TestAccounts(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})
	ctx := context.Background()

	require.NoError(t, a.Accounts(ctx))
	assert.Contains(t, out.String(), "No accounts.")

	alice := mustLogin(t, a, "alice")
	bob := mustLogin(t, a, "bob")
	require.NoError(t, a.Logout(ctx))

	require.NoError(t, a.Accounts(ctx))
	assert.Contains(t, out.String(), "* "+strconv.FormatInt(alice.ID, 10)+"  Display alice")
	assert.Contains(t, out.String(), "- "+strconv.FormatInt(bob.ID, 10)+"  Display bob")
	assert.Contains(t, out.String(), "(scheduled for deletion)")
}

func TestSwitch(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})
	ctx := context.Background()

	alice := mustLogin(t, a, "alice")
	mustLogin(t, a, "bob")

	require.NoError(t, a.Switch(ctx, []string{strconv.FormatInt(alice.ID, 10)}))
	assert.Equal(t, alice.ID, a.currentUser().ID)

	cur, err := a.accounts.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, cur.ID)

	err = a.Switch(ctx, []string{"999"})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, out.String(), "No active account 999")

	require.Error(t, a.Switch(ctx, nil))
	require.Error(t, a.Switch(ctx, []string{"x"}))
	assert.Equal(t, alice.ID, a.currentUser().ID)
}

func TestForget(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})
	ctx := context.Background()

	alice := mustLogin(t, a, "alice")
	id := strconv.FormatInt(alice.ID, 10)

	err := a.Forget(ctx, []string{id})
	require.ErrorIs(t, err, common.ErrNotFound, "active accounts are not forgotten")

	require.NoError(t, a.Logout(ctx))
	require.NoError(t, a.Forget(ctx, []string{id}))
	assert.Contains(t, out.String(), "Forgot alice on https://cloud.example.com")

	exists, err := a.accounts.UserExists(ctx, "alice", "https://cloud.example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	scheduled, err := a.accounts.UsersScheduledForDeletion(ctx)
	require.NoError(t, err)
	assert.Empty(t, scheduled)
}

func TestProfile(t *testing.T) {
	api := &fakeAPI{}
	a, out := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, a.Profile(ctx))
	assert.Contains(t, out.String(), "Not logged in")

	u := mustLogin(t, a, "alice")
	require.NoError(t, a.Profile(ctx))
	assert.Equal(t, u.ID, a.currentUser().ID)
	assert.Equal(t, "alice-id", a.currentUser().UserID)
	assert.Contains(t, out.String(), "Profile: Display alice (alice-id)")

	api.setErr("Profile", errors.New("boom"))
	require.Error(t, a.Profile(ctx))
	assert.Contains(t, out.String(), "Profile refresh failed")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", displayName(models.User{Username: "alice", DisplayName: "Alice"}))
	assert.Equal(t, "alice", displayName(models.User{Username: "alice"}))
}

func TestProfile_StoreFailure(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{})
	ctx := context.Background()
	mustLogin(t, a, "alice")

	require.NoError(t, a.db.Close())

	require.Error(t, a.Profile(ctx))
	assert.Contains(t, out.String(), "Profile update failed")
}
