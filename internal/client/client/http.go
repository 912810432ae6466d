package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/talkclient/internal/buildinfo"
	"github.com/dmitrijs2005/talkclient/internal/client/models"
	"github.com/dmitrijs2005/talkclient/internal/common"
	"github.com/dmitrijs2005/talkclient/internal/logging"
)

const maxBodySize = 8 << 20

// HTTPClient talks to the OCS API of a Talk server over net/http.
type HTTPClient struct {
	http      *http.Client
	userAgent string
	log       logging.Logger
}

// NewHTTPClient returns an HTTPClient whose requests time out after timeout
// (zero means no timeout).
func NewHTTPClient(timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		http:      &http.Client{Timeout: timeout},
		userAgent: buildinfo.UserAgent(),
		log:       log.With("module", "talkapi"),
	}
}

type request struct {
	method   string
	url      string
	username string
	secret   string
	form     url.Values
	accept   string
}

func (c *HTTPClient) do(ctx context.Context, r request) ([]byte, error) {
	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.username != "" {
		req.SetBasicAuth(r.username, r.secret)
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set(common.OCSAPIRequestHeader, "true")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "talk api call", "method", r.method, "url", r.url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: ocsMessage(data)}
	}
	return data, nil
}

func (c *HTTPClient) asUser(method, u string, user models.User) request {
	return request{method: method, url: u, username: user.Username, secret: user.Token}
}

func ocsMessage(data []byte) string {
	var env models.OCSEnvelope
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	return env.OCS.Meta.Message
}

func decodeOCS(data []byte, v any) error {
	var env models.OCSEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode ocs envelope: %w", err)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(env.OCS.Data, v); err != nil {
		return fmt.Errorf("decode ocs data: %w", err)
	}
	return nil
}

func (c *HTTPClient) call(ctx context.Context, r request, out any) error {
	data, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	return decodeOCS(data, out)
}

func (c *HTTPClient) Ping(ctx context.Context, baseURL string) error {
	data, err := c.do(ctx, request{method: http.MethodGet, url: statusURL(baseURL)})
	if err != nil {
		return err
	}
	var st models.ServerStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: bad status body: %w", ErrUnavailable, err)
	}
	if !st.Installed || st.Maintenance {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) AppPassword(ctx context.Context, baseURL, username, password string) (string, error) {
	var out models.AppPassword
	r := request{method: http.MethodGet, url: appPasswordURL(baseURL), username: username, secret: password}
	if err := c.call(ctx, r, &out); err != nil {
		return "", err
	}
	if out.AppPassword == "" {
		return "", errors.New("empty app password")
	}
	return out.AppPassword, nil
}

func (c *HTTPClient) Profile(ctx context.Context, user models.User) (*models.Profile, error) {
	var out models.Profile
	if err := c.call(ctx, c.asUser(http.MethodGet, profileURL(user.BaseURL), user), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Rooms(ctx context.Context, user models.User) ([]models.Room, error) {
	out := make([]models.Room, 0)
	if err := c.call(ctx, c.asUser(http.MethodGet, roomsURL(user.BaseURL), user), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RemoveSelfFromRoom(ctx context.Context, user models.User, roomToken string) error {
	return c.call(ctx, c.asUser(http.MethodDelete, selfParticipantURL(user.BaseURL, roomToken), user), nil)
}

func (c *HTTPClient) RenameRoom(ctx context.Context, user models.User, roomToken, name string) error {
	r := c.asUser(http.MethodPut, roomURL(user.BaseURL, roomToken), user)
	r.form = url.Values{"roomName": {name}}
	return c.call(ctx, r, nil)
}

func (c *HTTPClient) MakeRoomPublic(ctx context.Context, user models.User, roomToken string) error {
	return c.call(ctx, c.asUser(http.MethodPost, roomPublicURL(user.BaseURL, roomToken), user), nil)
}

func (c *HTTPClient) MakeRoomPrivate(ctx context.Context, user models.User, roomToken string) error {
	return c.call(ctx, c.asUser(http.MethodDelete, roomPublicURL(user.BaseURL, roomToken), user), nil)
}

func (c *HTTPClient) SetPassword(ctx context.Context, user models.User, roomToken, password string) error {
	r := c.asUser(http.MethodPut, roomPasswordURL(user.BaseURL, roomToken), user)
	r.form = url.Values{"password": {password}}
	return c.call(ctx, r, nil)
}

func (c *HTTPClient) DeleteRoom(ctx context.Context, user models.User, roomToken string) error {
	return c.call(ctx, c.asUser(http.MethodDelete, roomURL(user.BaseURL, roomToken), user), nil)
}

func (c *HTTPClient) JoinRoom(ctx context.Context, user models.User, roomToken, password string) (string, error) {
	r := c.asUser(http.MethodPost, activeParticipantURL(user.BaseURL, roomToken), user)
	r.form = url.Values{"password": {password}}

	var out models.CallSession
	if err := c.call(ctx, r, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// Avatar fetches the raw image bytes. Responses are never cached.
func (c *HTTPClient) Avatar(ctx context.Context, user models.User, name string, size int) ([]byte, error) {
	r := c.asUser(http.MethodGet, avatarURL(user.BaseURL, name, size), user)
	r.accept = "image/*"
	data, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("avatar %q: %w", name, common.ErrNotFound)
	}
	return data, nil
}
