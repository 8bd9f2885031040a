package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"sealchat/internal/domain"
)

const apiPrefix = "/api/v1"

// StatusError is returned for any non-2xx relay response.
type StatusError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay %s %s: %d %s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("relay %s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// IsNotFound reports whether err is a relay 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// HTTP talks to a sealchat relay over JSON/HTTP and websockets.
type HTTP struct {
	Base   string
	HTTP   *http.Client
	Dialer *websocket.Dialer
	Token  string
}

// NewHTTP returns a client for the relay at base with the given request timeout.
func NewHTTP(base string, timeout time.Duration) *HTTP {
	return &HTTP{
		Base:   strings.TrimRight(base, "/"),
		HTTP:   &http.Client{Timeout: timeout},
		Dialer: &websocket.Dialer{HandshakeTimeout: timeout},
	}
}

// SetToken sets the bearer token used for authenticated calls.
func (c *HTTP) SetToken(token string) { c.Token = token }

func (c *HTTP) Register(ctx context.Context, req domain.RegisterRequest) (domain.Session, error) {
	var out domain.Session
	return out, c.do(ctx, http.MethodPost, "/users/register", req, &out)
}

func (c *HTTP) Login(ctx context.Context, req domain.LoginRequest) (domain.Session, error) {
	var out domain.Session
	return out, c.do(ctx, http.MethodPost, "/users/login", req, &out)
}

func (c *HTTP) FetchPublicKeys(ctx context.Context, id domain.UserID) (domain.PublicKeys, error) {
	var out domain.PublicKeys
	return out, c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id.String())+"/keys", nil, &out)
}

func (c *HTTP) FindUser(ctx context.Context, email string) (domain.UserSummary, error) {
	var out domain.UserSummary
	q := url.Values{"email": {email}}
	return out, c.do(ctx, http.MethodGet, "/users/search?"+q.Encode(), nil, &out)
}

func (c *HTTP) OpenChat(ctx context.Context, peer domain.UserID) (domain.Chat, error) {
	var out domain.Chat
	return out, c.do(ctx, http.MethodPost, "/chats", domain.OpenChatRequest{PeerID: peer}, &out)
}

func (c *HTTP) FetchChat(ctx context.Context, id domain.ChatID) (domain.Chat, error) {
	var out domain.Chat
	return out, c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(id.String()), nil, &out)
}

func (c *HTTP) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var out []domain.Chat
	return out, c.do(ctx, http.MethodGet, "/chats", nil, &out)
}

func (c *HTTP) SendMessage(
	ctx context.Context,
	chat domain.ChatID,
	req domain.SendMessageRequest,
) (domain.SealedMessage, error) {
	var out domain.SealedMessage
	return out, c.do(ctx, http.MethodPost, "/chats/"+url.PathEscape(chat.String())+"/messages", req, &out)
}

func (c *HTTP) FetchMessages(
	ctx context.Context,
	chat domain.ChatID,
	after int64,
	limit int,
) ([]domain.SealedMessage, error) {
	q := url.Values{}
	if after > 0 {
		q.Set("after", strconv.FormatInt(after, 10))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/chats/" + url.PathEscape(chat.String()) + "/messages"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []domain.SealedMessage
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *HTTP) DeleteMessage(ctx context.Context, id domain.MessageID) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+url.PathEscape(id.String()), nil, nil)
}

// Subscribe streams new messages of chat until ctx is cancelled or the
// connection drops. The returned channel is closed on exit.
func (c *HTTP) Subscribe(ctx context.Context, chat domain.ChatID) (<-chan domain.SealedMessage, error) {
	u, err := url.Parse(c.Base + apiPrefix + "/chats/" + url.PathEscape(chat.String()) + "/ws")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	hdr := http.Header{}
	if c.Token != "" {
		hdr.Set("Authorization", "Bearer "+c.Token)
	}
	conn, resp, err := c.Dialer.DialContext(ctx, u.String(), hdr)
	if err != nil {
		if resp != nil {
			return nil, statusError(http.MethodGet, u.String(), resp)
		}
		return nil, errors.Wrap(err, "relay subscribe")
	}

	out := make(chan domain.SealedMessage)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()
	go func() {
		defer close(out)
		defer close(done)
		for {
			var m domain.SealedMessage
			if err := conn.ReadJSON(&m); err != nil {
				return
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	u := c.Base + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "relay %s %s", method, path)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(method, u, resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decode %s %s", method, path)
		}
	}
	return nil
}

func statusError(method, u string, resp *http.Response) error {
	se := &StatusError{Method: method, URL: u, Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if resp.Body != nil {
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body) == nil {
			se.Message = body.Message
		}
	}
	return se
}

var _ domain.RelayClient = (*HTTP)(nil)
