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
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"golang.org/x/time/rate"
)

// Doer is the part of *http.Client used here; tests inject their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient talks to a reqres-style JSON API:
//
//	GET    /users?page={n}  -> {data: User[], total_pages: int}
//	PUT    /users/{id}      <- {first_name, last_name, email}
//	DELETE /users/{id}      -> 200 or 204
//	POST   /login           <- {email, password} -> {token} | {error}
type HTTPClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	doer    Doer
	limiter *rate.Limiter
	log     logging.Logger
}

type Option func(*HTTPClient)

func WithDoer(d Doer) Option { return func(c *HTTPClient) { c.doer = d } }

func WithAPIKey(key string) Option { return func(c *HTTPClient) { c.apiKey = key } }

func WithTimeout(d time.Duration) Option { return func(c *HTTPClient) { c.timeout = d } }

func WithLogger(l logging.Logger) Option { return func(c *HTTPClient) { c.log = l } }

// WithRateLimit caps outbound requests per second. rps <= 0 means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
		doer:    &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type listUsersResponse struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Data       []models.User `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

func (c *HTTPClient) FetchPage(ctx context.Context, page int) (*models.Page, error) {
	const op = "fetch page"

	if page < 1 {
		return nil, fmt.Errorf("%s: %w", op, common.ErrInvalidPage)
	}

	q := url.Values{"page": []string{strconv.Itoa(page)}}
	var body listUsersResponse
	err := c.do(ctx, op, http.MethodGet, "/users?"+q.Encode(), nil, func(status int, raw []byte) error {
		if !isOK(status) {
			return &TransportError{Op: op, StatusCode: status, Message: "failed to fetch users"}
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return &TransportError{Op: op, Message: "failed to decode users page", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := body.Data
	if items == nil {
		items = []models.User{}
	}
	return &models.Page{Items: items, TotalPages: body.TotalPages}, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int, fields models.UserFields) error {
	const op = "update user"

	return c.do(ctx, op, http.MethodPut, userPath(id), fields, func(status int, _ []byte) error {
		if !isOK(status) {
			return &TransportError{Op: op, StatusCode: status, Message: "failed to update user"}
		}
		return nil
	})
}

// DeleteUser treats 204 No Content the same as 200 OK.
func (c *HTTPClient) DeleteUser(ctx context.Context, id int) error {
	const op = "delete user"

	return c.do(ctx, op, http.MethodDelete, userPath(id), nil, func(status int, _ []byte) error {
		if !isOK(status) && status != http.StatusNoContent {
			return &TransportError{Op: op, StatusCode: status, Message: "failed to delete user"}
		}
		return nil
	})
}

// Login exchanges credentials for a session token. The remote error text,
// when present, becomes the error message.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	const op = "login"

	var body loginResponse
	err := c.do(ctx, op, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, func(status int, raw []byte) error {
		_ = json.Unmarshal(raw, &body)
		if !isOK(status) {
			msg := body.Error
			if msg == "" {
				msg = "login failed"
			}
			return &TransportError{Op: op, StatusCode: status, Message: msg}
		}
		if body.Token == "" {
			return &TransportError{Op: op, Message: "login response has no token"}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return body.Token, nil
}

// do sends one request and hands the fully read response to handle while the
// per-request timeout is still in force.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, payload any, handle func(status int, body []byte) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Message: "request not sent", Err: err}
	}

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return &TransportError{Op: op, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	}

	started := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.log.Warn(ctx, "remote request failed", "op", op, "method", method, "path", path, "error", err)
		return &TransportError{
			Op:          op,
			Message:     "network error",
			Err:         err,
			unavailable: !errors.Is(err, context.Canceled),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Message: "failed to read response", Err: err}
	}

	c.log.Debug(ctx, "remote request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(started))

	return handle(resp.StatusCode, raw)
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}
