package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

const (
	DefaultVerifyTimeout = 10 * time.Second
	maxBodySize          = 1 << 20
)

// HTTPClient talks JSON to the identity service. Cookies set by the server
// are kept in a jar scoped to the server origin and sent on every request.
type HTTPClient struct {
	baseURL       *url.URL
	http          *http.Client
	verifyTimeout time.Duration
}

func NewHTTPClient(serverURL string, verifyTimeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", serverURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if verifyTimeout <= 0 {
		verifyTimeout = DefaultVerifyTimeout
	}

	return &HTTPClient{
		baseURL:       u,
		http:          &http.Client{Jar: jar},
		verifyTimeout: verifyTimeout,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, common.LoginPath, "", bytes.NewReader(body))
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.mapError(err)
	}

	if !isSuccess(resp.StatusCode) {
		var m messageResponse
		_ = json.Unmarshal(raw, &m)
		return nil, statusError(resp.StatusCode, firstNonEmpty(m.Message, m.Error))
	}

	var out LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.User == nil || out.Token == "" {
		return nil, fmt.Errorf("%w: user and token are required", ErrInvalidResponse)
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, common.LogoutPath, "", nil)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if !isSuccess(resp.StatusCode) {
		return statusError(resp.StatusCode, "")
	}
	return nil
}

type verifyResponse struct {
	Success bool             `json:"success"`
	Data    *identity.Claims `json:"data"`
	Error   string           `json:"error"`
	Message string           `json:"message"`
}

// Verify resolves the caller's identity. A 401/403 status or an explicit
// failure reason in the body is a rejection. Anything the server did not
// clearly say, including a timeout, 408, 429 or 5xx, is ErrUnavailable.
func (c *HTTPClient) Verify(ctx context.Context, token string) (*identity.Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, common.VerifyPath, token, nil)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.mapError(err)
	}

	switch code := resp.StatusCode; {
	case code >= http.StatusInternalServerError, isTransient(code):
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, code)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		var m messageResponse
		_ = json.Unmarshal(raw, &m)
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, firstNonEmpty(m.Error, m.Message, http.StatusText(code)))
	}

	var out verifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: undecodable verify body (status %d): %v", ErrUnavailable, resp.StatusCode, err)
	}

	if !out.Success || !isSuccess(resp.StatusCode) {
		if reason := firstNonEmpty(out.Error, out.Message); reason != "" && !out.Success {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, reason)
		}
		return nil, fmt.Errorf("%w: verify failed without a reason (status %d)", ErrUnavailable, resp.StatusCode)
	}

	if out.Data == nil {
		return nil, fmt.Errorf("%w: verify success without data", ErrInvalidResponse)
	}
	if err := out.Data.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out.Data, nil
}

// MirrorToken stores token as the auth cookie for the server origin unless
// an auth cookie is already present; a server-set cookie is never replaced.
func (c *HTTPClient) MirrorToken(token string) {
	if token == "" || c.HasAuthCookie() {
		return
	}
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}})
}

func (c *HTTPClient) HasAuthCookie() bool {
	_, ok := c.authCookie()
	return ok
}

// ClearAuthCookie removes the auth cookie. With a non-empty match only a
// cookie carrying exactly that value is removed.
func (c *HTTPClient) ClearAuthCookie(match string) {
	v, ok := c.authCookie()
	if !ok || (match != "" && v != match) {
		return
	}
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   common.AuthCookieName,
		Path:   "/",
		MaxAge: -1,
	}})
}

func (c *HTTPClient) authCookie() (string, bool) {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == common.AuthCookieName {
			return ck.Value, true
		}
	}
	return "", false
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

// mapError turns a transport failure into ErrUnavailable, keeping the cause.
// Cancellation by the caller is passed through unchanged.
func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func statusError(code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %d %s", ErrUnavailable, code, msg)
	}
	return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// isTransient reports statuses that say "try again later" rather than
// anything about the credential.
func isTransient(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
