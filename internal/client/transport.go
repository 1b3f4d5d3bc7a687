package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tokenrelay/internal/domain"
	"tokenrelay/internal/pkg/response"
)

const defaultTimeout = 10 * time.Second

// envelope is the union of every body the server sends.
type envelope struct {
	Success      bool                 `json:"success"`
	Code         string               `json:"code"`
	Message      string               `json:"message"`
	AccessToken  string               `json:"accessToken"`
	RenewalToken string               `json:"renewalToken"`
	User         *domain.UserSnapshot `json:"user"`
}

// Protected is the body returned by the protected resource.
type Protected struct {
	Message string
	User    domain.UserSnapshot
}

// HTTPTransport calls the login, refresh and protected endpoints. Every call
// is bounded by the configured timeout.
type HTTPTransport struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
	}
}

func (t *HTTPTransport) Login(ctx context.Context, email, password string) (Session, error) {
	var env envelope
	err := t.do(ctx, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &env)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: env.AccessToken, RenewalToken: env.RenewalToken}, nil
}

// Renew exchanges the renewal token for a new access token.
func (t *HTTPTransport) Renew(ctx context.Context, renewalToken string) (string, error) {
	var env envelope
	err := t.do(ctx, http.MethodPost, "/refresh", "", map[string]string{
		"renewalToken": renewalToken,
	}, &env)
	if err != nil {
		return "", err
	}
	if env.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token in refresh response", ErrServer)
	}
	return env.AccessToken, nil
}

func (t *HTTPTransport) Protected(ctx context.Context, accessToken string) (Protected, error) {
	var env envelope
	if err := t.do(ctx, http.MethodPost, "/protected", accessToken, nil, &env); err != nil {
		return Protected{}, err
	}
	out := Protected{Message: env.Message}
	if env.User != nil {
		out.User = *env.User
	}
	return out, nil
}

func (t *HTTPTransport) Logout(ctx context.Context, accessToken string) error {
	return t.do(ctx, http.MethodPost, "/logout", accessToken, nil, &envelope{})
}

func (t *HTTPTransport) do(ctx context.Context, method, path, bearer string, in any, out *envelope) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: status %d: decode body: %w", ErrServer, resp.StatusCode, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && out.Success {
		return nil
	}
	return mapError(resp.StatusCode, out)
}

// mapError turns a failed response into one of the package errors. The code
// field decides; the message is kept for display only.
func mapError(status int, env *envelope) error {
	var kind error
	switch env.Code {
	case response.CodeAccessTokenExpired:
		kind = ErrAccessExpired
	case response.CodeUnauthenticated:
		kind = ErrUnauthenticated
	case response.CodeAuthHeaderMissing, response.CodeInvalidAuthFormat:
		kind = ErrMissingCredential
	case response.CodeInvalidCredentials:
		kind = ErrInvalidCredentials
	case response.CodeRenewalTokenMissing, response.CodeRenewalTokenNotFound:
		kind = ErrRenewalRejected
	default:
		kind = ErrServer
	}
	if env.Message == "" {
		return fmt.Errorf("%w (status %d)", kind, status)
	}
	return fmt.Errorf("%w: %s (status %d)", kind, env.Message, status)
}
