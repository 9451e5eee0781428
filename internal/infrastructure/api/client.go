package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// Client talks to the remote gym/identity service. The bare client carries
// no session and implements domain.IdentityAPI; session-bearing calls go
// through Bound, which adds the bearer token and the auth-failure
// interception.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the remote service's uniform response shape.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// statusError carries a non-2xx response to the per-endpoint error mapping.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrNetwork, err)
	}

	var env envelope
	if len(raw) > 0 {
		// A body that is not the expected envelope is reported through the
		// status code alone.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil {
		payload := env.Data
		if payload == nil {
			payload = raw
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Login implements domain.IdentityAPI.
func (c *Client) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	req := map[string]string{"identifier": identifier, "password": password}
	var result domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &result); err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return &result, nil
}

// Signup implements domain.IdentityAPI; the legacy direct path without OTP.
func (c *Client) Signup(ctx context.Context, draft *domain.RegistrationDraft) (*domain.AuthResult, error) {
	var result domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", draft, &result); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status == http.StatusConflict {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return &result, nil
}

// SendOTP implements domain.IdentityAPI. One request issues the challenge on
// both channels.
func (c *Client) SendOTP(ctx context.Context, phoneNumber, countryCode, email string) error {
	req := map[string]string{
		"phone_number": phoneNumber,
		"country_code": countryCode,
		"email":        email,
	}
	return c.do(ctx, http.MethodPost, "/auth/otp/send", "", req, nil)
}

// VerifyOTP implements domain.IdentityAPI. The single user-entered code is
// sent as both the phone and the email verification value; the remote
// service issues the two challenges with identical codes.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, countryCode, email, code string) error {
	req := map[string]string{
		"phone_number": phoneNumber,
		"country_code": countryCode,
		"phone_code":   code,
		"email":        email,
		"email_code":   code,
	}
	if err := c.do(ctx, http.MethodPost, "/auth/otp/verify", "", req, nil); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return domain.ErrOTPExpiredOrInvalid
		}
		return err
	}
	return nil
}

// SignupWithOTP implements domain.IdentityAPI. Must only be called after a
// successful verify.
func (c *Client) SignupWithOTP(ctx context.Context, draft *domain.RegistrationDraft, code string) (*domain.AuthResult, error) {
	req := struct {
		*domain.RegistrationDraft
		PhoneCode string `json:"phone_code"`
		EmailCode string `json:"email_code"`
	}{draft, code, code}

	var result domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup-with-otp", "", req, &result); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status == http.StatusConflict {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return &result, nil
}

var _ domain.IdentityAPI = (*Client)(nil)

// BoundClient is the session-bearing face of the client. Every call carries
// the slot's current token; a 401 from the remote runs the bound
// auth-failure hook before the error reaches the caller, so the session is
// torn down no matter which component issued the call.
type BoundClient struct {
	c             *Client
	tokens        domain.TokenSource
	onAuthExpired func()
}

// Bound returns a SessionAPI tied to the given token source and
// auth-failure hook.
func (c *Client) Bound(tokens domain.TokenSource, onAuthExpired func()) domain.SessionAPI {
	return &BoundClient{c: c, tokens: tokens, onAuthExpired: onAuthExpired}
}

func (b *BoundClient) do(ctx context.Context, method, path string, body, out any) error {
	err := b.c.do(ctx, method, path, b.tokens(), body, out)
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
		if b.onAuthExpired != nil {
			b.onAuthExpired()
		}
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrAuthExpired)
	}
	return err
}

// Me implements domain.SessionAPI.
func (b *BoundClient) Me(ctx context.Context) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := b.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMembers implements domain.SessionAPI.
func (b *BoundClient) ListMembers(ctx context.Context) ([]domain.MemberSummary, error) {
	var members []domain.MemberSummary
	if err := b.do(ctx, http.MethodGet, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AttendanceSummary implements domain.SessionAPI.
func (b *BoundClient) AttendanceSummary(ctx context.Context) (*domain.AttendanceSummary, error) {
	var summary domain.AttendanceSummary
	if err := b.do(ctx, http.MethodGet, "/attendance/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SendBroadcast implements domain.SessionAPI.
func (b *BoundClient) SendBroadcast(ctx context.Context, broadcast *domain.Broadcast) error {
	return b.do(ctx, http.MethodPost, "/broadcasts", broadcast, nil)
}

var _ domain.SessionAPI = (*BoundClient)(nil)
