package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Common provider errors.
var (
	// ErrBadCode is returned when OTP verification is rejected.
	ErrBadCode = errors.New("verification code is invalid or expired")
	// ErrRefreshRejected is returned when the refresh token is no longer valid.
	ErrRefreshRejected = errors.New("session expired — sign in again")
)

// Provider is a client for the passwordless identity provider. It only
// consumes the provider's public REST contract: request a one-time code,
// verify it into a session, refresh, and sign out.
type Provider struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewProvider creates a Provider for the auth endpoint at baseURL. apiKey is
// the provider's public (anon) key, sent with every request.
func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// RequestCode asks the provider to email a one-time sign-in code.
func (p *Provider) RequestCode(ctx context.Context, email string) error {
	body := map[string]interface{}{
		"email":               email,
		"create_user":         true,
		"gotrue_meta_security": map[string]string{},
	}
	if err := p.post(ctx, "/otp", body, "", nil); err != nil {
		return fmt.Errorf("requesting sign-in code: %w", err)
	}
	return nil
}

// sessionResponse is the provider's token grant shape.
type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

func (r sessionResponse) toSession() *Session {
	s := &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User,
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}

// VerifyCode exchanges an emailed one-time code for a session.
func (p *Provider) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	body := map[string]string{
		"type":  "email",
		"email": email,
		"token": code,
	}
	var out sessionResponse
	if err := p.post(ctx, "/verify", body, "", &out); err != nil {
		var pe *providerError
		if errors.As(err, &pe) && (pe.status == http.StatusUnauthorized || pe.status == http.StatusForbidden || pe.status == http.StatusUnprocessableEntity) {
			return nil, ErrBadCode
		}
		return nil, fmt.Errorf("verifying code: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("verifying code: provider returned no access token")
	}
	return out.toSession(), nil
}

// Refresh exchanges a refresh token for a fresh session.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out sessionResponse
	if err := p.post(ctx, "/token?grant_type=refresh_token", body, "", &out); err != nil {
		var pe *providerError
		if errors.As(err, &pe) && pe.status >= 400 && pe.status < 500 {
			return nil, ErrRefreshRejected
		}
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("refreshing session: provider returned no access token")
	}
	return out.toSession(), nil
}

// SignOut asks the provider to invalidate the session's tokens.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if err := p.post(ctx, "/logout", nil, accessToken, nil); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// providerError carries the provider's status code and message.
type providerError struct {
	status  int
	message string
}

func (e *providerError) Error() string {
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("identity provider error %d", e.status)
}

// post sends a JSON request to the provider. bearer, when non-empty, is sent
// as the Authorization token; the anon key always goes in the apikey header.
func (p *Provider) post(ctx context.Context, path string, body interface{}, bearer string, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
		var detail struct {
			Msg         string `json:"msg"`
			Message     string `json:"message"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(raw, &detail)
		msg := detail.Msg
		if msg == "" {
			msg = detail.Message
		}
		if msg == "" {
			msg = detail.Description
		}
		return &providerError{status: resp.StatusCode, message: msg}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
