package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Credentials is the token pair attached to authenticated requests.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// CredentialSource supplies the current credentials, if any. It must return
// quickly and must not block on the network. A nil result with a nil error
// means "no session" — the request proceeds unauthenticated.
type CredentialSource func() (*Credentials, error)

// ErrNoSession may be returned by a CredentialSource when no user is signed
// in. It is treated the same as a nil result: the request goes out bare.
var ErrNoSession = errors.New("no active session")

// Client is the reading-tracker API client. Every request is augmented with
// the current session's tokens; credential failures are logged and the
// request proceeds unauthenticated — the server rejects what needs auth.
type Client struct {
	baseURL string
	creds   CredentialSource
	http    *http.Client
	log     *slog.Logger
}

// New creates a Client for the API at baseURL. creds may be nil for a client
// that only hits public endpoints.
func New(baseURL string, creds CredentialSource, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// do executes the request, attaching credentials when available.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.creds != nil {
		creds, err := c.creds()
		switch {
		case err != nil && !errors.Is(err, ErrNoSession):
			c.log.Warn("fetching credentials failed, request proceeds without auth",
				"url", req.URL.Path, "error", err)
		case creds != nil && creds.AccessToken != "":
			req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
			if creds.RefreshToken != "" {
				req.Header.Set("Refresh-Token", creds.RefreshToken)
			}
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// doJSON sends a request and decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// url builds an API URL from path segments.
func (c *Client) url(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// pageQuery renders ?page&limit, omitting unset values.
func pageQuery(page, limit int) string {
	var params []string
	if page > 0 {
		params = append(params, fmt.Sprintf("page=%d", page))
	}
	if limit > 0 {
		params = append(params, fmt.Sprintf("limit=%d", limit))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}
