package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ReadURL asks the API for a short-lived signed link to the book's content.
// The server scopes the link to the requesting user's entitlement.
func (c *Client) ReadURL(ctx context.Context, bookID string) (string, error) {
	var out struct {
		SignedURL string `json:"signed_url"`
	}
	url := c.url("api", "books", bookID, "read")
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &out); err != nil {
		return "", fmt.Errorf("requesting read link for %q: %w", bookID, err)
	}
	if out.SignedURL == "" {
		return "", fmt.Errorf("book %q: server returned no signed URL", bookID)
	}
	return out.SignedURL, nil
}

// DownloadContent streams the book payload from a signed URL. The link is
// pre-authorized and single-purpose, so no credentials are attached — a plain
// client fetches it directly, bypassing the API layer.
// Caller is responsible for closing the returned ReadCloser.
func DownloadContent(ctx context.Context, signedURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("downloading content: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, 0, fmt.Errorf("downloading content: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, resp.ContentLength, nil
}
