package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/readctl/internal/library"
)

// GetShelves fetches the signed-in user's library, partitioned by status.
// Some API versions nest the partitions under a "library" key; both shapes
// are accepted. Missing partitions come back as empty shelves, not errors.
func (c *Client) GetShelves(ctx context.Context) (library.Shelves, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "my-books"), nil, &raw); err != nil {
		return library.Shelves{}, fmt.Errorf("fetching library: %w", err)
	}

	var probe struct {
		Library json.RawMessage `json:"library"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && len(probe.Library) > 0 {
		raw = probe.Library
	}

	var shelves library.Shelves
	if err := json.Unmarshal(raw, &shelves); err != nil {
		return library.Shelves{}, fmt.Errorf("decoding library: %w", err)
	}
	return shelves, nil
}

// AddToLibrary shelves a catalog book for the signed-in user. New entries
// land on to_read. A 409 carries the server's own message verbatim.
func (c *Client) AddToLibrary(ctx context.Context, bookID string) (*library.Entry, error) {
	body := map[string]string{"book_id": bookID}
	var entry library.Entry
	if err := c.doJSON(ctx, http.MethodPost, c.url("api", "my-books"), body, &entry); err != nil {
		return nil, fmt.Errorf("adding %q to library: %w", bookID, err)
	}
	return &entry, nil
}

// UpdateEntry applies a partial update to a library entry.
func (c *Client) UpdateEntry(ctx context.Context, bookID string, patch library.Patch) (*library.Entry, error) {
	var entry library.Entry
	url := c.url("api", "my-books", bookID)
	if err := c.doJSON(ctx, http.MethodPatch, url, patch, &entry); err != nil {
		return nil, fmt.Errorf("updating %q: %w", bookID, err)
	}
	return &entry, nil
}
