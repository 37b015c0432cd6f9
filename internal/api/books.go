package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/readctl/internal/library"
)

// ListBooks fetches one catalog page. Older API versions return a bare array,
// newer ones wrap it as {"books": [...]}; both are accepted.
func (c *Client) ListBooks(ctx context.Context, page, limit int) ([]library.Book, error) {
	url := c.url("api", "books") + pageQuery(page, limit)

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &raw); err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	var books []library.Book
	if err := unwrapList(raw, "books", &books); err != nil {
		return nil, fmt.Errorf("decoding book list: %w", err)
	}
	return books, nil
}

// ListCategories fetches the catalog categories, accepting both the wrapped
// {"categories": [...]} and bare-array response shapes.
func (c *Client) ListCategories(ctx context.Context) ([]library.Category, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "categories"), nil, &raw); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	var cats []library.Category
	if err := unwrapList(raw, "categories", &cats); err != nil {
		return nil, fmt.Errorf("decoding category list: %w", err)
	}
	return cats, nil
}

// unwrapList decodes raw into out, whether raw is a bare JSON array or an
// object wrapping the array under key.
func unwrapList(raw json.RawMessage, key string, out interface{}) error {
	if len(raw) > 0 && raw[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	inner, ok := wrapper[key]
	if !ok {
		return fmt.Errorf("response has neither a bare array nor a %q key", key)
	}
	return json.Unmarshal(inner, out)
}
