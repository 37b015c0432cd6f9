// Package reader wires book content into the pagination engine and keeps
// persisted reading progress reasonably fresh without write amplification.
package reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/blackwell-systems/readctl/internal/cache"
)

// ContentAPI is the slice of the API client the loader needs.
type ContentAPI interface {
	ReadURL(ctx context.Context, bookID string) (string, error)
}

// Loader turns a book ID into EPUB bytes: signed link from the API, then a
// direct fetch of the payload. Downloads land in the local cache so a book
// is only fetched once.
type Loader struct {
	api   ContentAPI
	cache *cache.Manager
	log   *slog.Logger

	// Wrap, when set, decorates the download stream (progress reporting).
	Wrap func(r io.Reader, total int64) io.Reader
}

// NewLoader creates a Loader. cache may be nil to disable local caching.
func NewLoader(contentAPI ContentAPI, cacheMgr *cache.Manager, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{api: contentAPI, cache: cacheMgr, log: log}
}

// Load fetches the book's content. A failed attempt is terminal — the caller
// decides whether to re-trigger the whole load; nothing here retries.
func (l *Loader) Load(ctx context.Context, bookID string) ([]byte, error) {
	if l.cache != nil && l.cache.Exists(bookID) {
		l.log.Debug("content cache hit", "book", bookID)
		return os.ReadFile(l.cache.Path(bookID))
	}

	signedURL, err := l.api.ReadURL(ctx, bookID)
	if err != nil {
		return nil, err
	}

	rc, total, err := api.DownloadContent(ctx, signedURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if l.Wrap != nil {
		r = l.Wrap(rc, total)
	}

	if l.cache == nil {
		return io.ReadAll(r)
	}

	path, err := l.cache.Store(bookID, r, "")
	if err != nil {
		return nil, fmt.Errorf("caching content: %w", err)
	}
	return os.ReadFile(path)
}
