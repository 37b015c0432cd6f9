package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrSignedOut is returned by queries and mutations that need a session.
var ErrSignedOut = errors.New("not signed in — run 'readctl login'")

// Backend is the slice of the API client the service depends on.
type Backend interface {
	GetShelves(ctx context.Context) (Shelves, error)
	ListBooks(ctx context.Context, page, limit int) ([]Book, error)
	ListCategories(ctx context.Context) ([]Category, error)
	AddToLibrary(ctx context.Context, bookID string) (*Entry, error)
	UpdateEntry(ctx context.Context, bookID string, patch Patch) (*Entry, error)
}

// Cache keys. Catalog pages get their own key per (page, limit).
const (
	keyShelves    = "my-books"
	keyCategories = "categories"
)

func keyCatalog(page, limit int) string {
	return fmt.Sprintf("books:%d:%d", page, limit)
}

// Service fetches and caches the user's library and the public catalog.
// hasSession gates the authenticated queries; it is injected rather than
// read from any ambient state.
type Service struct {
	backend    Backend
	hasSession func() bool
	cache      *queryCache
	log        *slog.Logger
}

// NewService creates a Service. hasSession may be nil, which disables the
// session-gated operations.
func NewService(backend Backend, hasSession func() bool, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if hasSession == nil {
		hasSession = func() bool { return false }
	}
	return &Service{
		backend:    backend,
		hasSession: hasSession,
		cache:      newQueryCache(),
		log:        log,
	}
}

// Shelves returns the user's partitioned library, cached until invalidated.
// Empty shelves are a valid result, not an error.
func (s *Service) Shelves(ctx context.Context) (Shelves, error) {
	if !s.hasSession() {
		return Shelves{}, ErrSignedOut
	}
	if v, ok := s.cache.get(keyShelves); ok {
		return v.(Shelves), nil
	}
	shelves, err := s.backend.GetShelves(ctx)
	if err != nil {
		return Shelves{}, err
	}
	s.cache.set(keyShelves, shelves)
	return shelves, nil
}

// Catalog returns one page of the public catalog. Works signed out.
func (s *Service) Catalog(ctx context.Context, page, limit int) ([]Book, error) {
	key := keyCatalog(page, limit)
	if v, ok := s.cache.get(key); ok {
		return v.([]Book), nil
	}
	books, err := s.backend.ListBooks(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, books)
	return books, nil
}

// Categories returns the catalog categories. Works signed out.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if v, ok := s.cache.get(keyCategories); ok {
		return v.([]Category), nil
	}
	cats, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(keyCategories, cats)
	return cats, nil
}

// Add shelves a catalog book onto to_read. On success the library cache is
// invalidated so the next Shelves call sees the new entry; on failure the
// server's message comes back unchanged and nothing is cached.
func (s *Service) Add(ctx context.Context, bookID string) (*Entry, error) {
	if !s.hasSession() {
		return nil, ErrSignedOut
	}
	entry, err := s.backend.AddToLibrary(ctx, bookID)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(keyShelves)
	return entry, nil
}

// Update applies a partial update to a library entry and invalidates the
// library cache on success. There is no optimistic write: a failed update
// leaves the displayed state at whatever the last fetch returned.
func (s *Service) Update(ctx context.Context, bookID string, patch Patch) (*Entry, error) {
	if !s.hasSession() {
		return nil, ErrSignedOut
	}
	if patch.IsZero() {
		return nil, errors.New("nothing to update")
	}
	entry, err := s.backend.UpdateEntry(ctx, bookID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(keyShelves)
	return entry, nil
}

// Invalidate drops every cached query. Used on sign-in and sign-out so one
// user's library never shows under another session.
func (s *Service) Invalidate() {
	s.cache.clear()
}
