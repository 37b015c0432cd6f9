package library

import (
	"context"
	"errors"
	"testing"
)

type fakeBackend struct {
	shelves      Shelves
	books        []Book
	categories   []Category
	shelvesCalls int
	booksCalls   int
	catCalls     int
	addErr       error
	updateErr    error
}

func (f *fakeBackend) GetShelves(ctx context.Context) (Shelves, error) {
	f.shelvesCalls++
	return f.shelves, nil
}

func (f *fakeBackend) ListBooks(ctx context.Context, page, limit int) ([]Book, error) {
	f.booksCalls++
	return f.books, nil
}

func (f *fakeBackend) ListCategories(ctx context.Context) ([]Category, error) {
	f.catCalls++
	return f.categories, nil
}

func (f *fakeBackend) AddToLibrary(ctx context.Context, bookID string) (*Entry, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	e := Entry{Book: Book{ID: bookID, Title: "Added"}, Status: StatusToRead}
	f.shelves.ToRead = append(f.shelves.ToRead, e)
	return &e, nil
}

func (f *fakeBackend) UpdateEntry(ctx context.Context, bookID string, patch Patch) (*Entry, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e := Entry{Book: Book{ID: bookID}, Status: *patch.Status}
	return &e, nil
}

func signedIn() bool  { return true }
func signedOut() bool { return false }

func TestShelves_CachedUntilInvalidated(t *testing.T) {
	backend := &fakeBackend{shelves: Shelves{
		Reading: []Entry{{Book: Book{ID: "b1", Title: "Dune"}, Status: StatusReading}},
	}}
	svc := NewService(backend, signedIn, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Shelves(ctx); err != nil {
			t.Fatalf("Shelves: %v", err)
		}
	}
	if backend.shelvesCalls != 1 {
		t.Errorf("backend calls = %d, want 1 (cached)", backend.shelvesCalls)
	}

	svc.Invalidate()
	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}
	if backend.shelvesCalls != 2 {
		t.Errorf("backend calls after Invalidate = %d, want 2", backend.shelvesCalls)
	}
}

func TestShelves_RequiresSession(t *testing.T) {
	svc := NewService(&fakeBackend{}, signedOut, nil)
	if _, err := svc.Shelves(context.Background()); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("err = %v, want ErrSignedOut", err)
	}
}

func TestCatalog_PagesCachedIndependently(t *testing.T) {
	backend := &fakeBackend{books: []Book{{ID: "b1"}}}
	svc := NewService(backend, signedOut, nil)
	ctx := context.Background()

	// Catalog works signed out; each (page, limit) pair gets its own entry.
	if _, err := svc.Catalog(ctx, 1, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Catalog(ctx, 1, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Catalog(ctx, 2, 20); err != nil {
		t.Fatal(err)
	}
	if backend.booksCalls != 2 {
		t.Errorf("backend calls = %d, want 2 (one per distinct page)", backend.booksCalls)
	}
}

func TestAdd_InvalidatesLibraryCache(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, signedIn, nil)
	ctx := context.Background()

	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}

	entry, err := svc.Add(ctx, "b9")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if entry.Status != StatusToRead {
		t.Errorf("new entry status = %q, want to_read", entry.Status)
	}

	shelves, err := svc.Shelves(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if backend.shelvesCalls != 2 {
		t.Errorf("Add must invalidate the shelves cache (calls = %d)", backend.shelvesCalls)
	}
	if shelves.Find("b9") == nil {
		t.Error("refetched shelves should contain the added book")
	}
}

func TestAdd_FailureLeavesCacheIntact(t *testing.T) {
	backend := &fakeBackend{addErr: errors.New("Book already in your library")}
	svc := NewService(backend, signedIn, nil)
	ctx := context.Background()

	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, "b1"); err == nil {
		t.Fatal("expected add failure")
	}
	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}
	if backend.shelvesCalls != 1 {
		t.Errorf("failed add must not invalidate (calls = %d)", backend.shelvesCalls)
	}
}

func TestUpdate_EmptyPatchRejected(t *testing.T) {
	svc := NewService(&fakeBackend{}, signedIn, nil)
	if _, err := svc.Update(context.Background(), "b1", Patch{}); err == nil {
		t.Fatal("empty patch should be rejected before hitting the backend")
	}
}

func TestUpdate_InvalidatesOnSuccess(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, signedIn, nil)
	ctx := context.Background()

	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}

	st := StatusFinished
	if _, err := svc.Update(ctx, "b1", Patch{Status: &st}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.Shelves(ctx); err != nil {
		t.Fatal(err)
	}
	if backend.shelvesCalls != 2 {
		t.Errorf("update must invalidate the shelves cache (calls = %d)", backend.shelvesCalls)
	}
}
