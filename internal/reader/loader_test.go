package reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/readctl/internal/cache"
)

type fakeContentAPI struct {
	url   string
	err   error
	calls int
}

func (f *fakeContentAPI) ReadURL(ctx context.Context, bookID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func contentServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("signed-URL fetch must not carry auth headers")
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_CacheHitSkipsAPI(t *testing.T) {
	mgr := cache.New(t.TempDir())
	if err := mgr.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	want := []byte("cached epub bytes")
	if err := os.WriteFile(mgr.Path("b1"), want, 0o644); err != nil {
		t.Fatal(err)
	}

	capi := &fakeContentAPI{}
	ldr := NewLoader(capi, mgr, nil)

	got, err := ldr.Load(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Load returned %q, want cached bytes", got)
	}
	if capi.calls != 0 {
		t.Errorf("API called %d times on a cache hit, want 0", capi.calls)
	}
}

func TestLoad_DownloadStoresToCache(t *testing.T) {
	payload := bytes.Repeat([]byte("book "), 1000)
	srv := contentServer(t, payload)

	mgr := cache.New(t.TempDir())
	ldr := NewLoader(&fakeContentAPI{url: srv.URL}, mgr, nil)

	got, err := ldr.Load(context.Background(), "b2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load returned %d bytes, want %d", len(got), len(payload))
	}

	if !mgr.Exists("b2") {
		t.Fatal("download should land in the cache")
	}
	cached, err := os.ReadFile(mgr.Path("b2"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(cached, payload) {
		t.Error("cached file differs from downloaded payload")
	}

	// No stray temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(mgr.Path("b2")))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want just the book", len(entries))
	}
}

func TestLoad_WrapSeesStreamAndTotal(t *testing.T) {
	payload := []byte("wrapped content")
	srv := contentServer(t, payload)

	mgr := cache.New(t.TempDir())
	ldr := NewLoader(&fakeContentAPI{url: srv.URL}, mgr, nil)

	var gotTotal int64
	wrapped := false
	ldr.Wrap = func(r io.Reader, total int64) io.Reader {
		wrapped = true
		gotTotal = total
		return r
	}

	if _, err := ldr.Load(context.Background(), "b3"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !wrapped {
		t.Fatal("Wrap hook was not applied to the download stream")
	}
	if gotTotal != int64(len(payload)) {
		t.Errorf("Wrap total = %d, want %d", gotTotal, len(payload))
	}
}

func TestLoad_NilCacheStreamsDirectly(t *testing.T) {
	payload := []byte("uncached")
	srv := contentServer(t, payload)

	ldr := NewLoader(&fakeContentAPI{url: srv.URL}, nil, nil)
	got, err := ldr.Load(context.Background(), "b4")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load = %q, want %q", got, payload)
	}
}

func TestLoad_SignedURLErrorIsTerminal(t *testing.T) {
	wantErr := errors.New("subscription required")
	mgr := cache.New(t.TempDir())
	ldr := NewLoader(&fakeContentAPI{err: wantErr}, mgr, nil)

	if _, err := ldr.Load(context.Background(), "b5"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the API error", err)
	}
	if mgr.Exists("b5") {
		t.Error("nothing should be cached after a failed load")
	}
}
