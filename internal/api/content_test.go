package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books/b1/read" {
			t.Errorf("path = %q, want /api/books/b1/read", r.URL.Path)
		}
		w.Write([]byte(`{"signed_url":"https://cdn.example.com/b1.epub?sig=abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	url, err := c.ReadURL(context.Background(), "b1")
	if err != nil {
		t.Fatalf("ReadURL: %v", err)
	}
	if !strings.Contains(url, "sig=abc") {
		t.Errorf("url = %q, want the signed link", url)
	}
}

func TestReadURL_MissingLinkIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	if _, err := c.ReadURL(context.Background(), "b1"); err == nil {
		t.Fatal("expected error when server returns no signed URL")
	}
}

func TestDownloadContent_NoAuthHeaders(t *testing.T) {
	payload := "epub bytes here"
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	rc, total, err := DownloadContent(context.Background(), srv.URL+"/b1.epub?sig=abc")
	if err != nil {
		t.Fatalf("DownloadContent: %v", err)
	}
	defer rc.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, signed URLs must be fetched bare", gotAuth)
	}
	if total != int64(len(payload)) {
		t.Errorf("total = %d, want %d", total, len(payload))
	}
	data, _ := io.ReadAll(rc)
	if string(data) != payload {
		t.Errorf("payload mismatch")
	}
}

func TestDownloadContent_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, _, err := DownloadContent(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for expired signed URL")
	}
}

func TestVerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"subscription_status":"active"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	tier, err := c.VerifyPayment(context.Background(), "cs_123")
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if tier != TierActive {
		t.Errorf("tier = %q, want active", tier)
	}
}

func TestVerifyPayment_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	if _, err := c.VerifyPayment(context.Background(), "cs_123"); err == nil {
		t.Fatal("expected error when verification did not succeed")
	}
}
