// SPDX-License-Identifier: MPL-2.0

package nexus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// searchHandler serves two pages of results linked by a continuation token.
func searchHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/rest/v1/search/assets" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("group"); got != "com.example*" {
			t.Errorf("group param = %q, want com.example*", got)
		}

		var resp searchResponse
		switch r.URL.Query().Get("continuationToken") {
		case "":
			resp = searchResponse{
				Items: []searchItem{
					{Path: "/com/example/app/1.0.0/app-1.0.0.jar", DownloadURL: "u1"},
					{Path: "com/example/sub/lib/2.0/lib-2.0.jar", DownloadURL: "u2"},
					{Path: "org/other/x/1.0/x-1.0.jar", DownloadURL: "u3"},
				},
				ContinuationToken: "page2",
			}
		case "page2":
			resp = searchResponse{
				Items: []searchItem{
					{Path: "com/example/app/1.1.0/app-1.1.0.jar", DownloadURL: "u4"},
				},
			}
		default:
			t.Errorf("unexpected continuation token %q", r.URL.Query().Get("continuationToken"))
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestSearchAssetsFollowsPaginationAndFiltersGroup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(searchHandler(t))
	defer srv.Close()

	c := NewClient(srv.URL, WithRepository("maven-releases"))
	assets, err := c.SearchAssets(context.Background(), "com.example", "jar")
	if err != nil {
		t.Fatalf("SearchAssets() = %v", err)
	}

	if len(assets) != 3 {
		t.Fatalf("got %d assets, want 3 (foreign group filtered): %+v", len(assets), assets)
	}
	for _, a := range assets {
		if a.Path[0] == '/' {
			t.Errorf("asset path %q not normalized", a.Path)
		}
	}
}

func TestSearchAssetsSendsBasicAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "deploy" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithBasicAuth("deploy", "secret"))
	if _, err := c.SearchAssets(context.Background(), "com.example", "jar"); err != nil {
		t.Fatalf("SearchAssets() with auth = %v", err)
	}

	anon := NewClient(srv.URL)
	if _, err := anon.SearchAssets(context.Background(), "com.example", "jar"); err == nil {
		t.Error("SearchAssets() without auth should fail against 401")
	}
}

func TestDownloadRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("artifact-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, withSleep(func(time.Duration) {}))
	dest := filepath.Join(t.TempDir(), "com", "example", "app-1.0.jar")
	err := c.Download(context.Background(), Asset{Path: "p", DownloadURL: srv.URL}, dest)
	if err != nil {
		t.Fatalf("Download() = %v after retries", err)
	}
	if calls.Load() != 3 {
		t.Errorf("download attempts = %d, want 3", calls.Load())
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "artifact-bytes" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestDownloadDoesNotRetryNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, withSleep(func(time.Duration) {}))
	dest := filepath.Join(t.TempDir(), "a.jar")
	err := c.Download(context.Background(), Asset{Path: "p", DownloadURL: srv.URL}, dest)
	if err == nil || calls.Load() != 1 {
		t.Errorf("Download() = %v after %d calls, want ErrNotFound after 1", err, calls.Load())
	}
}

func TestDownloadGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, withSleep(func(time.Duration) {}))
	dest := filepath.Join(t.TempDir(), "a.jar")
	if err := c.Download(context.Background(), Asset{Path: "p", DownloadURL: srv.URL}, dest); err == nil {
		t.Error("Download() succeeded against a permanently failing server")
	}
	if calls.Load() != downloadRetries {
		t.Errorf("download attempts = %d, want %d", calls.Load(), downloadRetries)
	}
	if _, err := os.Stat(dest); err == nil {
		t.Error("failed download left a file behind")
	}
}
