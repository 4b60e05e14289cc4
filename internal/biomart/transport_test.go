package biomart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestSettingsDefaults(t *testing.T) {
	tr := NewTransport(Settings{})
	if tr.Host() != DefaultHost {
		t.Errorf("host = %q, want %q", tr.Host(), DefaultHost)
	}
	if tr.Path() != DefaultPath {
		t.Errorf("path = %q, want %q", tr.Path(), DefaultPath)
	}
	if tr.Port() != DefaultPort {
		t.Errorf("port = %d, want %d", tr.Port(), DefaultPort)
	}
	if !tr.UseCache() {
		t.Error("caching should default to enabled")
	}
	want := "http://www.biomart.org:80/biomart/martservice"
	if tr.URL() != want {
		t.Errorf("URL = %q, want %q", tr.URL(), want)
	}
}

func TestSettingsHostNormalization(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantURL  string
	}{
		{
			"bare host gains scheme",
			Settings{Host: "www.ensembl.org"},
			"http://www.ensembl.org:80/biomart/martservice",
		},
		{
			"trailing slash stripped",
			Settings{Host: "http://www.ensembl.org/"},
			"http://www.ensembl.org:80/biomart/martservice",
		},
		{
			"embedded port moves to port field",
			Settings{Host: "http://localhost:9000"},
			"http://localhost:9000/biomart/martservice",
		},
		{
			"explicit port wins over default",
			Settings{Host: "www.ensembl.org", Port: 8080},
			"http://www.ensembl.org:8080/biomart/martservice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTransport(tt.settings).URL(); got != tt.wantURL {
				t.Errorf("URL = %q, want %q", got, tt.wantURL)
			}
		})
	}
}

func TestGetMergesExtraParams(t *testing.T) {
	var got url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	tr := NewTransport(Settings{
		Host:         ts.URL,
		DisableCache: true,
		Params:       map[string]string{"requestid": "martkit", "type": "overridden"},
	})

	body, err := tr.Get(context.Background(), map[string]string{"type": "registry"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if got.Get("requestid") != "martkit" {
		t.Errorf("requestid param = %q, want martkit", got.Get("requestid"))
	}
	// Per-request params win over endpoint params.
	if got.Get("type") != "registry" {
		t.Errorf("type param = %q, want registry", got.Get("type"))
	}
}

func TestGetNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such service", http.StatusNotFound)
	}))
	defer ts.Close()

	tr := NewTransport(Settings{Host: ts.URL, DisableCache: true})
	_, err := tr.Get(context.Background(), map[string]string{"type": "registry"})

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("error %v is not a *ResponseError", err)
	}
	if respErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", respErr.StatusCode)
	}
	if !strings.Contains(respErr.Error(), "404") {
		t.Errorf("message %q does not mention the status", respErr.Error())
	}
}

func TestGetConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	tr := NewTransport(Settings{Host: ts.URL, DisableCache: true})
	if _, err := tr.Get(context.Background(), nil); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestGetUsesDiskCache(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "cached body")
	}))
	defer ts.Close()

	tr := NewTransport(Settings{Host: ts.URL, CacheDir: t.TempDir()})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		body, err := tr.Get(ctx, map[string]string{"type": "datasets", "mart": "m"})
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if string(body) != "cached body" {
			t.Errorf("body = %q", body)
		}
	}
	if requests != 1 {
		t.Errorf("got %d requests with caching on, want 1", requests)
	}

	// Different params mean a different cache key.
	if _, err := tr.Get(ctx, map[string]string{"type": "datasets", "mart": "other"}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if requests != 2 {
		t.Errorf("got %d requests, want 2", requests)
	}
}

func TestGetCacheDisabled(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "body")
	}))
	defer ts.Close()

	tr := NewTransport(Settings{Host: ts.URL, CacheDir: t.TempDir(), DisableCache: true})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := tr.Get(ctx, map[string]string{"type": "registry"}); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if requests != 2 {
		t.Errorf("got %d requests with caching off, want 2", requests)
	}
}
