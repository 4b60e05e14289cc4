// Package biomart is a client for BioMart-style query services. It
// models the three-level hierarchy the protocol exposes — server, mart
// (database), dataset — with lazy discovery at each level.
package biomart

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/martkit/martkit/internal/httpcache"
)

// Defaults for the public BioMart service. Most real deployments
// (Ensembl and friends) override at least the host.
const (
	DefaultHost = "http://www.biomart.org"
	DefaultPath = "/biomart/martservice"
	DefaultPort = 80

	// DefaultSchema is the virtual schema most marts live in.
	DefaultSchema = "default"
)

// Settings describe one mart service endpoint. Zero-valued fields fall
// back to the public BioMart defaults. A parent entity hands its own
// Settings down to every child it constructs, so the whole hierarchy
// talks to the same endpoint the same way.
type Settings struct {
	Host string
	Path string
	Port int

	// DisableCache turns off the on-disk response cache. Caching is on
	// by default; CacheDir tells the transport where to keep bodies
	// (no caching happens while it is empty).
	DisableCache bool
	CacheDir     string

	// Params are extra query parameters sent with every request.
	// Reserved for deployments that require them; normally empty.
	Params map[string]string
}

func (s Settings) withDefaults() Settings {
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if !strings.HasPrefix(s.Host, "http://") && !strings.HasPrefix(s.Host, "https://") {
		s.Host = "http://" + s.Host
	}
	s.Host = strings.TrimSuffix(s.Host, "/")
	// A port embedded in the host ("http://host:8080") moves to the
	// Port field so the two never stack in the request URL.
	if u, err := url.Parse(s.Host); err == nil && u.Port() != "" {
		if p, err := strconv.Atoi(u.Port()); err == nil && s.Port == 0 {
			s.Port = p
		}
		u.Host = u.Hostname()
		s.Host = u.String()
	}
	if s.Path == "" {
		s.Path = DefaultPath
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}

// Transport issues synchronous GETs against one endpoint. It is the
// only thing in this package that touches the network.
type Transport struct {
	settings Settings
	client   *http.Client
	cache    *httpcache.Cache
}

// NewTransport creates a transport for the given endpoint.
func NewTransport(settings Settings) *Transport {
	settings = settings.withDefaults()
	var cache *httpcache.Cache
	if !settings.DisableCache && settings.CacheDir != "" {
		cache = httpcache.New(settings.CacheDir)
	}
	return &Transport{
		settings: settings,
		client:   http.DefaultClient,
		cache:    cache,
	}
}

// Settings returns the endpoint settings, for propagation to children.
func (t *Transport) Settings() Settings { return t.settings }

// Host returns the endpoint host, scheme included.
func (t *Transport) Host() string { return t.settings.Host }

// Path returns the service path on the host.
func (t *Transport) Path() string { return t.settings.Path }

// Port returns the endpoint port.
func (t *Transport) Port() int { return t.settings.Port }

// UseCache reports whether response caching is enabled.
func (t *Transport) UseCache() bool { return !t.settings.DisableCache }

// URL returns the service endpoint without query parameters.
func (t *Transport) URL() string {
	return fmt.Sprintf("%s:%d%s", t.settings.Host, t.settings.Port, t.settings.Path)
}

// Get performs one GET with the given query parameters and returns the
// response body. Extra endpoint params are merged in, with the caller's
// winning on conflict. A non-2xx status is a *ResponseError. Cached
// bodies are served without a network round trip.
func (t *Transport) Get(ctx context.Context, params map[string]string) ([]byte, error) {
	u := t.requestURL(params)

	if body, ok := t.cache.Get(u); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", u, err)
	}

	if err := t.cache.Put(u, body); err != nil {
		return nil, fmt.Errorf("caching response: %w", err)
	}
	return body, nil
}

func (t *Transport) requestURL(params map[string]string) string {
	values := url.Values{}
	for k, v := range t.settings.Params {
		values.Set(k, v)
	}
	for k, v := range params {
		values.Set(k, v)
	}

	// url.Values.Encode sorts by key, which keeps cache keys stable.
	return t.URL() + "?" + values.Encode()
}

// sortedKeys is shared by the entities that render name-keyed maps.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
