package biomart

import (
	"context"
	"fmt"
	"sync"
)

// Server is the top of the hierarchy: one mart service endpoint. Its
// mart map is fetched lazily from the registry on first access and
// memoized for the lifetime of the value.
type Server struct {
	transport *Transport

	mu    sync.Mutex
	marts map[string]*Mart
}

// NewServer creates a server handle for the given endpoint. No I/O
// happens until the marts are first requested.
func NewServer(settings Settings) *Server {
	return &Server{transport: NewTransport(settings)}
}

// URL returns the service endpoint this server talks to.
func (s *Server) URL() string { return s.transport.URL() }

// Host returns the endpoint host.
func (s *Server) Host() string { return s.transport.Host() }

// Marts returns the marts the server advertises, keyed by mart name.
// The first call fetches the registry; later calls return the cached
// map. The mutex keeps concurrent first access down to one request.
func (s *Server) Marts(ctx context.Context) (map[string]*Mart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.marts != nil {
		return s.marts, nil
	}

	body, err := s.transport.Get(ctx, map[string]string{"type": "registry"})
	if err != nil {
		return nil, err
	}

	reg, err := decodeRegistry(body)
	if err != nil {
		return nil, err
	}

	marts := make(map[string]*Mart, len(reg.Locations))
	for _, loc := range reg.Locations {
		m, err := NewMart(MartInfo{
			Name:          loc.Name,
			DatabaseName:  loc.Database,
			DisplayName:   loc.DisplayName,
			VirtualSchema: loc.VirtualSchema,
		}, s.transport.Settings())
		if err != nil {
			return nil, &ParseError{What: "registry", Err: err}
		}
		marts[m.Name()] = m
	}

	s.marts = marts
	return marts, nil
}

// Mart returns the named mart, fetching the registry first if needed.
// An unknown name is a *NotFoundError wrapping ErrNotFound.
func (s *Server) Mart(ctx context.Context, name string) (*Mart, error) {
	marts, err := s.Marts(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := marts[name]
	if !ok {
		return nil, &NotFoundError{Kind: "mart", Name: name}
	}
	return m, nil
}

func (s *Server) String() string {
	return fmt.Sprintf("<martkit.Server url=%q>", s.URL())
}
