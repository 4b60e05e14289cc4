package biomart

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
)

// The ?type=datasets reply is headerless TSV with nine fixed columns.
// The unknown columns are reserved by the protocol; they must be
// consumed to keep alignment but carry nothing this client interprets.
const (
	dsColType = iota
	dsColName
	dsColDisplayName
	dsColUnknown
	dsColUnknown2
	dsColUnknown3
	dsColUnknown4
	dsColVirtualSchema
	dsColUnknown5

	datasetColumnCount = 9
)

// MartInfo identifies one mart on a server.
type MartInfo struct {
	Name          string // mart identifier used in queries
	DatabaseName  string // host-side mart ID
	DisplayName   string // human label
	VirtualSchema string // defaults to DefaultSchema
}

// Mart is one database on a mart server: a named collection of
// datasets. The dataset map is fetched lazily on first access and
// memoized; a failed fetch leaves the slot empty so the caller can
// retry.
type Mart struct {
	name          string
	databaseName  string
	displayName   string
	virtualSchema string
	transport     *Transport

	mu       sync.Mutex
	datasets map[string]*Dataset
}

// NewMart creates a mart handle. The three identity strings are
// required; connection settings come from the owning server. No I/O
// happens here.
func NewMart(info MartInfo, settings Settings) (*Mart, error) {
	if info.Name == "" || info.DatabaseName == "" || info.DisplayName == "" {
		return nil, errors.New("mart name, database name and display name are required")
	}
	if info.VirtualSchema == "" {
		info.VirtualSchema = DefaultSchema
	}
	return &Mart{
		name:          info.Name,
		databaseName:  info.DatabaseName,
		displayName:   info.DisplayName,
		virtualSchema: info.VirtualSchema,
		transport:     NewTransport(settings),
	}, nil
}

// Name returns the mart identifier used in queries.
func (m *Mart) Name() string { return m.name }

// DatabaseName returns the host-side ID of the mart.
func (m *Mart) DatabaseName() string { return m.databaseName }

// DisplayName returns the human-readable label of the mart.
func (m *Mart) DisplayName() string { return m.displayName }

// VirtualSchema returns the virtual schema the mart lives in.
func (m *Mart) VirtualSchema() string { return m.virtualSchema }

// Host returns the endpoint host the mart was constructed with.
func (m *Mart) Host() string { return m.transport.Host() }

// Path returns the service path on the host.
func (m *Mart) Path() string { return m.transport.Path() }

// Port returns the endpoint port.
func (m *Mart) Port() int { return m.transport.Port() }

// UseCache reports whether response caching is enabled.
func (m *Mart) UseCache() bool { return m.transport.UseCache() }

// Datasets returns the datasets in this mart, keyed by dataset name.
// The first call issues one GET and memoizes the result; later calls
// return the same map without touching the network. Duplicate names in
// the reply resolve last-write-wins, matching the protocol.
func (m *Mart) Datasets(ctx context.Context) (map[string]*Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.datasets != nil {
		return m.datasets, nil
	}

	body, err := m.transport.Get(ctx, map[string]string{
		"type": "datasets",
		"mart": m.name,
	})
	if err != nil {
		return nil, err
	}

	datasets, err := m.decodeDatasets(body)
	if err != nil {
		return nil, err
	}

	m.datasets = datasets
	return datasets, nil
}

// Dataset returns the named dataset, triggering the lazy fetch if it
// has not happened yet. An unknown name is a *NotFoundError wrapping
// ErrNotFound, distinct from any transport or parse failure.
func (m *Mart) Dataset(ctx context.Context, name string) (*Dataset, error) {
	datasets, err := m.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := datasets[name]
	if !ok {
		return nil, &NotFoundError{Kind: "dataset", Name: name}
	}
	return d, nil
}

func (m *Mart) decodeDatasets(body []byte) (map[string]*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = '\t'
	r.FieldsPerRecord = datasetColumnCount
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{What: "datasets", Err: err}
	}

	datasets := make(map[string]*Dataset, len(rows))
	for _, row := range rows {
		d, err := NewDataset(DatasetInfo{
			Name:          row[dsColName],
			DisplayName:   row[dsColDisplayName],
			VirtualSchema: row[dsColVirtualSchema],
		}, m.transport.Settings())
		if err != nil {
			return nil, &ParseError{What: "datasets", Err: err}
		}
		datasets[d.Name()] = d
	}
	return datasets, nil
}

func (m *Mart) String() string {
	return fmt.Sprintf("<martkit.Mart name=%q database_name=%q display_name=%q>",
		m.name, m.databaseName, m.displayName)
}
