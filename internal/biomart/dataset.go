package biomart

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DatasetInfo identifies one dataset within a mart.
type DatasetInfo struct {
	Name          string
	DisplayName   string
	VirtualSchema string // defaults to DefaultSchema
}

// Attribute is one output column a dataset can produce.
type Attribute struct {
	Name        string
	DisplayName string
	Description string
	Default     bool
}

// Filter is one predicate a dataset accepts in queries.
type Filter struct {
	Name        string
	Type        string
	Description string
}

// Dataset is a queryable table-like resource within a mart. Its
// attribute/filter configuration is fetched lazily on first access and
// memoized, same as the dataset list on Mart.
type Dataset struct {
	name          string
	displayName   string
	virtualSchema string
	transport     *Transport

	mu         sync.Mutex
	attributes map[string]Attribute
	filters    map[string]Filter
	defaults   []string // default attribute names, config order
}

// NewDataset creates a dataset handle. Connection settings come from
// the owning mart, so children always talk to the parent's endpoint.
func NewDataset(info DatasetInfo, settings Settings) (*Dataset, error) {
	if info.Name == "" {
		return nil, errors.New("dataset name is required")
	}
	if info.VirtualSchema == "" {
		info.VirtualSchema = DefaultSchema
	}
	return &Dataset{
		name:          info.Name,
		displayName:   info.DisplayName,
		virtualSchema: info.VirtualSchema,
		transport:     NewTransport(settings),
	}, nil
}

// Name returns the dataset identifier used in queries.
func (d *Dataset) Name() string { return d.name }

// DisplayName returns the human-readable label of the dataset.
func (d *Dataset) DisplayName() string { return d.displayName }

// VirtualSchema returns the virtual schema the dataset lives in.
func (d *Dataset) VirtualSchema() string { return d.virtualSchema }

// Host returns the endpoint host the dataset was constructed with.
func (d *Dataset) Host() string { return d.transport.Host() }

// Path returns the service path on the host.
func (d *Dataset) Path() string { return d.transport.Path() }

// Port returns the endpoint port.
func (d *Dataset) Port() int { return d.transport.Port() }

// UseCache reports whether response caching is enabled.
func (d *Dataset) UseCache() bool { return d.transport.UseCache() }

// Attributes returns the attributes the dataset can produce, keyed by
// internal name. The first call fetches the dataset configuration.
func (d *Dataset) Attributes(ctx context.Context) (map[string]Attribute, error) {
	if err := d.fetchConfiguration(ctx); err != nil {
		return nil, err
	}
	return d.attributes, nil
}

// Filters returns the filters the dataset accepts, keyed by internal
// name. The first call fetches the dataset configuration.
func (d *Dataset) Filters(ctx context.Context) (map[string]Filter, error) {
	if err := d.fetchConfiguration(ctx); err != nil {
		return nil, err
	}
	return d.filters, nil
}

// DefaultAttributes returns the names of the attributes the dataset
// marks as defaults, in configuration order.
func (d *Dataset) DefaultAttributes(ctx context.Context) ([]string, error) {
	if err := d.fetchConfiguration(ctx); err != nil {
		return nil, err
	}
	return d.defaults, nil
}

func (d *Dataset) fetchConfiguration(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.attributes != nil {
		return nil
	}

	body, err := d.transport.Get(ctx, map[string]string{
		"type":    "configuration",
		"dataset": d.name,
	})
	if err != nil {
		return err
	}

	cfg, err := decodeConfiguration(body)
	if err != nil {
		return err
	}

	attributes := make(map[string]Attribute)
	var defaults []string
	for _, a := range cfg.attributeDescriptions() {
		attr := Attribute{
			Name:        a.InternalName,
			DisplayName: a.DisplayName,
			Description: a.Description,
			Default:     a.Default == "true",
		}
		if _, seen := attributes[attr.Name]; !seen && attr.Default {
			defaults = append(defaults, attr.Name)
		}
		attributes[attr.Name] = attr
	}

	filters := make(map[string]Filter)
	for _, f := range cfg.filterDescriptions() {
		filters[f.InternalName] = Filter{
			Name:        f.InternalName,
			Type:        f.Type,
			Description: f.Description,
		}
	}

	d.attributes = attributes
	d.filters = filters
	d.defaults = defaults
	return nil
}

// Query runs an attribute/filter query against the dataset and decodes
// the tabular reply. With no attributes given, the dataset's default
// attributes are used. Filter names are validated against the dataset
// configuration before anything is sent.
func (d *Dataset) Query(ctx context.Context, params QueryParams) (*Result, error) {
	attributes := params.Attributes
	if len(attributes) == 0 {
		defaults, err := d.DefaultAttributes(ctx)
		if err != nil {
			return nil, err
		}
		attributes = defaults
	}

	if len(params.Filters) > 0 {
		known, err := d.Filters(ctx)
		if err != nil {
			return nil, err
		}
		for name := range params.Filters {
			if _, ok := known[name]; !ok {
				return nil, &NotFoundError{Kind: "filter", Name: name}
			}
		}
	}

	doc, err := buildQueryXML(d.virtualSchema, d.name, attributes, params.Filters)
	if err != nil {
		return nil, err
	}

	body, err := d.transport.Get(ctx, map[string]string{"query": doc})
	if err != nil {
		return nil, err
	}
	return decodeResult(body)
}

func (d *Dataset) String() string {
	return fmt.Sprintf("<martkit.Dataset name=%q display_name=%q>", d.name, d.displayName)
}
