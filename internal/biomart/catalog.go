package biomart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog is a YAML-serializable snapshot of a discovered
// server → marts → datasets tree.
type Catalog struct {
	Host  string        `yaml:"host"`
	Path  string        `yaml:"path"`
	Port  int           `yaml:"port"`
	Marts []CatalogMart `yaml:"marts"`
}

// CatalogMart records one discovered mart.
type CatalogMart struct {
	Name          string           `yaml:"name"`
	DatabaseName  string           `yaml:"database_name"`
	DisplayName   string           `yaml:"display_name"`
	VirtualSchema string           `yaml:"virtual_schema,omitempty"`
	Datasets      []CatalogDataset `yaml:"datasets,omitempty"`
}

// CatalogDataset records one discovered dataset.
type CatalogDataset struct {
	Name          string `yaml:"name"`
	DisplayName   string `yaml:"display_name"`
	VirtualSchema string `yaml:"virtual_schema,omitempty"`
}

// BuildCatalog walks the full hierarchy under srv, fetching every
// mart's dataset list. Marts and datasets are sorted by name so two
// runs against the same server produce identical files.
func BuildCatalog(ctx context.Context, srv *Server) (*Catalog, error) {
	settings := srv.transport.Settings()
	cat := &Catalog{
		Host: settings.Host,
		Path: settings.Path,
		Port: settings.Port,
	}

	marts, err := srv.Marts(ctx)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(marts) {
		m := marts[name]
		cm := CatalogMart{
			Name:          m.Name(),
			DatabaseName:  m.DatabaseName(),
			DisplayName:   m.DisplayName(),
			VirtualSchema: m.VirtualSchema(),
		}

		datasets, err := m.Datasets(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing datasets of %s: %w", m.Name(), err)
		}
		for _, dsName := range sortedKeys(datasets) {
			d := datasets[dsName]
			cm.Datasets = append(cm.Datasets, CatalogDataset{
				Name:          d.Name(),
				DisplayName:   d.DisplayName(),
				VirtualSchema: d.VirtualSchema(),
			})
		}

		cat.Marts = append(cat.Marts, cm)
	}
	return cat, nil
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return cat, nil
}

// WriteYAML writes the catalog to a YAML file at the given path.
func (c *Catalog) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Summary returns a human-readable summary of the catalog.
func (c *Catalog) Summary() string {
	var datasets int
	for _, m := range c.Marts {
		datasets += len(m.Datasets)
	}
	return fmt.Sprintf("Found %d marts, %d datasets on %s", len(c.Marts), datasets, c.Host)
}
