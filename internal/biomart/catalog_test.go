package biomart

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildCatalog(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "registry":
			fmt.Fprint(w, `<MartRegistry>
  <MartURLLocation database="gene_db" displayName="Genes" name="gene_mart" serverVirtualSchema="default" visible="1" />
  <MartURLLocation database="snp_db" displayName="Variants" name="snp_mart" serverVirtualSchema="default" visible="1" />
</MartRegistry>`)
		case "datasets":
			mart := r.URL.Query().Get("mart")
			fmt.Fprintf(w, "TableSet\t%s_ds_b\tB\t\t\t\t\tdefault\t\n", mart)
			fmt.Fprintf(w, "TableSet\t%s_ds_a\tA\t\t\t\t\tdefault\t\n", mart)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	srv := NewServer(Settings{Host: ts.URL, DisableCache: true})
	cat, err := BuildCatalog(context.Background(), srv)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}

	if len(cat.Marts) != 2 {
		t.Fatalf("got %d marts, want 2", len(cat.Marts))
	}
	// Sorted by name.
	if cat.Marts[0].Name != "gene_mart" || cat.Marts[1].Name != "snp_mart" {
		t.Errorf("mart order = %s, %s", cat.Marts[0].Name, cat.Marts[1].Name)
	}
	gene := cat.Marts[0]
	if gene.DatabaseName != "gene_db" || gene.DisplayName != "Genes" {
		t.Errorf("gene mart = %+v", gene)
	}
	if len(gene.Datasets) != 2 {
		t.Fatalf("got %d datasets, want 2", len(gene.Datasets))
	}
	if gene.Datasets[0].Name != "gene_mart_ds_a" {
		t.Errorf("dataset order starts with %s, want gene_mart_ds_a", gene.Datasets[0].Name)
	}

	summary := cat.Summary()
	if !strings.Contains(summary, "2 marts") || !strings.Contains(summary, "4 datasets") {
		t.Errorf("summary = %q", summary)
	}
}

func TestCatalogWriteAndLoadYAML(t *testing.T) {
	cat := &Catalog{
		Host: "http://www.ensembl.org",
		Path: DefaultPath,
		Port: 80,
		Marts: []CatalogMart{
			{
				Name:          "gene_mart",
				DatabaseName:  "gene_db",
				DisplayName:   "Genes",
				VirtualSchema: "default",
				Datasets: []CatalogDataset{
					{Name: "hsapiens_gene_ensembl", DisplayName: "Human genes", VirtualSchema: "default"},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "catalog.yaml")
	if err := cat.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if loaded.Host != cat.Host {
		t.Errorf("host = %q, want %q", loaded.Host, cat.Host)
	}
	if len(loaded.Marts) != 1 || len(loaded.Marts[0].Datasets) != 1 {
		t.Fatalf("loaded shape mismatch: %+v", loaded)
	}
	if loaded.Marts[0].Datasets[0].Name != "hsapiens_gene_ensembl" {
		t.Errorf("dataset = %+v", loaded.Marts[0].Datasets[0])
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
