package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/martkit/martkit/internal/biomart"
)

var sampleResult = &biomart.Result{
	Columns: []string{"Gene stable ID", "Gene description", "Chromosome/scaffold name"},
	Rows: [][]string{
		{"ENSG01", "first gene", "1"},
		{"ENSG02", "second gene", "X"},
	},
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Gene stable ID", "gene_stable_id"},
		{"Chromosome/scaffold name", "chromosome_scaffold_name"},
		{"already_clean", "already_clean"},
		{"5' UTR start", "c_5__utr_start"},
		{"***", "column"},
	}
	for _, tt := range tests {
		if got := columnName(tt.label); got != tt.want {
			t.Errorf("columnName(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestColumnNamesDeduplicates(t *testing.T) {
	res := &biomart.Result{Columns: []string{"Name", "name", "NAME"}}
	got := columnNames(res)
	seen := make(map[string]bool)
	for _, n := range got {
		if seen[n] {
			t.Fatalf("duplicate column name %q in %v", n, got)
		}
		seen[n] = true
	}
}

func TestFileSinkTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "genes.tsv")
	s := NewFileSink(path)

	ctx := context.Background()
	if err := s.Write(ctx, "genes", sampleResult); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Gene stable ID\tGene description\tChromosome/scaffold name" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "ENSG02\t") {
		t.Errorf("last row = %q", lines[2])
	}
}

func TestFileSinkCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.csv")
	if err := NewFileSink(path).Write(context.Background(), "genes", sampleResult); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "Gene stable ID,Gene description,") {
		t.Errorf("output does not look comma-separated: %q", string(data)[:40])
	}
}

func TestNewSelectsFileSinkForPlainPaths(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "out.tsv"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*FileSink); !ok {
		t.Errorf("got %T, want *FileSink", s)
	}
}

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017/genes", "genes"},
		{"mongodb://localhost:27017/genes?authSource=admin", "genes"},
		{"mongodb://localhost:27017", "martkit"},
		{"mongodb://localhost:27017/", "martkit"},
	}
	for _, tt := range tests {
		if got := databaseFromURI(tt.uri); got != tt.want {
			t.Errorf("databaseFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
