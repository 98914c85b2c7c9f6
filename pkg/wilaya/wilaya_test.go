package wilaya

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticLookup(t *testing.T) {
	r := NewStatic()
	ctx := context.Background()

	w, err := r.Lookup(ctx, "01")
	if err != nil {
		t.Fatalf("Lookup(01): %v", err)
	}
	if w.Name != "Algiers" {
		t.Errorf("Name = %q, want Algiers", w.Name)
	}
	if !w.HasCoordinates() {
		t.Error("Algiers should carry coordinates")
	}
	if w.Population == 0 {
		t.Error("Algiers should carry a population figure")
	}

	if _, err := r.Lookup(ctx, "99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(99) err = %v, want ErrNotFound", err)
	}
}

func TestUrbanClassification(t *testing.T) {
	tests := []struct {
		name   string
		region string
		want   bool
	}{
		{"north is urban", "North", true},
		{"central is urban", "Central", true},
		{"unclassified defaults urban", "", true},
		{"south is rural", "South", false},
		{"east is rural", "East", false},
		{"west is rural", "West", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wilaya{Region: tt.region}
			if got := w.Urban(); got != tt.want {
				t.Errorf("Urban() = %v for region %q, want %v", got, tt.region, tt.want)
			}
		})
	}
}

func TestStaticCodes(t *testing.T) {
	codes := NewStatic().Codes()
	if len(codes) != 16 {
		t.Fatalf("got %d codes, want 16", len(codes))
	}
	if codes[0] != "01" || codes[15] != "16" {
		t.Errorf("codes not sorted: first=%s last=%s", codes[0], codes[15])
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wilayas.yaml")
	content := `- code: "31"
  name: Oran Centre
  latitude: 35.6969
  longitude: -0.6331
  population: 1454078
  region: North
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	w, err := r.Lookup(context.Background(), "31")
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "Oran Centre" || !w.Urban() {
		t.Errorf("unexpected record: %+v", w)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAML(path); err == nil {
		t.Error("expected error for empty table")
	}
}
