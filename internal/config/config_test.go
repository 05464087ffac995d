package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulandar/strand/internal/position"
	"github.com/zulandar/strand/internal/ring"
)

const fullYAML = `
database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  name: strand_shop
  user: studio

ring:
  canvas_size: 400
  spacing: 1.5
  target_radius: 0
  px_per_mm: 2.5
  max_radius_ratio: 0.42
  min_length_cm: 13
  max_length_cm: 22

history:
  capacity: 80
images:
  cache_capacity: 20
busy_policy: reject
enforce_length: true

dashboard:
  port: 9090
  autosave: "*/5 * * * *"

catalog:
  - name: rose-quartz-10
    diameter: 10
    image_url: https://cdn.example.com/rose-quartz-10.png
  - name: spacer
    diameter: 6
    width: 2
  - name: leaf-charm
    category: accessory
    diameter: 14
    floating: true
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "mysql")
	}
	if cfg.Database.Host != "10.0.0.5" || cfg.Database.Port != 3307 {
		t.Errorf("Database host:port = %s:%d, want 10.0.0.5:3307", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.User != "studio" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "studio")
	}

	rc := cfg.RingConfig()
	want := ring.Config{
		CanvasSize:     400,
		Spacing:        1.5,
		PxPerMM:        2.5,
		MaxRadiusRatio: 0.42,
		MinLengthCM:    13,
		MaxLengthCM:    22,
	}
	if rc != want {
		t.Errorf("RingConfig() = %+v, want %+v", rc, want)
	}

	if cfg.History.Capacity != 80 {
		t.Errorf("History.Capacity = %d, want 80", cfg.History.Capacity)
	}
	if cfg.Images.CacheCapacity != 20 {
		t.Errorf("Images.CacheCapacity = %d, want 20", cfg.Images.CacheCapacity)
	}
	if !cfg.EnforceLength {
		t.Error("EnforceLength = false, want true")
	}
	if cfg.Dashboard.Port != 9090 || cfg.Dashboard.Autosave != "*/5 * * * *" {
		t.Errorf("Dashboard = %+v", cfg.Dashboard)
	}

	if len(cfg.Catalog) != 3 {
		t.Fatalf("len(Catalog) = %d, want 3", len(cfg.Catalog))
	}
	if cfg.Catalog[0].Category != ring.CoreBead {
		t.Errorf("Catalog[0].Category = %q, want %q (default)", cfg.Catalog[0].Category, ring.CoreBead)
	}
	if cfg.Catalog[1].Width != 2 {
		t.Errorf("Catalog[1].Width = %v, want 2", cfg.Catalog[1].Width)
	}
	if !cfg.Catalog[2].Floating || cfg.Catalog[2].Category != ring.Accessory {
		t.Errorf("Catalog[2] = %+v, want floating accessory", cfg.Catalog[2])
	}
}

func TestParse_Empty_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "strand.db" {
		t.Errorf("Database = %+v, want sqlite at strand.db", cfg.Database)
	}
	if rc := cfg.RingConfig(); rc != ring.DefaultConfig() {
		t.Errorf("RingConfig() = %+v, want %+v", rc, ring.DefaultConfig())
	}
	if cfg.History.Capacity != 50 {
		t.Errorf("History.Capacity = %d, want 50 (default)", cfg.History.Capacity)
	}
	if cfg.Images.CacheCapacity != position.DefaultCacheCapacity {
		t.Errorf("Images.CacheCapacity = %d, want %d (default)", cfg.Images.CacheCapacity, position.DefaultCacheCapacity)
	}
	if cfg.BusyPolicy != "reject" {
		t.Errorf("BusyPolicy = %q, want reject (default)", cfg.BusyPolicy)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("Dashboard.Port = %d, want 8080 (default)", cfg.Dashboard.Port)
	}
}

func TestParse_MySQLDefaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: mysql\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db := cfg.Database
	if db.Host != "127.0.0.1" || db.Port != 3306 || db.User != "root" || db.Name != "strand" {
		t.Errorf("Database = %+v, want mysql defaults", db)
	}
	if db.Path != "" {
		t.Errorf("Database.Path = %q, want empty for mysql", db.Path)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown driver", "database:\n  driver: postgres\n", "must be sqlite or mysql"},
		{"inverted bounds", "ring:\n  min_length_cm: 25\n  max_length_cm: 20\n", "exceeds ring.max_length_cm"},
		{"radius ratio", "ring:\n  max_radius_ratio: 0.9\n", "max_radius_ratio"},
		{"busy policy", "busy_policy: drop\n", "busy_policy"},
		{"catalog name", "catalog:\n  - diameter: 8\n", "catalog[0].name is required"},
		{"catalog duplicate", "catalog:\n  - {name: a, diameter: 8}\n  - {name: a, diameter: 9}\n", "duplicated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_StudioFixture(t *testing.T) {
	cfg, err := Load("testdata/studio.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "designs.db" {
		t.Errorf("Database.Path = %q, want designs.db", cfg.Database.Path)
	}
	opts := cfg.ManagerOpts()
	if opts.Busy != position.BusyQueue {
		t.Errorf("ManagerOpts().Busy = %v, want queue", opts.Busy)
	}
	if opts.Ring.PxPerMM != 3 || opts.Ring.MaxLengthCM != 21 {
		t.Errorf("ManagerOpts().Ring = %+v", opts.Ring)
	}

	pendant, ok := cfg.Lookup("moon-pendant")
	if !ok {
		t.Fatal("Lookup(moon-pendant) not found")
	}
	if pendant.HolePosition != 0.1 || pendant.Category != ring.Accessory {
		t.Errorf("moon-pendant = %+v", pendant)
	}
}

func TestLoad_InvalidYAMLFixture(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_BadCatalogFixture(t *testing.T) {
	_, err := Load("testdata/bad_catalog.yaml")
	if err == nil {
		t.Fatal("expected error for zero-diameter bead")
	}
	if !strings.Contains(err.Error(), "diameter must be > 0") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "diameter must be > 0")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}

func TestLoad_WrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strand.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Name != "strand_shop" {
		t.Errorf("Database.Name = %q, want strand_shop", cfg.Database.Name)
	}
}

func TestResolve(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	beads, err := cfg.Resolve([]string{"spacer", " rose-quartz-10 ", ""})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(beads) != 2 || beads[0].Name != "spacer" || beads[1].Name != "rose-quartz-10" {
		t.Errorf("Resolve() = %+v", beads)
	}

	if _, err := cfg.Resolve([]string{"obsidian"}); err == nil || !strings.Contains(err.Error(), "unknown catalog bead") {
		t.Errorf("Resolve(obsidian) err = %v", err)
	}
}
