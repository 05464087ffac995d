// Package config provides YAML-based configuration loading for Strand.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/zulandar/strand/internal/position"
	"github.com/zulandar/strand/internal/ring"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Strand configuration, loaded from strand.yaml.
type Config struct {
	Database      DatabaseConfig  `yaml:"database"`
	Ring          RingConfig      `yaml:"ring"`
	History       HistoryConfig   `yaml:"history"`
	Images        ImagesConfig    `yaml:"images"`
	BusyPolicy    string          `yaml:"busy_policy"`
	EnforceLength bool            `yaml:"enforce_length"`
	Dashboard     DashboardConfig `yaml:"dashboard"`
	Catalog       []ring.Bead     `yaml:"catalog"`
}

// DatabaseConfig selects where designs are stored.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`   // sqlite file
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
}

// RingConfig mirrors ring.Config in YAML form.
type RingConfig struct {
	CanvasSize     float64 `yaml:"canvas_size"`
	Spacing        float64 `yaml:"spacing"`
	TargetRadius   float64 `yaml:"target_radius"`
	PxPerMM        float64 `yaml:"px_per_mm"`
	MaxRadiusRatio float64 `yaml:"max_radius_ratio"`
	MinLengthCM    float64 `yaml:"min_length_cm"`
	MaxLengthCM    float64 `yaml:"max_length_cm"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// ImagesConfig bounds the image resolution cache.
type ImagesConfig struct {
	CacheCapacity int `yaml:"cache_capacity"`
}

// DashboardConfig holds settings for `strand serve`.
type DashboardConfig struct {
	Port     int    `yaml:"port"`
	Autosave string `yaml:"autosave"` // cron expression, empty disables
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	def := ring.DefaultConfig()

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "strand.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
		if c.Database.Name == "" {
			c.Database.Name = "strand"
		}
	}

	if c.Ring.CanvasSize == 0 {
		c.Ring.CanvasSize = def.CanvasSize
	}
	if c.Ring.PxPerMM == 0 {
		c.Ring.PxPerMM = def.PxPerMM
	}
	if c.Ring.MaxRadiusRatio == 0 {
		c.Ring.MaxRadiusRatio = def.MaxRadiusRatio
	}
	if c.Ring.MinLengthCM == 0 {
		c.Ring.MinLengthCM = def.MinLengthCM
	}
	if c.Ring.MaxLengthCM == 0 {
		c.Ring.MaxLengthCM = def.MaxLengthCM
	}

	if c.History.Capacity == 0 {
		c.History.Capacity = 50
	}
	if c.Images.CacheCapacity == 0 {
		c.Images.CacheCapacity = position.DefaultCacheCapacity
	}
	if c.BusyPolicy == "" {
		c.BusyPolicy = "reject"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	for i := range c.Catalog {
		if c.Catalog[i].Category == "" {
			c.Catalog[i].Category = ring.CoreBead
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or mysql", c.Database.Driver))
	}
	if c.Ring.CanvasSize < 0 {
		errs = append(errs, "ring.canvas_size must be > 0")
	}
	if c.Ring.PxPerMM < 0 {
		errs = append(errs, "ring.px_per_mm must be > 0")
	}
	if c.Ring.MaxRadiusRatio < 0 || c.Ring.MaxRadiusRatio > 0.5 {
		errs = append(errs, "ring.max_radius_ratio must be within (0, 0.5]")
	}
	if c.Ring.MinLengthCM > c.Ring.MaxLengthCM {
		errs = append(errs, fmt.Sprintf("ring.min_length_cm (%v) exceeds ring.max_length_cm (%v)", c.Ring.MinLengthCM, c.Ring.MaxLengthCM))
	}
	if c.History.Capacity < 0 {
		errs = append(errs, "history.capacity must be >= 0")
	}
	if _, err := position.ParseBusyPolicy(c.BusyPolicy); err != nil {
		errs = append(errs, fmt.Sprintf("busy_policy %q must be reject or queue", c.BusyPolicy))
	}
	seen := make(map[string]bool)
	for i, b := range c.Catalog {
		if b.Name == "" {
			errs = append(errs, fmt.Sprintf("catalog[%d].name is required", i))
		} else if seen[b.Name] {
			errs = append(errs, fmt.Sprintf("catalog[%d].name %q is duplicated", i, b.Name))
		}
		seen[b.Name] = true
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("catalog[%d]: %v", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RingConfig returns the ring geometry configuration.
func (c *Config) RingConfig() ring.Config {
	return ring.Config{
		CanvasSize:     c.Ring.CanvasSize,
		Spacing:        c.Ring.Spacing,
		TargetRadius:   c.Ring.TargetRadius,
		PxPerMM:        c.Ring.PxPerMM,
		MaxRadiusRatio: c.Ring.MaxRadiusRatio,
		MinLengthCM:    c.Ring.MinLengthCM,
		MaxLengthCM:    c.Ring.MaxLengthCM,
	}
}

// ManagerOpts builds position manager options from the config.
func (c *Config) ManagerOpts() position.Opts {
	policy, _ := position.ParseBusyPolicy(c.BusyPolicy)
	return position.Opts{
		Ring:            c.RingConfig(),
		HistoryCapacity: c.History.Capacity,
		CacheCapacity:   c.Images.CacheCapacity,
		Busy:            policy,
		EnforceLength:   c.EnforceLength,
	}
}

// Lookup returns the catalog bead with the given name.
func (c *Config) Lookup(name string) (ring.Bead, bool) {
	for _, b := range c.Catalog {
		if b.Name == name {
			return b, true
		}
	}
	return ring.Bead{}, false
}

// Resolve maps catalog names to beads, failing on the first unknown name.
func (c *Config) Resolve(names []string) ([]ring.Bead, error) {
	beads := make([]ring.Bead, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		b, ok := c.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("config: unknown catalog bead %q", n)
		}
		beads = append(beads, b)
	}
	return beads, nil
}
