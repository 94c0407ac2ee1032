package maitred

import (
	"context"
	"fmt"

	"github.com/maitred/maitred/policy"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config represents simulation configuration.
type Config struct {
	// Groups is the number of customer groups.
	Groups int `yaml:"groups" json:"groups"`
	// Tables is the number of tables on the floor.
	Tables int `yaml:"tables" json:"tables"`
	// Seed drives the random arrival and dining delays.
	Seed int64 `yaml:"seed" json:"seed"`

	Policies PolicyConfig `yaml:"policies" json:"policies"`
	Trace    TraceConfig  `yaml:"trace" json:"trace"`
	Party    PartyConfig  `yaml:"party" json:"party"`
}

// PolicyConfig names the seating and wait-resolution policies. Empty names
// select the defaults.
type PolicyConfig struct {
	Waiting string `yaml:"waiting" json:"waiting"`
	Seating string `yaml:"seating" json:"seating"`
}

// TraceConfig controls where the phase snapshot trace is written. An empty
// URL keeps the trace in memory.
type TraceConfig struct {
	URL string `yaml:"url" json:"url"`
}

// PartyConfig bounds the simulated customer delays, in milliseconds.
type PartyConfig struct {
	MaxArrivalDelayMs int `yaml:"maxArrivalDelayMs" json:"maxArrivalDelayMs"`
	MaxDiningTimeMs   int `yaml:"maxDiningTimeMs" json:"maxDiningTimeMs"`
}

// DefaultConfig returns the reference configuration: three groups competing
// for two tables.
func DefaultConfig() *Config {
	config := &Config{}
	config.Init()
	return config
}

// Init fills in defaults for zero-valued fields.
func (c *Config) Init() {
	if c.Groups == 0 {
		c.Groups = 3
	}
	if c.Tables == 0 {
		c.Tables = 2
	}
	if c.Party.MaxArrivalDelayMs == 0 {
		c.Party.MaxArrivalDelayMs = 50
	}
	if c.Party.MaxDiningTimeMs == 0 {
		c.Party.MaxDiningTimeMs = 50
	}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.Groups <= 0 {
		return fmt.Errorf("groups must be > 0, had: %d", c.Groups)
	}
	if c.Tables <= 0 {
		return fmt.Errorf("tables must be > 0, had: %d", c.Tables)
	}
	if _, err := policy.WaitSelectionFor(c.Policies.Waiting); err != nil {
		return err
	}
	if _, err := policy.TableSelectionFor(c.Policies.Seating); err != nil {
		return err
	}
	return nil
}

// Requests returns how many requests the receptionist serves in a full run:
// one table request and one bill request per group.
func (c *Config) Requests() int {
	return 2 * c.Groups
}

// LoadConfig loads a YAML configuration from any afs-supported URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}
