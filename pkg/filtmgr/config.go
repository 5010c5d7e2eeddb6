package filtmgr

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bloomd/filtmgr/pkg/bfilter"
)

// Config is the manager's global configuration: the data directory the
// Loader scans and every wrapper's filter directories live under, the
// default per-filter parameters, and the vacuum worker's cadence and
// backlog warning threshold. Carries yaml tags in the style of the
// richest config type in the retrieved corpus (oriys-nova's
// internal/config) and, unlike that JSON-based loader, decodes directly
// with gopkg.in/yaml.v3 via LoadYAML.
type Config struct {
	DataDir             string         `yaml:"data_dir"`
	DefaultFilterConfig bfilter.Config `yaml:"default_filter"`
	VacuumInterval      time.Duration  `yaml:"vacuum_interval"`
	WarnThreshold       uint64         `yaml:"warn_threshold"`
}

// DefaultConfig mirrors spec.md §4.6's 1-second vacuum cadence and §9's
// WARN_THRESHOLD of 32 outstanding versions.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:             dataDir,
		DefaultFilterConfig: bfilter.DefaultConfig(),
		VacuumInterval:      time.Second,
		WarnThreshold:       32,
	}
}

// LoadYAML reads a YAML fragment from path and decodes it over
// DefaultConfig(dataDir), so a config file only needs to override the
// fields it cares about. Mirrors oriys-nova's LoadFromFile shape, swapped
// for this module's yaml.v3 tags in place of that package's JSON ones.
func LoadYAML(path string, dataDir string) (Config, error) {
	cfg := DefaultConfig(dataDir)

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
