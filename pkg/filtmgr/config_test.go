package filtmgr

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAML_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filtmgr.yaml")
	body := `
vacuum_interval: 5s
warn_threshold: 64
default_filter:
  expected_items: 50000
  false_positive_rate: 0.001
  in_memory: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadYAML(path, dir)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if cfg.DataDir != dir {
		t.Errorf("expected DataDir to keep the passed default %q, got %q", dir, cfg.DataDir)
	}
	if cfg.VacuumInterval != 5*time.Second {
		t.Errorf("expected vacuum_interval override, got %v", cfg.VacuumInterval)
	}
	if cfg.WarnThreshold != 64 {
		t.Errorf("expected warn_threshold override, got %d", cfg.WarnThreshold)
	}
	if cfg.DefaultFilterConfig.ExpectedItems != 50000 {
		t.Errorf("expected expected_items override, got %d", cfg.DefaultFilterConfig.ExpectedItems)
	}
	if cfg.DefaultFilterConfig.FalsePositiveRate != 0.001 {
		t.Errorf("expected false_positive_rate override, got %v", cfg.DefaultFilterConfig.FalsePositiveRate)
	}
	if !cfg.DefaultFilterConfig.InMemory {
		t.Error("expected in_memory override to be true")
	}
}

func TestLoadYAML_MissingFile(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir()); err == nil {
		t.Fatal("expected an error reading a missing config file")
	}
}
