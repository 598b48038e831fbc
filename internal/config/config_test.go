package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bcdxn/nexttogo/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if diff := cmp.Diff(Default(), cfg); diff != "" {
			t.Errorf("unexpected config (-want +got):\n%s", diff)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.RaceCount != Default().RaceCount {
			t.Errorf("expected race count %d but found %d", Default().RaceCount, cfg.RaceCount)
		}
	})

	t.Run("File overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
race_count: 20
refresh_interval: 45s
locale: pt-BR
categories:
  - greyhound
  - harness
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		want := Default()
		want.RaceCount = 20
		want.RefreshInterval = 45 * time.Second
		want.Locale = "pt-BR"
		want.Categories = []string{"greyhound", "harness"}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("unexpected config (-want +got):\n%s", diff)
		}
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "race_count: 20\nlocale: pt-BR\n")
		t.Setenv("NEXTTOGO_RACE_COUNT", "7")
		t.Setenv("NEXTTOGO_CATEGORIES", "horse")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if cfg.RaceCount != 7 {
			t.Errorf("expected race count %d but found %d", 7, cfg.RaceCount)
		}
		if cfg.Locale != "pt-BR" {
			t.Errorf("expected locale '%s' but found '%s'", "pt-BR", cfg.Locale)
		}
		if diff := cmp.Diff([]string{"horse"}, cfg.Categories); diff != "" {
			t.Errorf("unexpected categories (-want +got):\n%s", diff)
		}
	})

	t.Run("Invalid category", func(t *testing.T) {
		path := writeConfig(t, "categories: [motorsport]\n")
		if _, err := Load(path); err == nil {
			t.Errorf("expected an error but found none")
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := writeConfig(t, "race_count: [\n")
		if _, err := Load(path); err == nil {
			t.Errorf("expected an error but found none")
		}
	})

	t.Run("Malformed environment", func(t *testing.T) {
		t.Setenv("NEXTTOGO_REFRESH_INTERVAL", "soon")
		if _, err := Load(""); err == nil {
			t.Errorf("expected an error but found none")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"no base url":      func(c *Config) { c.APIBaseURL = "" },
		"negative count":   func(c *Config) { c.RaceCount = -1 },
		"zero rows":        func(c *Config) { c.VisibleRows = 0 },
		"fast refresh":     func(c *Config) { c.RefreshInterval = time.Millisecond },
		"unknown category": func(c *Config) { c.Categories = []string{"Horse"} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected an error but found none")
			}
		})
	}
}

func TestFilter(t *testing.T) {
	c := Default()
	if len(c.Filter()) != 0 {
		t.Errorf("expected an empty filter but found %v", c.Filter().Selected())
	}
	c.Categories = []string{"harness", "horse"}
	want := []domain.RaceCategory{domain.RaceCategoryHorse, domain.RaceCategoryHarness}
	if diff := cmp.Diff(want, c.Filter().Selected()); diff != "" {
		t.Errorf("unexpected selection (-want +got):\n%s", diff)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
