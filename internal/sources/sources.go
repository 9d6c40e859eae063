// Package sources loads the feed registry consumed by the pipeline.
package sources

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultPriority is assigned when a source omits the field.
const DefaultPriority = 2

// Descriptor describes one RSS source. Loaded once per run, read-only after.
type Descriptor struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	RSS      string   `yaml:"rss"`
	Category []string `yaml:"category"`
	Country  string   `yaml:"country"`
	Language string   `yaml:"language"`
	Priority int      `yaml:"priority"`
	Enabled  *bool    `yaml:"enabled"` // nil means enabled
}

type registryFile struct {
	Sources []Descriptor `yaml:"sources"`
}

// Load reads the YAML registry. Disabled entries are dropped and the
// result is ordered by priority ascending, ties keeping file order, so
// callers can iterate it directly as the dedup survivor order.
func Load(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cfg registryFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode sources config: %w", err)
	}

	out := make([]Descriptor, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		if s.Enabled != nil && !*s.Enabled {
			continue
		}
		if s.RSS == "" {
			return nil, fmt.Errorf("source %q has no rss url", s.ID)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("source with url %q has no id", s.RSS)
		}
		if s.Priority == 0 {
			s.Priority = DefaultPriority
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})

	return out, nil
}
