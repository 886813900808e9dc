// Package config loads editor configuration from TOML files.
//
// A missing config file is not an error; defaults apply. The watcher
// re-loads the file on change so limits like the history size and the
// edit debounce can be tuned without restarting.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkpad/internal/editor/search"
)

// Config is the full editor configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Search  SearchConfig  `toml:"search"`
	View    ViewConfig    `toml:"view"`
}

// HistoryConfig controls the undo/redo stack.
type HistoryConfig struct {
	// MaxEntries caps the number of undo snapshots.
	MaxEntries int `toml:"max_entries"`
	// DebounceMillis is the quiet period after an edit before a history
	// snapshot is committed.
	DebounceMillis int `toml:"debounce_ms"`
}

// Debounce returns the edit debounce as a duration.
func (h HistoryConfig) Debounce() time.Duration {
	return time.Duration(h.DebounceMillis) * time.Millisecond
}

// SearchConfig holds the default search mode toggles.
type SearchConfig struct {
	CaseSensitive bool `toml:"case_sensitive"`
	WholeWord     bool `toml:"whole_word"`
	Regex         bool `toml:"regex"`
}

// Options converts the config into search options.
func (s SearchConfig) Options() search.Options {
	return search.Options{
		CaseSensitive: s.CaseSensitive,
		WholeWord:     s.WholeWord,
		Regex:         s.Regex,
	}
}

// ViewConfig holds the measured view metrics used for scroll math.
type ViewConfig struct {
	// LineHeight is the measured height of one raw-view line, in pixels.
	LineHeight float64 `toml:"line_height"`
	// ScrollPadding is the context kept above a match when scrolling it
	// into view.
	ScrollPadding float64 `toml:"scroll_padding"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries:     100,
			DebounceMillis: 500,
		},
		Search: SearchConfig{},
		View: ViewConfig{
			LineHeight:    20,
			ScrollPadding: 60,
		},
	}
}

// Load reads configuration from a TOML file, applying defaults for
// anything unset. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values back to defaults.
func (c *Config) normalize() {
	def := Default()
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = def.History.MaxEntries
	}
	if c.History.DebounceMillis <= 0 {
		c.History.DebounceMillis = def.History.DebounceMillis
	}
	if c.View.LineHeight <= 0 {
		c.View.LineHeight = def.View.LineHeight
	}
	if c.View.ScrollPadding < 0 {
		c.View.ScrollPadding = def.View.ScrollPadding
	}
}
