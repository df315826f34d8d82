// Package config loads the engine's optional startup configuration from a
// TOML file, decoded through struct tags.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Storage holds the `[storage]` table: tuple arena tunables.
type Storage struct {
	TupleGroupSize int `toml:"tuple_group_size"`
}

// Validation holds the `[validation]` table: identifier length limits.
type Validation struct {
	MaxTableNameLength  int `toml:"max_table_name_length"`
	MaxColumnNameLength int `toml:"max_column_name_length"`
}

// Engine holds the tunables a session may override at startup. Zero values
// mean "use the built-in default."
type Engine struct {
	LogLevel   string     `toml:"log_level"`
	Storage    Storage    `toml:"storage"`
	Validation Validation `toml:"validation"`
}

// Defaults returns the configuration a session starts with absent a file.
func Defaults() Engine {
	return Engine{
		LogLevel: "info",
		Storage: Storage{
			TupleGroupSize: 100,
		},
		Validation: Validation{
			MaxTableNameLength:  64,
			MaxColumnNameLength: 64,
		},
	}
}

// Load reads and merges a TOML config file over Defaults. A missing path
// is not an error; it simply yields the defaults.
func Load(path string) (Engine, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f, cfg)
}

// Parse decodes TOML from r, overlaying non-zero fields onto base.
func Parse(r io.Reader, base Engine) (Engine, error) {
	var overlay Engine
	if _, err := toml.NewDecoder(r).Decode(&overlay); err != nil {
		return base, fmt.Errorf("config: decode: %w", err)
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.Storage.TupleGroupSize > 0 {
		base.Storage.TupleGroupSize = overlay.Storage.TupleGroupSize
	}
	if overlay.Validation.MaxTableNameLength > 0 {
		base.Validation.MaxTableNameLength = overlay.Validation.MaxTableNameLength
	}
	if overlay.Validation.MaxColumnNameLength > 0 {
		base.Validation.MaxColumnNameLength = overlay.Validation.MaxColumnNameLength
	}
	return base, nil
}
