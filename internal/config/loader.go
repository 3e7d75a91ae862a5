// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/padkit/models"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes r over Default and validates the result. An empty
// document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns a joined error listing every problem in cfg.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", cfg.Workers))
	}
	if cfg.OutputRoot == "" && cfg.Export.OutputBasePath == "" {
		errs = append(errs, errors.New("one of output_root or export.output_base_path is required"))
	}

	if err := cfg.Export.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("export: %w", err))
	}
	if cfg.Export.OrganizeBy == models.OrganizeKit {
		errs = append(errs, errors.New("export.organize_by kit is not a default; kits are exported with the kit command"))
	}

	if err := cfg.Kit.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kit: %w", err))
	}

	if !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}
	if !cfg.Log.Format.IsValid() {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", cfg.Log.Format))
	}

	return errors.Join(errs...)
}
