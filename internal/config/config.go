// SPDX-License-Identifier: EPL-2.0

// Package config loads the padkit YAML configuration.
package config

import (
	"log/slog"
	"runtime"

	"github.com/ik5/padkit/export"
	"github.com/ik5/padkit/models"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps l onto slog, defaulting to Info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LogFormat picks the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

func (f LogFormat) IsValid() bool {
	return f == LogText || f == LogJSON
}

type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Config is the whole file.
type Config struct {
	// OutputRoot holds one directory per export when export.output_base_path
	// is empty.
	OutputRoot string `yaml:"output_root"`

	// Workers bounds concurrent conversions.
	Workers int `yaml:"workers"`

	Export models.ExportConfig `yaml:"export"`
	Kit    export.KitLayout    `yaml:"kit"`

	// Catalog is a YAML sample manifest used to resolve sample IDs.
	Catalog string `yaml:"catalog"`

	// HistoryDB is a SQLite file export results are recorded in. Empty
	// disables history.
	HistoryDB string `yaml:"history_db"`

	Log LogConfig `yaml:"log"`
}

// Default is the configuration used for every key a file leaves out.
func Default() *Config {
	return &Config{
		OutputRoot: "exports",
		Workers:    runtime.NumCPU(),
		Export:     models.DefaultExportConfig(),
		Kit:        export.DefaultLayout(),
		Log:        LogConfig{Level: LogInfo, Format: LogText},
	}
}
