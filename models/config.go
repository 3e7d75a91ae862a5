// SPDX-License-Identifier: EPL-2.0

package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOrganizeBy = errors.New("invalid organize_by")
	ErrInvalidFormat     = errors.New("invalid export format")
)

// OrganizeBy selects the directory layout of an export.
type OrganizeBy string

const (
	OrganizeFlat  OrganizeBy = "flat"
	OrganizeGenre OrganizeBy = "genre"
	OrganizeBPM   OrganizeBy = "bpm"
	OrganizeKit   OrganizeBy = "kit"
)

func (o OrganizeBy) IsValid() bool {
	switch o {
	case OrganizeFlat, OrganizeGenre, OrganizeBPM, OrganizeKit:
		return true
	}
	return false
}

// ParseOrganizeBy is case-insensitive; unknown names are an error.
func ParseOrganizeBy(s string) (OrganizeBy, error) {
	o := OrganizeBy(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrganizeBy, s)
	}
	return o, nil
}

// Format is an output container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatAIFF Format = "aiff"
)

func (f Format) IsValid() bool {
	return f == FormatWAV || f == FormatAIFF
}

// Ext returns the file extension with its leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// ExportConfig holds the caller's choices for one export call. Build it
// with NewExportConfig so enum values are checked up front.
type ExportConfig struct {
	OrganizeBy        OrganizeBy `json:"organize_by" yaml:"organize_by"`
	Format            Format     `json:"format" yaml:"format"`
	IncludeMetadata   bool       `json:"include_metadata" yaml:"include_metadata"`
	SanitizeFilenames bool       `json:"sanitize_filenames" yaml:"sanitize_filenames"`
	// OutputBasePath is the export root. When empty the exporter picks a
	// directory named after the export ID under its output root.
	OutputBasePath string `json:"output_base_path,omitempty" yaml:"output_base_path,omitempty"`
}

// NewExportConfig parses the enum fields and returns a validated config.
func NewExportConfig(organizeBy, format string, includeMetadata, sanitizeFilenames bool, outputBasePath string) (ExportConfig, error) {
	o, err := ParseOrganizeBy(organizeBy)
	if err != nil {
		return ExportConfig{}, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return ExportConfig{}, err
	}

	return ExportConfig{
		OrganizeBy:        o,
		Format:            f,
		IncludeMetadata:   includeMetadata,
		SanitizeFilenames: sanitizeFilenames,
		OutputBasePath:    outputBasePath,
	}, nil
}

// DefaultExportConfig is flat WAV with sanitized display names.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		OrganizeBy:        OrganizeFlat,
		Format:            FormatWAV,
		SanitizeFilenames: true,
	}
}

// Validate reports every invalid field of a config built by hand.
func (c ExportConfig) Validate() error {
	var errs []error
	if !c.OrganizeBy.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOrganizeBy, c.OrganizeBy))
	}
	if !c.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format))
	}
	return errors.Join(errs...)
}
