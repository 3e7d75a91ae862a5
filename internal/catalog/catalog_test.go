// SPDX-License-Identifier: EPL-2.0

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/padkit/export"
)

// Catalog is the provider behind export.Exporter.ExportIDs.
var _ export.Provider = (*Catalog)(nil)

const manifestYAML = `
samples:
  - id: kick
    source_file_path: drums/kick.wav
    title: Deep Kick
    genre: House
    bpm: 124
  - id: pad
    source_file_path: /abs/pad.flac
    title: Warm Pad
    duration_seconds: 4.5
`

func TestDecode(t *testing.T) {
	t.Parallel()

	c, err := Decode(strings.NewReader(manifestYAML), "/lib")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	kick, err := c.Sample(context.Background(), "kick")
	if err != nil {
		t.Fatal(err)
	}
	if kick.SourcePath != filepath.Join("/lib", "drums", "kick.wav") {
		t.Errorf("relative path resolved to %q", kick.SourcePath)
	}
	if kick.Genre == nil || *kick.Genre != "House" || kick.BPM == nil || *kick.BPM != 124 {
		t.Errorf("kick = %+v", kick)
	}

	pad, err := c.Sample(context.Background(), "pad")
	if err != nil {
		t.Fatal(err)
	}
	if pad.SourcePath != "/abs/pad.flac" || pad.Genre != nil || pad.DurationSeconds != 4.5 {
		t.Errorf("pad = %+v", pad)
	}

	if got := c.Samples(); got[0].ID != "kick" || got[1].ID != "pad" {
		t.Errorf("Samples() order = %q, %q", got[0].ID, got[1].ID)
	}
}

func TestSample_NotFound(t *testing.T) {
	t.Parallel()

	c, err := Decode(strings.NewReader(manifestYAML), "/lib")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Sample(context.Background(), "snare"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Sample(snare) error = %v, want ErrNotFound", err)
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"duplicate", "samples:\n  - id: a\n  - id: a\n", ErrDuplicate},
		{"missing id", "samples:\n  - title: nameless\n", ErrMissingID},
		{"unknown field", "samples:\n  - id: a\n    tempo: 120\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.yaml), ".")
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "samples.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	kick, _ := c.Sample(context.Background(), "kick")
	if kick.SourcePath != filepath.Join(dir, "drums", "kick.wav") {
		t.Errorf("SourcePath = %q", kick.SourcePath)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if c, err := Load(empty); err != nil || c.Len() != 0 {
		t.Errorf("Load(empty) = %v, %v", c, err)
	}
}
