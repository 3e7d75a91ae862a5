// SPDX-License-Identifier: EPL-2.0

// Package catalog resolves sample IDs from a YAML manifest:
//
//	samples:
//	  - id: kick-01
//	    source_file_path: drums/kick.wav
//	    title: Deep Kick
//	    genre: House
//	    bpm: 124
//
// Relative source paths are taken relative to the manifest.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/padkit/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound  = errors.New("sample not in catalog")
	ErrDuplicate = errors.New("duplicate sample id")
	ErrMissingID = errors.New("sample without id")
)

type manifest struct {
	Samples []models.Descriptor `yaml:"samples"`
}

// Catalog is an in-memory, read-only sample index. It is safe for
// concurrent use.
type Catalog struct {
	byID    map[string]models.Descriptor
	samples []models.Descriptor
}

// Load reads the manifest at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return c, nil
}

// Decode reads a manifest from r, resolving relative source paths against
// dir.
func Decode(r io.Reader, dir string) (*Catalog, error) {
	var m manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	return New(m.Samples, dir)
}

// New indexes samples. Every sample needs a unique, non-empty ID.
func New(samples []models.Descriptor, dir string) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]models.Descriptor, len(samples)),
		samples: make([]models.Descriptor, 0, len(samples)),
	}

	var errs []error
	for i, s := range samples {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("samples[%d]: %w", i, ErrMissingID))
			continue
		}
		if _, ok := c.byID[s.ID]; ok {
			errs = append(errs, fmt.Errorf("samples[%d]: %w %q", i, ErrDuplicate, s.ID))
			continue
		}
		if s.SourcePath != "" && !filepath.IsAbs(s.SourcePath) {
			s.SourcePath = filepath.Join(dir, filepath.FromSlash(s.SourcePath))
		}

		c.byID[s.ID] = s
		c.samples = append(c.samples, s)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Sample returns the descriptor for id.
func (c *Catalog) Sample(_ context.Context, id string) (models.Descriptor, error) {
	s, ok := c.byID[id]
	if !ok {
		return models.Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

// Samples lists the catalog in manifest order.
func (c *Catalog) Samples() []models.Descriptor {
	return append([]models.Descriptor(nil), c.samples...)
}

func (c *Catalog) Len() int { return len(c.samples) }
