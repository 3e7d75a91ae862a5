// SPDX-License-Identifier: EPL-2.0

// Package organize computes where an exported sample goes.
package organize

import (
	"path/filepath"

	"github.com/ik5/padkit/models"
	"github.com/ik5/padkit/sanitize"
)

const (
	UnknownGenre = "unknown_genre"
	UnknownBPM   = "unknown_bpm"
)

// bucket is the half-open range [min, max).
type bucket struct {
	max  float64
	name string
}

// buckets are ordered; the last one has no upper bound.
var buckets = []bucket{
	{70, "slow"},
	{90, "70-90"},
	{110, "90-110"},
	{130, "110-130"},
	{150, "130-150"},
}

// BPMBucket names the tempo range bpm falls in. A BPM exactly on a
// boundary belongs to the higher range.
func BPMBucket(bpm *float64) string {
	if bpm == nil {
		return UnknownBPM
	}

	for _, b := range buckets {
		if *bpm < b.max {
			return b.name
		}
	}

	return "fast"
}

// GenreDir is the sanitized genre directory name. Genre spelling is taken
// as given; only the name is made safe. Genres with nothing printable left
// go to UnknownGenre.
func GenreDir(genre *string) string {
	if genre == nil {
		return UnknownGenre
	}

	return sanitize.StemOr(*genre, UnknownGenre, 0)
}

// Path returns the directory for sample under base. Kit layouts are
// computed by the kit exporter, so OrganizeKit returns base unchanged like
// OrganizeFlat.
func Path(base string, sample models.Descriptor, by models.OrganizeBy) string {
	switch by {
	case models.OrganizeGenre:
		return filepath.Join(base, GenreDir(sample.Genre))
	case models.OrganizeBPM:
		return filepath.Join(base, BPMBucket(sample.BPM))
	default:
		return base
	}
}
