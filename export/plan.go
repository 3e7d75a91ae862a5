// SPDX-License-Identifier: EPL-2.0

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/padkit/models"
	"github.com/ik5/padkit/sanitize"
)

// job is one sample with its destination decided.
type job struct {
	sample  models.Descriptor
	dest    string
	display string
	// slot is set for kit exports.
	slot string
}

// planner hands out destinations for one export call. All paths are fixed
// before any worker starts, so two samples never share an output file.
type planner struct {
	taken map[string]struct{}
}

func newPlanner() *planner {
	return &planner{taken: make(map[string]struct{})}
}

// claim returns dir/name, or dir/name_2, name_3... when taken. Comparison
// ignores case because sampler filesystems usually do.
func (p *planner) claim(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 2; ; n++ {
		path := filepath.Join(dir, candidate)
		key := strings.ToLower(path)
		if _, ok := p.taken[key]; !ok {
			p.taken[key] = struct{}{}
			return path
		}

		suffix := fmt.Sprintf("_%d", n)
		s := stem
		if over := len(s) + len(suffix) + len(ext) - sanitize.MaxBytes; over > 0 {
			s = s[:len(s)-over]
		}
		candidate = s + suffix + ext
	}
}

func (p *planner) sampleJob(s models.Descriptor, base string, cfg models.ExportConfig) job {
	name := sanitize.Filename(title(s) + cfg.Format.Ext())
	dest := p.claim(destination(base, s, cfg.OrganizeBy), name)

	return job{
		sample:  s,
		dest:    dest,
		display: displayName(filepath.Base(dest), title(s)+cfg.Format.Ext(), cfg),
	}
}

// title is the human name of s: its title, else its source file name.
func title(s models.Descriptor) string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	if s.SourcePath != "" {
		base := filepath.Base(s.SourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s.ID
}

// displayName is the on-disk name when sanitizing, else the raw one.
func displayName(onDisk, raw string, cfg models.ExportConfig) string {
	if cfg.SanitizeFilenames {
		return onDisk
	}
	return raw
}
