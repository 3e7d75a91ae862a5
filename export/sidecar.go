// SPDX-License-Identifier: EPL-2.0

package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/padkit/convert"
	"github.com/ik5/padkit/models"
	"gopkg.in/yaml.v3"
)

// sampleMeta is written next to each exported file as <stem>.yaml.
type sampleMeta struct {
	ID       string       `yaml:"id"`
	Title    string       `yaml:"title"`
	Genre    *string      `yaml:"genre,omitempty"`
	BPM      *float64     `yaml:"bpm,omitempty"`
	Slot     string       `yaml:"slot,omitempty"`
	Source   string       `yaml:"source"`
	Original originalMeta `yaml:"original"`
	Output   outputMeta   `yaml:"output"`
}

type originalMeta struct {
	Format          string  `yaml:"format"`
	SampleRate      int     `yaml:"sample_rate"`
	DurationSeconds float64 `yaml:"duration_seconds"`
}

type outputMeta struct {
	File       string `yaml:"file"`
	SampleRate int    `yaml:"sample_rate"`
	BitDepth   int    `yaml:"bit_depth"`
	Channels   int    `yaml:"channels"`
}

func sidecarPath(dest string) string {
	return strings.TrimSuffix(dest, filepath.Ext(dest)) + ".yaml"
}

func writeSidecar(j job, cr convert.Result) error {
	meta := sampleMeta{
		ID:     j.sample.ID,
		Title:  j.sample.Title,
		Genre:  j.sample.Genre,
		BPM:    j.sample.BPM,
		Slot:   j.slot,
		Source: j.sample.SourcePath,
		Original: originalMeta{
			Format:          cr.OriginalFormat,
			SampleRate:      cr.OriginalSampleRate,
			DurationSeconds: cr.OriginalDurationSeconds,
		},
		Output: outputMeta{
			File:       filepath.Base(j.dest),
			SampleRate: cr.ConvertedSampleRate,
			BitDepth:   convert.TargetBitDepth,
			Channels:   cr.Channels,
		},
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	return os.WriteFile(sidecarPath(j.dest), data, 0o644)
}

// kitManifest is kit.yaml at the root of a kit export.
type kitManifest struct {
	Name  string     `yaml:"name"`
	Banks []string   `yaml:"banks"`
	Pads  int        `yaml:"pads"`
	Slots []kitEntry `yaml:"slots"`
}

type kitEntry struct {
	Slot     string `yaml:"slot"`
	SampleID string `yaml:"sample_id"`
	Title    string `yaml:"title"`
	File     string `yaml:"file"`
}

func writeKitManifest(base string, k *Kit, jobs []job, results []models.ExportResult) error {
	m := kitManifest{
		Name:  k.Name,
		Banks: k.Layout.Banks,
		Pads:  k.Layout.Pads,
		Slots: []kitEntry{},
	}

	for i, r := range results {
		if !r.Success {
			continue
		}
		rel, err := filepath.Rel(base, r.OutputPath)
		if err != nil {
			return err
		}
		m.Slots = append(m.Slots, kitEntry{
			Slot:     jobs[i].slot,
			SampleID: r.SampleID,
			Title:    jobs[i].sample.Title,
			File:     filepath.ToSlash(rel),
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(base, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(base, "kit.yaml"), data, 0o644)
}
