// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/padkit/models"
	"github.com/ik5/padkit/sanitize"
)

// maxPads keeps pad numbers within the two digits of the file prefix.
const maxPads = 99

// maxBankLen leaves room for a title in a 255-byte pad file name.
const maxBankLen = 16

// KitLayout is the bank/pad grid of the target sampler.
type KitLayout struct {
	Banks []string `json:"banks" yaml:"banks"`
	Pads  int      `json:"pads" yaml:"pads"`
}

// DefaultLayout is ten banks A to J of sixteen pads.
func DefaultLayout() KitLayout {
	return KitLayout{
		Banks: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
		Pads:  16,
	}
}

// Validate checks bank names are unique letters-only names and the pad
// count fits the file naming scheme.
func (l KitLayout) Validate() error {
	if len(l.Banks) == 0 {
		return fmt.Errorf("%w: no banks", ErrInvalidLayout)
	}
	if l.Pads < 1 || l.Pads > maxPads {
		return fmt.Errorf("%w: pads must be 1..%d, got %d", ErrInvalidLayout, maxPads, l.Pads)
	}

	seen := make(map[string]bool, len(l.Banks))
	for _, b := range l.Banks {
		if b == "" || strings.TrimFunc(b, isLetter) != "" {
			return fmt.Errorf("%w: bank name %q must be ASCII letters", ErrInvalidLayout, b)
		}
		if len(b) > maxBankLen {
			return fmt.Errorf("%w: bank name %q longer than %d letters", ErrInvalidLayout, b, maxBankLen)
		}
		key := strings.ToUpper(b)
		if seen[key] {
			return fmt.Errorf("%w: duplicate bank %q", ErrInvalidLayout, b)
		}
		seen[key] = true
	}

	return nil
}

// Size is the number of slots in the grid.
func (l KitLayout) Size() int { return len(l.Banks) * l.Pads }

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// Slot addresses one pad. Pad numbers start at 1.
type Slot struct {
	Bank string
	Pad  int
}

func (s Slot) String() string { return fmt.Sprintf("%s%d", s.Bank, s.Pad) }

// ParseSlot parses names like "A1" or "j16" against l. The bank in the
// returned Slot is spelled as in the layout.
func (l KitLayout) ParseSlot(name string) (Slot, error) {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, func(r rune) bool { return !isLetter(r) })
	if i <= 0 {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
	}

	bank := l.bankIndex(name[:i])
	if bank < 0 {
		return Slot{}, fmt.Errorf("%w: unknown bank in %q", ErrInvalidSlot, name)
	}

	pad, err := strconv.Atoi(name[i:])
	if err != nil || pad < 1 || pad > l.Pads {
		return Slot{}, fmt.Errorf("%w: pad out of range in %q", ErrInvalidSlot, name)
	}

	return Slot{Bank: l.Banks[bank], Pad: pad}, nil
}

// ParseSlot parses a slot name against DefaultLayout.
func ParseSlot(name string) (Slot, error) {
	return DefaultLayout().ParseSlot(name)
}

func (l KitLayout) bankIndex(name string) int {
	return slices.IndexFunc(l.Banks, func(b string) bool { return strings.EqualFold(b, name) })
}

// Kit assigns samples to slots of a layout. Unassigned slots stay empty.
type Kit struct {
	Name   string
	Layout KitLayout
	slots  map[Slot]models.Descriptor
}

func NewKit(name string, layout KitLayout) (*Kit, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	return &Kit{Name: name, Layout: layout, slots: make(map[Slot]models.Descriptor)}, nil
}

// Assign places s on the named slot. A slot holds at most one sample.
func (k *Kit) Assign(slot string, s models.Descriptor) error {
	sl, err := k.Layout.ParseSlot(slot)
	if err != nil {
		return err
	}
	if _, ok := k.slots[sl]; ok {
		return fmt.Errorf("%w: %s", ErrSlotOccupied, sl)
	}

	k.slots[sl] = s
	return nil
}

// Sample returns the sample on slot, if any.
func (k *Kit) Sample(slot Slot) (models.Descriptor, bool) {
	s, ok := k.slots[slot]
	return s, ok
}

// Occupied lists assigned slots in hardware load order: bank by bank,
// pads ascending.
func (k *Kit) Occupied() []Slot {
	out := make([]Slot, 0, len(k.slots))
	for s := range k.slots {
		out = append(out, s)
	}

	slices.SortFunc(out, func(a, b Slot) int {
		if d := k.Layout.bankIndex(a.Bank) - k.Layout.bankIndex(b.Bank); d != 0 {
			return d
		}
		return a.Pad - b.Pad
	})

	return out
}

// KitResult is a batch result for the occupied slots of a kit. Slots[i]
// names the slot of Results[i].
type KitResult struct {
	models.BatchExportResult
	KitName string        `json:"kit_name"`
	Format  models.Format `json:"format"`
	Slots   []string      `json:"slots"`
}

// Summary folds the kit export into one record: successful only when every
// occupied slot exported.
func (r *KitResult) Summary() models.ExportResult {
	var elapsed float64
	for _, res := range r.Results {
		elapsed += res.ConversionTimeSeconds
	}

	return models.ExportResult{
		Success:               r.Failed == 0,
		SampleID:              r.KitName,
		OutputPath:            r.OutputBasePath,
		OutputFilename:        filepath.Base(r.OutputBasePath),
		DisplayName:           r.KitName,
		Format:                r.Format,
		FileSizeBytes:         r.TotalSizeBytes,
		ConversionTimeSeconds: elapsed,
		Error:                 strings.Join(r.Errors, "; "),
	}
}

// ExportKit exports every occupied slot of k to
// <base>/<bank>/<bank><pad:02>_<title>.<ext>. Empty slots are skipped
// without a result. cfg.OrganizeBy is ignored; all other options apply as
// in ExportBatch, including cancellation.
func (e *Exporter) ExportKit(ctx context.Context, k *Kit, cfg models.ExportConfig) (*KitResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("%w: nil kit", ErrInvalidLayout)
	}
	if err := k.Layout.Validate(); err != nil {
		return nil, err
	}

	id := e.newID()
	base, err := e.basePath(cfg, id)
	if err != nil {
		return nil, err
	}

	occupied := k.Occupied()
	jobs := make([]job, len(occupied))
	slots := make([]string, len(occupied))
	for i, sl := range occupied {
		s := k.slots[sl]
		jobs[i] = kitJob(base, sl, s, cfg)
		slots[i] = sl.String()
	}

	start := time.Now()
	results, runErr := e.runAll(ctx, jobs, cfg)

	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = fmt.Sprintf("%s (%s)", r.SampleID, slots[i])
	}
	batch := aggregate(id, base, models.OrganizeKit, results, labels, time.Since(start))

	if cfg.IncludeMetadata {
		if err := writeKitManifest(base, k, jobs, results); err != nil {
			e.log.Warn("kit manifest not written", "export_id", id, "error", err)
		}
	}

	e.log.Info("kit export finished",
		"export_id", id,
		"kit", k.Name,
		"slots", len(occupied),
		"successful", batch.Successful,
		"failed", batch.Failed,
		"output", base,
	)

	return &KitResult{BatchExportResult: *batch, KitName: k.Name, Format: cfg.Format, Slots: slots}, runErr
}

func kitJob(base string, sl Slot, s models.Descriptor, cfg models.ExportConfig) job {
	prefix := fmt.Sprintf("%s%02d_", sl.Bank, sl.Pad)
	ext := cfg.Format.Ext()
	stem := sanitize.Stem(title(s), sanitize.MaxBytes-len(prefix)-len(ext))
	name := prefix + stem + ext

	return job{
		sample:  s,
		dest:    filepath.Join(base, sl.Bank, name),
		display: displayName(name, prefix+title(s)+ext, cfg),
		slot:    sl.String(),
	}
}
