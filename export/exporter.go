// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/padkit"
	"github.com/ik5/padkit/audio"
	"github.com/ik5/padkit/convert"
	"github.com/ik5/padkit/internal/observe"
	"github.com/ik5/padkit/models"
	"github.com/ik5/padkit/organize"
	"github.com/ik5/padkit/validate"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"
)

// Validator is the pre-flight check run before every conversion.
type Validator interface {
	Validate(path string) validate.Result
}

// Converter writes one sample in the target format.
type Converter interface {
	Convert(ctx context.Context, in, out string, format models.Format) convert.Result
}

// Provider resolves sample IDs to descriptors.
type Provider interface {
	Sample(ctx context.Context, id string) (models.Descriptor, error)
}

// Exporter runs exports on a bounded pool shared by every call made on it.
// It keeps no per-export state, so one Exporter may serve concurrent
// exports.
type Exporter struct {
	reg       *audio.Registry
	validator Validator
	converter Converter
	provider  Provider
	root      string
	workers   int
	sem       *semaphore.Weighted
	log       *slog.Logger
	meters    metric.MeterProvider
	metrics   *observe.Metrics
	newID     func() string
}

type Option func(*Exporter)

// WithRegistry builds the default validator and converter on reg.
func WithRegistry(reg *audio.Registry) Option {
	return func(e *Exporter) { e.reg = reg }
}

// WithValidator replaces the pre-flight check.
func WithValidator(v Validator) Option {
	return func(e *Exporter) { e.validator = v }
}

// WithConverter replaces the converter.
func WithConverter(c Converter) Option {
	return func(e *Exporter) { e.converter = c }
}

// WithProvider sets the sample source used by ExportIDs.
func WithProvider(p Provider) Option {
	return func(e *Exporter) { e.provider = p }
}

// WithOutputRoot is where exports without an output_base_path go, each in
// a directory named after its export ID.
func WithOutputRoot(dir string) Option {
	return func(e *Exporter) { e.root = dir }
}

// WithWorkers bounds how many samples convert at once. Values below one
// mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Exporter) { e.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithMeterProvider records export metrics on mp instead of discarding them.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *Exporter) { e.meters = mp }
}

// WithIDGenerator replaces uuid.NewString for export IDs.
func WithIDGenerator(f func() string) Option {
	return func(e *Exporter) { e.newID = f }
}

func New(opts ...Option) *Exporter {
	e := &Exporter{
		log:     slog.Default(),
		metrics: observe.Nop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.meters != nil {
		m, err := observe.NewMetrics(e.meters)
		if err != nil {
			e.log.Warn("export metrics disabled", "error", err)
		} else {
			e.metrics = m
		}
	}

	if e.reg == nil {
		e.reg = padkit.NewRegistry()
	}
	if e.validator == nil {
		e.validator = validate.New(e.reg)
	}
	if e.converter == nil {
		e.converter = convert.New(e.reg, convert.WithLogger(e.log))
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	e.sem = semaphore.NewWeighted(int64(e.workers))

	return e
}

// Workers is the size of the conversion pool.
func (e *Exporter) Workers() int { return e.workers }

// basePath picks the export root: the configured path, or <root>/<id>.
func (e *Exporter) basePath(cfg models.ExportConfig, id string) (string, error) {
	if cfg.OutputBasePath != "" {
		return cfg.OutputBasePath, nil
	}
	if e.root == "" {
		return "", ErrNoOutputTarget
	}
	return filepath.Join(e.root, id), nil
}

func checkConfig(cfg models.ExportConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.OrganizeBy == models.OrganizeKit {
		return ErrKitLayout
	}
	return nil
}

// ExportSingle exports one sample. Validation and conversion failures come
// back in the result; the error is only set for an unusable config.
func (e *Exporter) ExportSingle(ctx context.Context, s models.Descriptor, cfg models.ExportConfig) (models.ExportResult, error) {
	if err := checkConfig(cfg); err != nil {
		return models.ExportResult{}, err
	}

	base, err := e.basePath(cfg, e.newID())
	if err != nil {
		return models.ExportResult{}, err
	}

	p := newPlanner()
	j := p.sampleJob(s, base, cfg)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return failed(j, cfg, msgCancelled), err
	}
	defer e.sem.Release(1)

	return e.safeRun(context.WithoutCancel(ctx), j, cfg), nil
}

// ExportBatch exports samples in order and never stops at a failed sample.
// Results[i] always belongs to samples[i]. If ctx is cancelled no further
// samples are started; the ones not started are reported as failed and
// ctx.Err() is returned with the partial result.
func (e *Exporter) ExportBatch(ctx context.Context, samples []models.Descriptor, cfg models.ExportConfig) (*models.BatchExportResult, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	id := e.newID()
	base, err := e.basePath(cfg, id)
	if err != nil {
		return nil, err
	}

	p := newPlanner()
	jobs := make([]job, len(samples))
	for i, s := range samples {
		jobs[i] = p.sampleJob(s, base, cfg)
	}

	start := time.Now()
	results, runErr := e.runAll(ctx, jobs, cfg)

	batch := aggregate(id, base, cfg.OrganizeBy, results, nil, time.Since(start))
	e.log.Info("batch export finished",
		"export_id", id,
		"requested", batch.TotalRequested,
		"successful", batch.Successful,
		"failed", batch.Failed,
		"bytes", batch.TotalSizeBytes,
		"output", base,
	)

	return batch, runErr
}

// ExportIDs resolves ids through the provider and exports them as a batch.
// An id the provider does not know is a caller error and stops the call
// before any file is touched.
func (e *Exporter) ExportIDs(ctx context.Context, ids []string, cfg models.ExportConfig) (*models.BatchExportResult, error) {
	if e.provider == nil {
		return nil, ErrNoProvider
	}

	samples := make([]models.Descriptor, len(ids))
	for i, id := range ids {
		s, err := e.provider.Sample(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrUnknownSample, id, err)
		}
		samples[i] = s
	}

	return e.ExportBatch(ctx, samples, cfg)
}

// aggregate builds the batch record. Errors are "<label>: <message>" where
// label defaults to the sample ID.
func aggregate(id, base string, by models.OrganizeBy, results []models.ExportResult, labels []string, elapsed time.Duration) *models.BatchExportResult {
	b := &models.BatchExportResult{
		ExportID:         id,
		OutputBasePath:   base,
		OrganizedBy:      by,
		Results:          results,
		Errors:           []string{},
		TotalTimeSeconds: elapsed.Seconds(),
	}
	b.Tally()

	for i, r := range results {
		if r.Success {
			continue
		}
		label := r.SampleID
		if labels != nil {
			label = labels[i]
		}
		b.Errors = append(b.Errors, fmt.Sprintf("%s: %s", label, r.Error))
	}

	return b
}

// destination is where a sample lands for flat, genre and bpm layouts.
func destination(base string, s models.Descriptor, by models.OrganizeBy) string {
	return organize.Path(base, s, by)
}
