// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/ik5/padkit/models"
	"golang.org/x/sync/errgroup"
)

// runAll exports jobs on the shared pool and returns one result per job in
// job order. Once ctx is done no new job is started; jobs already running
// finish with a detached context so no half-written file is left behind.
func (e *Exporter) runAll(ctx context.Context, jobs []job, cfg models.ExportConfig) ([]models.ExportResult, error) {
	results := make([]models.ExportResult, len(jobs))
	runCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	var stopErr error

	next := 0
	for ; next < len(jobs); next++ {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}
		if err := e.sem.Acquire(ctx, 1); err != nil {
			stopErr = err
			break
		}

		i := next
		g.Go(func() error {
			defer e.sem.Release(1)
			results[i] = e.safeRun(runCtx, jobs[i], cfg)
			return nil
		})
	}

	_ = g.Wait()

	for i := next; i < len(jobs); i++ {
		results[i] = failed(jobs[i], cfg, msgCancelled)
	}
	if stopErr != nil {
		e.log.Warn("export cancelled", "started", next, "skipped", len(jobs)-next, "error", stopErr)
	}

	return results, stopErr
}

// safeRun is the per-sample isolation boundary: it never panics and always
// returns a result for j.
func (e *Exporter) safeRun(ctx context.Context, j job, cfg models.ExportConfig) models.ExportResult {
	start := time.Now()

	e.metrics.InFlight.Add(ctx, 1)
	res := e.guard(ctx, j, cfg)
	e.metrics.InFlight.Add(ctx, -1)

	e.metrics.RecordSample(ctx, string(cfg.Format), res.Success, res.FileSizeBytes, time.Since(start).Seconds())
	if !res.Success {
		e.log.Warn("sample export failed", "sample_id", j.sample.ID, "source", j.sample.SourcePath, "error", res.Error)
	}

	return res
}

func (e *Exporter) guard(ctx context.Context, j job, cfg models.ExportConfig) (res models.ExportResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("sample export panicked",
				"sample_id", j.sample.ID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			os.Remove(j.dest)
			res = failed(j, cfg, msgUnexpected)
		}
	}()

	return e.process(ctx, j, cfg)
}

// process is the pipeline of one sample: validate, convert, stat, and
// optionally write the metadata sidecar.
func (e *Exporter) process(ctx context.Context, j job, cfg models.ExportConfig) models.ExportResult {
	start := time.Now()
	res := models.ExportResult{SampleID: j.sample.ID, Format: cfg.Format}

	v := e.validator.Validate(j.sample.SourcePath)
	if !v.Valid {
		res.Error = v.Message()
		return res
	}

	cr := e.converter.Convert(ctx, j.sample.SourcePath, j.dest, cfg.Format)
	if !cr.Success {
		res.Error = cr.Error
		return res
	}

	st, err := os.Stat(j.dest)
	if err != nil {
		res.Error = fmt.Sprintf("Could not read output: %v", err)
		return res
	}

	if cfg.IncludeMetadata {
		if err := writeSidecar(j, cr); err != nil {
			os.Remove(j.dest)
			res.Error = fmt.Sprintf("Could not write metadata: %v", err)
			return res
		}
	}

	res.Success = true
	res.OutputPath = j.dest
	res.OutputFilename = filepath.Base(j.dest)
	res.DisplayName = j.display
	res.FileSizeBytes = st.Size()
	res.ConversionTimeSeconds = time.Since(start).Seconds()

	return res
}

func failed(j job, cfg models.ExportConfig, msg string) models.ExportResult {
	return models.ExportResult{
		SampleID: j.sample.ID,
		Format:   cfg.Format,
		Error:    msg,
	}
}
