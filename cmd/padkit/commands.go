// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ik5/padkit"
	"github.com/ik5/padkit/archive"
	"github.com/ik5/padkit/convert"
	"github.com/ik5/padkit/export"
	"github.com/ik5/padkit/internal/catalog"
	"github.com/ik5/padkit/internal/config"
	"github.com/ik5/padkit/internal/history"
	"github.com/ik5/padkit/models"
	"github.com/ik5/padkit/validate"
)

var errUsage = errors.New("usage")

type app struct {
	cfg    *config.Config
	log    *slog.Logger
	meters *meters
	out    io.Writer
	errOut io.Writer
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) validate(_ context.Context, args []string) error {
	fs := a.flags("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no files given", errUsage)
	}

	v := validate.New(padkit.NewRegistry())
	bad := 0
	for _, path := range fs.Args() {
		r := v.Validate(path)
		if !r.Valid {
			bad++
			fmt.Fprintf(a.out, "fail  %s: %s\n", path, r.Message())
			continue
		}
		fmt.Fprintf(a.out, "ok    %s: %s %d Hz %d ch %s\n",
			path, r.Info.Format, r.Info.SampleRate, r.Info.Channels, r.Info.Duration().Round(time.Millisecond))
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d files rejected: %w", bad, fs.NArg(), errFailures)
	}
	return nil
}

func (a *app) convert(ctx context.Context, args []string) error {
	fs := a.flags("convert")
	format := fs.String("format", string(a.cfg.Export.Format), "output format: wav or aiff")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: want IN OUT", errUsage)
	}

	f, err := models.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	c := convert.New(padkit.NewRegistry(), convert.WithLogger(a.log))
	r := c.Convert(ctx, fs.Arg(0), fs.Arg(1), f)
	if !r.Success {
		return errors.New(r.Error)
	}

	size := int64(0)
	if st, err := os.Stat(r.OutputPath); err == nil {
		size = st.Size()
	}
	fmt.Fprintf(a.out, "%s -> %s: %s %d Hz -> %d Hz, %d ch, %s\n",
		fs.Arg(0), r.OutputPath, r.OriginalFormat, r.OriginalSampleRate, r.ConvertedSampleRate, r.Channels, humanize.Bytes(uint64(size)))
	return nil
}

// exportFlags are shared by export and kit.
type exportFlags struct {
	organizeBy *string
	format     *string
	metadata   *bool
	rawNames   *bool
	out        *string
	ids        *bool
	zip        *string
}

func (a *app) exportFlags(fs *flag.FlagSet, withOrganize bool) exportFlags {
	ef := exportFlags{
		format:   fs.String("format", string(a.cfg.Export.Format), "output format: wav or aiff"),
		metadata: fs.Bool("metadata", a.cfg.Export.IncludeMetadata, "write YAML metadata next to every file"),
		rawNames: fs.Bool("raw-names", !a.cfg.Export.SanitizeFilenames, "report unsanitized display names"),
		out:      fs.String("out", a.cfg.Export.OutputBasePath, "output directory (default <output_root>/<export id>)"),
		ids:      fs.Bool("ids", false, "arguments are catalog sample IDs instead of files"),
		zip:      fs.String("zip", "", "also pack the output directory into this zip file"),
	}
	if withOrganize {
		ef.organizeBy = fs.String("organize-by", string(a.cfg.Export.OrganizeBy), "layout: flat, genre or bpm")
	}
	return ef
}

func (ef exportFlags) config() (models.ExportConfig, error) {
	by := string(models.OrganizeKit)
	if ef.organizeBy != nil {
		by = *ef.organizeBy
	}

	cfg, err := models.NewExportConfig(by, *ef.format, *ef.metadata, !*ef.rawNames, *ef.out)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}
	return cfg, nil
}

func (a *app) exporter(opts ...export.Option) *export.Exporter {
	return export.New(append([]export.Option{
		export.WithWorkers(a.cfg.Workers),
		export.WithOutputRoot(a.cfg.OutputRoot),
		export.WithLogger(a.log),
		export.WithMeterProvider(a.meters.provider),
	}, opts...)...)
}

// catalog loads the sample catalog named in the config.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.Catalog == "" {
		return nil, fmt.Errorf("%w: -ids needs a catalog in the config", errUsage)
	}
	return catalog.Load(a.cfg.Catalog)
}

// resolver turns command line arguments into samples: catalog IDs with
// -ids, file paths otherwise.
func (a *app) resolver(byID bool) (func(context.Context, string) (models.Descriptor, error), error) {
	if !byID {
		return func(_ context.Context, path string) (models.Descriptor, error) {
			return fileSample(path), nil
		}, nil
	}

	c, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return c.Sample, nil
}

func fileSample(path string) models.Descriptor {
	base := filepath.Base(path)
	return models.Descriptor{
		ID:         path,
		SourcePath: path,
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	ef := a.exportFlags(fs, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no samples given", errUsage)
	}

	cfg, err := ef.config()
	if err != nil {
		return err
	}

	var (
		b      *models.BatchExportResult
		runErr error
	)
	if *ef.ids {
		c, err := a.catalog()
		if err != nil {
			return err
		}
		b, runErr = a.exporter(export.WithProvider(c)).ExportIDs(ctx, fs.Args(), cfg)
	} else {
		samples := make([]models.Descriptor, fs.NArg())
		for i, path := range fs.Args() {
			samples[i] = fileSample(path)
		}
		b, runErr = a.exporter().ExportBatch(ctx, samples, cfg)
	}
	if b == nil {
		return runErr
	}

	a.report(b, nil)
	a.meters.report(ctx, a.log)
	a.record(ctx, func(r *history.Recorder) error { return r.RecordBatch(ctx, b) })

	return a.finish(b, *ef.zip, runErr)
}

func (a *app) kit(ctx context.Context, args []string) error {
	fs := a.flags("kit")
	name := fs.String("name", "kit", "kit name")
	ef := a.exportFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no SLOT=SAMPLE assignments given", errUsage)
	}

	cfg, err := ef.config()
	if err != nil {
		return err
	}
	resolve, err := a.resolver(*ef.ids)
	if err != nil {
		return err
	}

	k, err := export.NewKit(*name, a.cfg.Kit)
	if err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		slot, ref, ok := strings.Cut(arg, "=")
		if !ok || ref == "" {
			return fmt.Errorf("%w: %q is not SLOT=SAMPLE", errUsage, arg)
		}
		s, err := resolve(ctx, ref)
		if err != nil {
			return err
		}
		if err := k.Assign(slot, s); err != nil {
			return err
		}
	}

	res, runErr := a.exporter().ExportKit(ctx, k, cfg)
	if res == nil {
		return runErr
	}

	a.report(&res.BatchExportResult, res.Slots)
	a.meters.report(ctx, a.log)
	a.record(ctx, func(r *history.Recorder) error { return r.RecordKit(ctx, res) })

	return a.finish(&res.BatchExportResult, *ef.zip, runErr)
}

// finish packs the output when asked and folds the outcome into one error.
func (a *app) finish(b *models.BatchExportResult, zipPath string, runErr error) error {
	if zipPath != "" && b.Successful > 0 {
		if err := writeArchive(b.OutputBasePath, zipPath); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "packed %s into %s\n", b.OutputBasePath, zipPath)
	}

	if runErr != nil {
		return runErr
	}
	if b.Failed > 0 {
		return fmt.Errorf("%d of %d samples failed: %w", b.Failed, b.TotalRequested, errFailures)
	}
	return nil
}

func (a *app) report(b *models.BatchExportResult, slots []string) {
	for i, r := range b.Results {
		label := r.SampleID
		if slots != nil {
			label = slots[i] + " " + label
		}
		if !r.Success {
			fmt.Fprintf(a.out, "fail  %s: %s\n", label, r.Error)
			continue
		}
		fmt.Fprintf(a.out, "ok    %s -> %s (%s)\n", label, r.DisplayName, humanize.Bytes(uint64(r.FileSizeBytes)))
	}

	elapsed := time.Duration(b.TotalTimeSeconds * float64(time.Second)).Round(time.Millisecond)
	fmt.Fprintf(a.out, "%d of %d exported, %s in %s to %s\n",
		b.Successful, b.TotalRequested, humanize.Bytes(uint64(b.TotalSizeBytes)), elapsed, b.OutputBasePath)
}

// record stores a result in the history database when one is configured.
// History is best effort and never fails the export.
func (a *app) record(ctx context.Context, save func(*history.Recorder) error) {
	if a.cfg.HistoryDB == "" {
		return
	}

	r, err := history.Open(a.cfg.HistoryDB)
	if err != nil {
		a.log.Warn("export history unavailable", "path", a.cfg.HistoryDB, "error", err)
		return
	}
	defer r.Close()

	if err := save(r); err != nil {
		a.log.Warn("export not recorded", "error", err)
	}
}

func (a *app) archive(_ context.Context, args []string) error {
	fs := a.flags("archive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: want DIR OUT.zip", errUsage)
	}

	if err := writeArchive(fs.Arg(0), fs.Arg(1)); err != nil {
		return err
	}

	st, err := os.Stat(fs.Arg(1))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", fs.Arg(1), humanize.Bytes(uint64(st.Size())))
	return nil
}

// writeArchive streams dir into a new zip file at path. A failed archive
// is removed.
func writeArchive(dir, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return archive.Write(f, dir)
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := a.flags("history")
	n := fs.Int("n", 20, "number of exports to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cfg.HistoryDB == "" {
		return fmt.Errorf("%w: no history_db in the config", errUsage)
	}

	r, err := history.Open(a.cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer r.Close()

	recs, err := r.Recent(ctx, *n)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		name := rec.OutputBasePath
		if rec.KitName != "" {
			name = rec.KitName + " " + name
		}
		fmt.Fprintf(a.out, "%s  %-5s  %d/%d ok  %8s  %s  %s\n",
			rec.ID, rec.Kind, rec.Successful, rec.TotalRequested,
			humanize.Bytes(uint64(rec.TotalSizeBytes)), humanize.Time(rec.CreatedAt), name)
	}
	return nil
}
