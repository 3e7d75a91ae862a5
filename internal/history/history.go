// SPDX-License-Identifier: EPL-2.0

// Package history records export results in a SQLite database so the CLI
// can list past exports. The export pipeline itself never persists
// anything; callers pass results here after an export returns.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/ik5/padkit/export"
	"github.com/ik5/padkit/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound  = errors.New("export not recorded")
	ErrNoResults = errors.New("nothing to record")
)

// Kinds of recorded exports.
const (
	KindBatch = "batch"
	KindKit   = "kit"
)

// ExportRecord is one batch or kit export.
type ExportRecord struct {
	ID               string `gorm:"primaryKey;type:varchar(36)"`
	Kind             string `gorm:"index:idx_export_kind"`
	KitName          string
	OrganizedBy      string
	Format           string
	OutputBasePath   string
	TotalRequested   int
	Successful       int
	Failed           int
	TotalSizeBytes   int64
	TotalTimeSeconds float64
	CreatedAt        time.Time `gorm:"index:idx_export_created"`

	Items []ItemRecord `gorm:"foreignKey:ExportID;constraint:OnDelete:CASCADE"`
}

// ItemRecord is one sample of an export, at its request position.
type ItemRecord struct {
	ID                    uint   `gorm:"primaryKey;autoIncrement"`
	ExportID              string `gorm:"type:varchar(36);index:idx_item_export"`
	Position              int
	SampleID              string `gorm:"index:idx_item_sample"`
	Slot                  string
	Success               bool
	OutputPath            string
	FileSizeBytes         int64
	ConversionTimeSeconds float64
	Error                 string
}

// Recorder writes and reads export history.
type Recorder struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	// SQLite allows one writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&ExportRecord{}, &ItemRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordBatch stores a batch result.
func (r *Recorder) RecordBatch(ctx context.Context, b *models.BatchExportResult) error {
	if b == nil {
		return ErrNoResults
	}

	rec := newRecord(KindBatch, b, nil)
	return r.save(ctx, &rec)
}

// RecordKit stores a kit result together with the slot of every item.
func (r *Recorder) RecordKit(ctx context.Context, k *export.KitResult) error {
	if k == nil {
		return ErrNoResults
	}

	rec := newRecord(KindKit, &k.BatchExportResult, k.Slots)
	rec.KitName = k.KitName
	rec.Format = string(k.Format)
	return r.save(ctx, &rec)
}

func (r *Recorder) save(ctx context.Context, rec *ExportRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("recording export %s: %w", rec.ID, err)
	}
	return nil
}

func newRecord(kind string, b *models.BatchExportResult, slots []string) ExportRecord {
	rec := ExportRecord{
		ID:               b.ExportID,
		Kind:             kind,
		OrganizedBy:      string(b.OrganizedBy),
		OutputBasePath:   b.OutputBasePath,
		TotalRequested:   b.TotalRequested,
		Successful:       b.Successful,
		Failed:           b.Failed,
		TotalSizeBytes:   b.TotalSizeBytes,
		TotalTimeSeconds: b.TotalTimeSeconds,
		Items:            make([]ItemRecord, len(b.Results)),
	}
	if len(b.Results) > 0 {
		rec.Format = string(b.Results[0].Format)
	}

	for i, res := range b.Results {
		item := ItemRecord{
			ExportID:              b.ExportID,
			Position:              i,
			SampleID:              res.SampleID,
			Success:               res.Success,
			OutputPath:            res.OutputPath,
			FileSizeBytes:         res.FileSizeBytes,
			ConversionTimeSeconds: res.ConversionTimeSeconds,
			Error:                 res.Error,
		}
		if i < len(slots) {
			item.Slot = slots[i]
		}
		rec.Items[i] = item
	}

	return rec
}

// Get returns one export with its items in request order.
func (r *Recorder) Get(ctx context.Context, id string) (*ExportRecord, error) {
	var rec ExportRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying export %s: %w", id, err)
	}
	return &rec, nil
}

// Recent lists up to limit exports, newest first, without items.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]ExportRecord, error) {
	var recs []ExportRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	return recs, nil
}

// ForSample lists every recorded export attempt of one sample, newest
// first.
func (r *Recorder) ForSample(ctx context.Context, sampleID string) ([]ItemRecord, error) {
	var items []ItemRecord
	err := r.db.WithContext(ctx).Where("sample_id = ?", sampleID).Order("id DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing sample %s: %w", sampleID, err)
	}
	return items, nil
}
