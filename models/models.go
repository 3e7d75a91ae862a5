// SPDX-License-Identifier: EPL-2.0

package models

// Descriptor is the part of a library sample the export pipeline needs.
// It is never modified by the pipeline.
type Descriptor struct {
	ID              string   `json:"id" yaml:"id"`
	SourcePath      string   `json:"source_file_path" yaml:"source_file_path"`
	Title           string   `json:"title" yaml:"title"`
	Genre           *string  `json:"genre,omitempty" yaml:"genre,omitempty"`
	BPM             *float64 `json:"bpm,omitempty" yaml:"bpm,omitempty"`
	DurationSeconds float64  `json:"duration_seconds" yaml:"duration_seconds"`
}

// ExportResult is the outcome of exporting one sample.
type ExportResult struct {
	Success        bool   `json:"success"`
	SampleID       string `json:"sample_id"`
	OutputPath     string `json:"output_path,omitempty"`
	OutputFilename string `json:"output_filename,omitempty"`
	// DisplayName is the name shown to users: the sanitized file name, or
	// the raw title when sanitize_filenames is off.
	DisplayName           string  `json:"display_name,omitempty"`
	Format                Format  `json:"format"`
	FileSizeBytes         int64   `json:"file_size_bytes"`
	ConversionTimeSeconds float64 `json:"conversion_time_seconds"`
	Error                 string  `json:"error,omitempty"`
}

// BatchExportResult aggregates a batch or kit export. Results has one entry
// per requested sample in request order, and Errors one entry per failure.
type BatchExportResult struct {
	ExportID         string         `json:"export_id"`
	TotalRequested   int            `json:"total_requested"`
	Successful       int            `json:"successful"`
	Failed           int            `json:"failed"`
	TotalSizeBytes   int64          `json:"total_size_bytes"`
	TotalTimeSeconds float64        `json:"total_time_seconds"`
	OutputBasePath   string         `json:"output_base_path"`
	OrganizedBy      OrganizeBy     `json:"organized_by"`
	Results          []ExportResult `json:"results"`
	Errors           []string       `json:"errors"`
}

// Tally recomputes the counters from Results. Errors is not touched.
func (b *BatchExportResult) Tally() {
	b.TotalRequested = len(b.Results)
	b.Successful, b.Failed, b.TotalSizeBytes = 0, 0, 0

	for _, r := range b.Results {
		if r.Success {
			b.Successful++
			b.TotalSizeBytes += r.FileSizeBytes
			continue
		}
		b.Failed++
	}
}
