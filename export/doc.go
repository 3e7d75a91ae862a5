// SPDX-License-Identifier: EPL-2.0

// Package export runs the sample export pipeline: validate each source,
// convert it to 16-bit 48 kHz WAV or AIFF, and place it under an output
// root organized flat, by genre, by BPM range, or as a bank/pad kit.
//
// An Exporter owns a bounded worker pool shared by every call. A batch
// always returns one result per requested sample in request order; a
// failure, panic or cancellation affects only the samples it touches.
//
//	e := export.New(export.WithWorkers(4))
//	cfg := models.DefaultExportConfig()
//	cfg.OutputBasePath = "/media/sampler"
//	batch, err := e.ExportBatch(ctx, samples, cfg)
//
// Kits place samples on named pads:
//
//	k, _ := export.NewKit("drums", export.DefaultLayout())
//	_ = k.Assign("A1", kick)
//	res, err := e.ExportKit(ctx, k, cfg)
package export
