// SPDX-License-Identifier: EPL-2.0

// Package observe holds the OpenTelemetry instruments of the export
// pipeline. Exporters default to a no-op provider; the CLI or an embedding
// service passes a real [metric.MeterProvider].
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ik5/padkit"

// Metrics is safe for concurrent use; the OTel instruments synchronise
// internally.
type Metrics struct {
	// SamplesExported counts per-sample outcomes. Attributes:
	//   attribute.String("status", "ok"|"failed"), attribute.String("format", ...)
	SamplesExported metric.Int64Counter

	// BytesWritten counts bytes of converted audio written to disk.
	BytesWritten metric.Int64Counter

	// ConversionDuration is the wall time of one sample's pipeline.
	ConversionDuration metric.Float64Histogram

	// InFlight is the number of samples currently holding a worker slot.
	InFlight metric.Int64UpDownCounter
}

// conversionBuckets are in seconds; samples are short, so most land
// well under a second.
var conversionBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SamplesExported, err = m.Int64Counter("padkit.export.samples",
		metric.WithDescription("Samples processed by status and format."),
	); err != nil {
		return nil, err
	}
	if met.BytesWritten, err = m.Int64Counter("padkit.export.bytes",
		metric.WithDescription("Bytes of converted audio written."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.ConversionDuration, err = m.Float64Histogram("padkit.export.duration",
		metric.WithDescription("Time to validate, convert and place one sample."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(conversionBuckets...),
	); err != nil {
		return nil, err
	}
	if met.InFlight, err = m.Int64UpDownCounter("padkit.export.in_flight",
		metric.WithDescription("Samples currently being exported."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// Nop returns instruments that record nothing.
func Nop() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		// The noop provider never fails.
		panic(err)
	}
	return m
}

// RecordSample records the outcome of one sample.
func (m *Metrics) RecordSample(ctx context.Context, format string, ok bool, bytes int64, seconds float64) {
	status := "failed"
	if ok {
		status = "ok"
	}

	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("format", format),
	)
	m.SamplesExported.Add(ctx, 1, attrs)
	m.ConversionDuration.Record(ctx, seconds, attrs)
	if ok {
		m.BytesWritten.Add(ctx, bytes)
	}
}
