// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// meters gathers the exporter's instruments for one command run. Nothing
// is pushed anywhere; the totals are logged when the command ends.
type meters struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

func newMeters() *meters {
	reader := sdkmetric.NewManualReader()
	return &meters{
		reader:   reader,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
}

// report logs one line per counter and histogram data point.
func (m *meters) report(ctx context.Context, log *slog.Logger) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		log.Warn("collecting metrics", "error", err)
		return
	}

	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			switch data := met.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					log.Info("metric", append(attrs(dp.Attributes), "name", met.Name, "value", dp.Value)...)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					log.Info("metric", append(attrs(dp.Attributes), "name", met.Name, "count", dp.Count, "sum", dp.Sum)...)
				}
			}
		}
	}
}

func (m *meters) shutdown(ctx context.Context, log *slog.Logger) {
	if err := m.provider.Shutdown(ctx); err != nil {
		log.Warn("shutting down metrics", "error", err)
	}
}

func attrs(set attribute.Set) []any {
	out := make([]any, 0, set.Len())
	for _, kv := range set.ToSlice() {
		out = append(out, slog.String(string(kv.Key), kv.Value.Emit()))
	}
	return out
}
