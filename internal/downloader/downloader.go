package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roadboard/road-data-api/internal/domain"
	"github.com/roadboard/road-data-api/internal/observability"
)

// Downloader pages signage layers out of the feature service, flattens the
// records, and writes one snapshot file per layer into the data directory.
type Downloader struct {
	source  domain.SignSource
	dataDir string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Downloader writing snapshots under dataDir.
func New(source domain.SignSource, dataDir string, logger *slog.Logger, metrics *observability.Metrics) *Downloader {
	return &Downloader{
		source:  source,
		dataDir: dataDir,
		logger:  logger,
		metrics: metrics,
	}
}

// CategoryResult reports one category's outcome: the record count and file
// written on success, or the error that stopped pagination. Failed
// categories write no file; any prior snapshot stays in place.
type CategoryResult struct {
	Layer string
	Count int
	File  string
	Err   error
}

// Failed reports whether the category download was aborted.
func (r CategoryResult) Failed() bool {
	return r.Err != nil
}

// Run downloads the given layers in order, one at a time. A failed category
// never stops the run; its error is carried in that category's result and
// the next layer proceeds.
func (d *Downloader) Run(ctx context.Context, layers []domain.SignLayer) []CategoryResult {
	results := make([]CategoryResult, 0, len(layers))
	for _, layer := range layers {
		results = append(results, d.DownloadCategory(ctx, layer))
	}
	return results
}

// DownloadCategory pages one layer to completion and writes its snapshot.
// Pagination stops on a short page (end of data) or once the next offset
// would exceed the layer's ceiling; a page failure aborts the category with
// nothing written.
func (d *Downloader) DownloadCategory(ctx context.Context, layer domain.SignLayer) CategoryResult {
	start := time.Now()
	features := make([]domain.SignFeature, 0, domain.SignPageSize)

	for offset := 0; ; offset += domain.SignPageSize {
		if offset > layer.MaxOffset {
			d.logger.Warn("offset ceiling reached, stopping pagination",
				"layer", layer.Key,
				"ceiling", layer.MaxOffset,
				"records", len(features))
			break
		}

		page, err := d.source.FetchPage(ctx, layer, offset)
		if err != nil {
			d.metrics.DownloadsTotal.WithLabelValues(layer.Key, "error").Inc()
			d.logger.Error("category download failed",
				"layer", layer.Key,
				"offset", offset,
				"error", err)
			return CategoryResult{Layer: layer.Key, Err: err}
		}
		d.metrics.PagesFetched.WithLabelValues(layer.Key).Inc()

		for _, attrs := range page {
			features = append(features, domain.FlattenSignAttributes(attrs))
		}

		if len(page) < domain.SignPageSize {
			break
		}
	}

	if err := d.writeSnapshot(layer, features); err != nil {
		d.metrics.DownloadsTotal.WithLabelValues(layer.Key, "error").Inc()
		d.logger.Error("snapshot write failed", "layer", layer.Key, "error", err)
		return CategoryResult{Layer: layer.Key, Err: err}
	}

	d.metrics.DownloadsTotal.WithLabelValues(layer.Key, "success").Inc()
	d.metrics.DownloadRecords.WithLabelValues(layer.Key).Observe(float64(len(features)))
	d.metrics.DownloadDuration.WithLabelValues(layer.Key).Observe(time.Since(start).Seconds())

	d.logger.Info("downloaded sign layer",
		"layer", layer.Key,
		"records", len(features),
		"file", layer.FileName,
		"duration", time.Since(start))

	return CategoryResult{Layer: layer.Key, Count: len(features), File: layer.FileName}
}

// writeSnapshot serializes the accumulated records as a single document
// with the layer's array key and overwrites the layer's snapshot file.
func (d *Downloader) writeSnapshot(layer domain.SignLayer, features []domain.SignFeature) error {
	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(map[string][]domain.SignFeature{layer.ArrayKey: features}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", layer.Key, err)
	}

	path := filepath.Join(d.dataDir, layer.FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CheckReadiness reports whether the data directory is writable, which is
// the downloader's only local dependency.
func (d *Downloader) CheckReadiness(_ context.Context) error {
	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		return fmt.Errorf("data dir unavailable: %w", err)
	}
	probe := filepath.Join(d.dataDir, ".readyz")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("data dir not writable: %w", err)
	}
	_ = os.Remove(probe)
	return nil
}
