package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/document"
	"github.com/slateworks/timetable-engine/pkg/extraction"
)

// FloorDocument pairs a target floor with the document holding its timetable.
type FloorDocument struct {
	FloorNumber int
	Path        string
}

// FloorResult is one floor's outcome in a multi-floor run.
type FloorResult struct {
	FloorNumber int
	Path        string
	Extraction  extraction.Report
	Stats       *ImportStats
	Err         error
}

// RunSummary aggregates a whole run. Every attempted floor appears in
// PerFloor whether it succeeded or not.
type RunSummary struct {
	FloorsAttempted int
	FloorsSucceeded int
	FloorsFailed    int
	PerFloor        []FloorResult
}

// ImportRunner drives the full pipeline across multiple floor documents:
// open, extract, import, one floor at a time in caller order. A failed floor
// never aborts the run; cancellation is honored between floors.
type ImportRunner struct {
	source    document.Source
	extractor *extraction.Extractor
	importer  ImportService
	logger    *zap.Logger
}

// NewImportRunner wires the pipeline stages together.
func NewImportRunner(source document.Source, extractor *extraction.Extractor, importer ImportService, logger *zap.Logger) *ImportRunner {
	return &ImportRunner{
		source:    source,
		extractor: extractor,
		importer:  importer,
		logger:    logger,
	}
}

// Run processes each floor document in order and returns the per-unit
// summary. The returned error is non-nil only for cancellation; individual
// floor failures are reported in the summary.
func (r *ImportRunner) Run(ctx context.Context, docs []FloorDocument, opts ImportOptions) (*RunSummary, error) {
	summary := &RunSummary{}

	for _, fd := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.FloorsAttempted++
		result := r.runFloor(ctx, fd, opts)
		if result.Err != nil {
			summary.FloorsFailed++
			r.logger.Error("Floor import failed",
				zap.Int("floor", fd.FloorNumber),
				zap.String("path", fd.Path),
				zap.Error(result.Err))
		} else {
			summary.FloorsSucceeded++
		}
		summary.PerFloor = append(summary.PerFloor, result)
	}

	return summary, nil
}

func (r *ImportRunner) runFloor(ctx context.Context, fd FloorDocument, opts ImportOptions) FloorResult {
	result := FloorResult{FloorNumber: fd.FloorNumber, Path: fd.Path}

	doc, err := r.source.Open(fd.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			r.logger.Warn("Failed to close document", zap.String("path", fd.Path), zap.Error(cerr))
		}
	}()

	r.logger.Info("Extracting floor document",
		zap.Int("floor", fd.FloorNumber),
		zap.String("path", fd.Path),
		zap.Int("pages", doc.NumPages()))

	// Extraction materializes fully before any import write happens, so a
	// fatal error here leaves the store untouched for this floor.
	entries, report, err := r.extractor.ExtractDocument(ctx, doc)
	result.Extraction = report
	if err != nil {
		result.Err = err
		return result
	}

	stats, err := r.importer.Import(ctx, fd.FloorNumber, entries, opts)
	if err != nil {
		result.Err = err
		return result
	}
	result.Stats = stats
	return result
}
