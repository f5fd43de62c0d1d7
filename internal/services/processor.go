package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Lllllllleong/ocrworker/internal/config"
	"github.com/Lllllllleong/ocrworker/internal/gcp"
	"github.com/Lllllllleong/ocrworker/internal/models"
)

// ProcessorConfig holds all configuration for the OCR processor.
type ProcessorConfig struct {
	StatusTable  string
	OutputBucket string
	OutputPrefix string
	MaxSyncPages int

	// GCP backend
	ProjectID      string
	VertexAIRegion string
	VertexAIModel  string
	GCSEndpoint    string

	// AWS backend
	S3Endpoint string
}

// LoadProcessorConfig loads and validates the environment shared by both backends.
func LoadProcessorConfig() (*ProcessorConfig, error) {
	statusTable := config.GetEnv("DDB_TABLE", "")
	if statusTable == "" {
		return nil, fmt.Errorf("DDB_TABLE environment variable must be set")
	}
	outputBucket := config.GetEnv("OUTPUT_BUCKET", "")
	if outputBucket == "" {
		return nil, fmt.Errorf("OUTPUT_BUCKET environment variable must be set")
	}
	maxPages, err := strconv.Atoi(config.GetEnv("MAX_SYNC_PAGES", "1"))
	if err != nil || maxPages < 0 {
		return nil, fmt.Errorf("MAX_SYNC_PAGES must be a non-negative integer")
	}

	return &ProcessorConfig{
		StatusTable:    statusTable,
		OutputBucket:   outputBucket,
		OutputPrefix:   config.GetEnv("OUTPUT_PREFIX", "processed/"),
		MaxSyncPages:   maxPages,
		ProjectID:      config.GetEnv("PROJECT_ID", ""),
		VertexAIRegion: config.GetEnv("VERTEX_AI_REGION", "us-central1"),
		VertexAIModel:  config.GetEnv("VERTEX_AI_MODEL", gcp.DefaultAnalyzerModel),
		GCSEndpoint:    config.GetEnv("GCS_ENDPOINT", ""),
		S3Endpoint:     config.GetEnv("S3_ENDPOINT", ""),
	}, nil
}

// ProcessorFunction holds the dependencies for processing notification batches.
type ProcessorFunction struct {
	invoker   *Invoker
	persister *Persister
	now       func() time.Time
}

// NewProcessor wires the pipeline from already constructed clients. source
// may be nil, which disables the PDF page check.
func NewProcessor(analyzer Analyzer, artifacts ArtifactStore, statuses StatusStore, source SourceOpener, cfg ProcessorConfig) *ProcessorFunction {
	return &ProcessorFunction{
		invoker:   NewInvoker(analyzer, NewPageGuard(source, cfg.MaxSyncPages)),
		persister: NewPersister(artifacts, statuses, cfg.OutputBucket, cfg.OutputPrefix),
		now:       time.Now,
	}
}

// Handle processes one delivered batch. A non-nil error tells the host to
// treat the batch as failed and redeliver it.
func (f *ProcessorFunction) Handle(ctx context.Context, envelopes []models.Envelope) (*models.Ack, error) {
	result := f.Process(ctx, envelopes)
	if err := result.Err(); err != nil {
		return nil, err
	}
	return &models.Ack{OK: true}, nil
}

// Process runs the batch one item at a time and stops at the first failure.
func (f *ProcessorFunction) Process(ctx context.Context, envelopes []models.Envelope) *BatchResult {
	slog.Info("Processing notification batch.", "envelopes", len(envelopes))
	result := &BatchResult{}

	index := 0
	for item, err := range DecodeNotifications(envelopes) {
		if err != nil {
			slog.Error("Failed to decode notification. Aborting batch.", "index", index, "error", err)
			result.Abort = &BatchAbort{Index: index, Err: err}
			return result
		}

		outcome := f.ProcessItem(ctx, item)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			slog.Warn("Aborting batch; remaining items are left for redelivery.", "index", index, "documentId", item.DocumentID())
			result.Abort = &BatchAbort{Index: index, Item: &item, Err: outcome.Err}
			return result
		}
		index++
	}

	slog.Info("Notification batch complete.", "processed", result.Processed())
	return result
}

// ProcessItem extracts, persists and records one work item. Exactly one
// status record write is attempted on every path.
func (f *ProcessorFunction) ProcessItem(ctx context.Context, item models.WorkItem) ItemOutcome {
	logCtx := slog.With("documentId", item.DocumentID(), "sourceBucket", item.SourceBucket, "sourceKey", item.SourceKey)
	logCtx.Info("Processing document.")
	createdAt := f.now()

	ex, err := f.invoker.Invoke(ctx, item)
	if err != nil {
		return f.handleError(ctx, logCtx, item, createdAt, "extraction failed", err)
	}
	logCtx.Info("Extraction complete.", "blocks", len(ex.Result.Blocks), "previewLength", len(ex.Preview))

	rec, err := f.persister.RecordSuccess(ctx, item, ex, createdAt)
	if err != nil {
		return f.handleError(ctx, logCtx, item, createdAt, "persisting result failed", err)
	}

	logCtx.Info("Document processed.", "outputBucket", *rec.OutputBucket, "outputKey", *rec.OutputKey)
	return ItemOutcome{Item: item, Record: rec}
}

// handleError writes the ERROR record and returns the failure for the batch.
// The record carries the cause's own message, the returned error adds context.
func (f *ProcessorFunction) handleError(ctx context.Context, logCtx *slog.Logger, item models.WorkItem, createdAt time.Time, message string, cause error) ItemOutcome {
	logCtx.Error(message, "error", cause)
	failure := fmt.Errorf("%s for %s: %w", message, item.DocumentID(), cause)

	rec, err := f.persister.RecordFailure(ctx, item, cause, createdAt)
	if err != nil {
		logCtx.Error("CRITICAL: Failed to write ERROR status after a processing error.", "statusError", err)
		return ItemOutcome{Item: item, Err: errors.Join(failure, err)}
	}
	return ItemOutcome{Item: item, Record: rec, Err: failure}
}
