package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lllllllleong/ocrworker/internal/models"
)

// ArtifactStore writes raw analysis output. Implementations overwrite and
// label the object as application/json.
type ArtifactStore interface {
	PutJSON(ctx context.Context, bucket, key string, body []byte) error
}

// StatusStore writes status records, replacing any earlier record with the
// same DocumentID.
type StatusStore interface {
	PutStatus(ctx context.Context, rec *models.StatusRecord) error
}

// artifactSuffix is appended to the source file name to form the output key.
const artifactSuffix = ".textract.json"

// Persister writes the artifact and status record for a processed item.
type Persister struct {
	artifacts    ArtifactStore
	statuses     StatusStore
	outputBucket string
	outputPrefix string
}

func NewPersister(artifacts ArtifactStore, statuses StatusStore, outputBucket, outputPrefix string) *Persister {
	return &Persister{
		artifacts:    artifacts,
		statuses:     statuses,
		outputBucket: outputBucket,
		outputPrefix: outputPrefix,
	}
}

// OutputKey is where the artifact for sourceKey is stored.
func OutputKey(prefix, sourceKey string) string {
	return prefix + basename(sourceKey) + artifactSuffix
}

func basename(key string) string {
	parts := strings.Split(key, "/")
	return parts[len(parts)-1]
}

// RecordSuccess writes the artifact and then the DONE record. If the artifact
// write fails no DONE record is written.
func (p *Persister) RecordSuccess(ctx context.Context, item models.WorkItem, ex *Extraction, createdAt time.Time) (*models.StatusRecord, error) {
	outputKey := OutputKey(p.outputPrefix, item.SourceKey)
	if err := p.artifacts.PutJSON(ctx, p.outputBucket, outputKey, ex.Result.Raw); err != nil {
		return nil, fmt.Errorf("failed to write artifact %s/%s: %w", p.outputBucket, outputKey, err)
	}

	outputBucket := p.outputBucket
	preview := ex.Preview
	rec := &models.StatusRecord{
		DocumentID:     item.DocumentID(),
		Status:         models.StatusDone,
		SourceBucket:   item.SourceBucket,
		SourceKey:      item.SourceKey,
		CreatedAtEpoch: createdAt.Unix(),
		OutputBucket:   &outputBucket,
		OutputKey:      &outputKey,
		TextPreview:    &preview,
	}
	if err := p.statuses.PutStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to write DONE status: %w", err)
	}
	return rec, nil
}

// RecordFailure writes the ERROR record for item with the cause's message.
func (p *Persister) RecordFailure(ctx context.Context, item models.WorkItem, cause error, createdAt time.Time) (*models.StatusRecord, error) {
	msg := Truncate(cause.Error(), MaxFieldLength)
	rec := &models.StatusRecord{
		DocumentID:     item.DocumentID(),
		Status:         models.StatusError,
		SourceBucket:   item.SourceBucket,
		SourceKey:      item.SourceKey,
		CreatedAtEpoch: createdAt.Unix(),
		Error:          &msg,
	}
	if err := p.statuses.PutStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to write ERROR status: %w", err)
	}
	return rec, nil
}
