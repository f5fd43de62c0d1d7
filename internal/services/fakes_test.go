package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Lllllllleong/ocrworker/internal/models"
)

func strPtr(s string) *string { return &s }

type fakeAnalyzer struct {
	results map[string]*models.AnalysisResult
	errs    map[string]error
	calls   []models.WorkItem
}

func (f *fakeAnalyzer) Analyze(_ context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
	f.calls = append(f.calls, item)
	if err, ok := f.errs[item.SourceKey]; ok {
		return nil, err
	}
	if res, ok := f.results[item.SourceKey]; ok {
		cp := *res
		return &cp, nil
	}
	return &models.AnalysisResult{Raw: []byte(`{"Blocks":[]}`)}, nil
}

type memArtifacts struct {
	objects map[string][]byte
	err     error
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{objects: map[string][]byte{}}
}

func (m *memArtifacts) PutJSON(_ context.Context, bucket, key string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[bucket+"/"+key] = append([]byte(nil), body...)
	return nil
}

type memStatuses struct {
	records map[string]models.StatusRecord
	writes  []models.StatusRecord
	// failStatus makes writes with this status fail.
	failStatus string
}

func newMemStatuses() *memStatuses {
	return &memStatuses{records: map[string]models.StatusRecord{}}
}

func (m *memStatuses) PutStatus(_ context.Context, rec *models.StatusRecord) error {
	if m.failStatus != "" && rec.Status == m.failStatus {
		return errors.New("ProvisionedThroughputExceededException")
	}
	m.writes = append(m.writes, *rec)
	m.records[rec.DocumentID] = *rec
	return nil
}

type memSource struct {
	objects map[string]string
	opened  []string
}

func (m *memSource) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	m.opened = append(m.opened, bucket+"/"+key)
	body, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}
