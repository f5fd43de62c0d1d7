package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/ocrworker/internal/models"
)

// Analyzer is the external document-analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error)
}

// Extraction is the invoker's output for one work item.
type Extraction struct {
	Result  *models.AnalysisResult
	Preview string
}

// Invoker runs the optional page check and the analysis call for one item.
type Invoker struct {
	analyzer Analyzer
	guard    *PageGuard
}

func NewInvoker(analyzer Analyzer, guard *PageGuard) *Invoker {
	return &Invoker{analyzer: analyzer, guard: guard}
}

// Invoke returns analyzer errors unwrapped so the status record shows the
// service's own message.
func (inv *Invoker) Invoke(ctx context.Context, item models.WorkItem) (*Extraction, error) {
	if err := inv.guard.Check(ctx, item); err != nil {
		return nil, err
	}

	result, err := inv.analyzer.Analyze(ctx, item)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("analyzer returned no result")
	}
	if len(result.Raw) == 0 {
		raw, err := json.Marshal(struct {
			Blocks []models.Block `json:"Blocks"`
		}{result.Blocks})
		if err != nil {
			return nil, fmt.Errorf("failed to serialize analysis result: %w", err)
		}
		result.Raw = raw
	}

	return &Extraction{Result: result, Preview: TextPreview(result.Blocks)}, nil
}

// TextPreview joins the text of LINE blocks with newlines, in service order,
// and truncates the result to MaxFieldLength characters. Blocks without text
// are skipped.
func TextPreview(blocks []models.Block) string {
	var lines []string
	for _, b := range blocks {
		if b.BlockType != "LINE" || b.Text == nil || *b.Text == "" {
			continue
		}
		lines = append(lines, *b.Text)
	}
	return Truncate(strings.Join(lines, "\n"), MaxFieldLength)
}
