package services

import (
	"fmt"

	"github.com/Lllllllleong/ocrworker/internal/models"
)

// ItemOutcome is the result of one work item. Err is nil on success. A failed
// item still carries its ERROR record when that write went through.
type ItemOutcome struct {
	Item   models.WorkItem
	Record *models.StatusRecord
	Err    error
}

// BatchAbort describes where a batch stopped. Item is nil when the batch
// stopped on a decode error.
type BatchAbort struct {
	Index int
	Item  *models.WorkItem
	Err   error
}

func (a *BatchAbort) Error() string {
	if a.Item == nil {
		return fmt.Sprintf("batch aborted at item %d: %v", a.Index, a.Err)
	}
	return fmt.Sprintf("batch aborted at item %d (%s): %v", a.Index, a.Item.DocumentID(), a.Err)
}

func (a *BatchAbort) Unwrap() error { return a.Err }

// BatchResult is either all succeeded (Abort == nil) or aborted at the first
// failing item. Items after the abort point were not attempted.
type BatchResult struct {
	Outcomes []ItemOutcome
	Abort    *BatchAbort
}

func (r *BatchResult) Succeeded() bool { return r.Abort == nil }

// Processed counts items that reached a DONE record.
func (r *BatchResult) Processed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Err maps an aborted batch onto the error handed back to the host, which
// then redelivers the batch.
func (r *BatchResult) Err() error {
	if r.Abort == nil {
		return nil
	}
	return r.Abort
}
