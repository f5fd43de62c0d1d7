package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/Lllllllleong/ocrworker/internal/models"
)

// DecodeError reports an envelope or record that could not be turned into a
// work item. No status record can be written for it because the document id
// is unknown.
type DecodeError struct {
	Envelope  int
	Record    int // -1 when the envelope body itself is malformed
	MessageID string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("decode envelope %d (message %q): %v", e.Envelope, e.MessageID, e.Err)
	}
	return fmt.Sprintf("decode envelope %d (message %q) record %d: %v", e.Envelope, e.MessageID, e.Record, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeNotifications flattens a batch of envelopes into work items, in
// envelope order and then record order. Bodies are parsed only when the
// iteration reaches them. The first decode failure is yielded once and ends
// the sequence.
func DecodeNotifications(envelopes []models.Envelope) iter.Seq2[models.WorkItem, error] {
	return func(yield func(models.WorkItem, error) bool) {
		for i, env := range envelopes {
			notification, err := parseBody(env.Body)
			if err != nil {
				yield(models.WorkItem{}, &DecodeError{Envelope: i, Record: -1, MessageID: env.MessageID, Err: err})
				return
			}
			for j, rec := range notification.Records {
				item, err := workItemFromRecord(rec)
				if err != nil {
					yield(models.WorkItem{}, &DecodeError{Envelope: i, Record: j, MessageID: env.MessageID, Err: err})
					return
				}
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

func parseBody(body string) (*models.StorageNotification, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("empty message body")
	}
	var n models.StorageNotification
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return nil, fmt.Errorf("malformed storage notification: %w", err)
	}
	return &n, nil
}

func workItemFromRecord(rec models.StorageEventRecord) (models.WorkItem, error) {
	if rec.S3 == nil || rec.S3.Bucket == nil || rec.S3.Bucket.Name == "" {
		return models.WorkItem{}, errors.New("missing s3.bucket.name")
	}
	if rec.S3.Object == nil || rec.S3.Object.Key == nil {
		return models.WorkItem{}, errors.New("missing s3.object.key")
	}
	// Notifications form-encode keys: spaces arrive as '+'.
	key, err := url.QueryUnescape(*rec.S3.Object.Key)
	if err != nil {
		return models.WorkItem{}, fmt.Errorf("undecodable object key %q: %w", *rec.S3.Object.Key, err)
	}
	return models.WorkItem{SourceBucket: rec.S3.Bucket.Name, SourceKey: key}, nil
}
