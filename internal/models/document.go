package models

// Status values written to the status table.
const (
	StatusDone  = "DONE"
	StatusError = "ERROR"
)

// WorkItem identifies one uploaded object to run through extraction.
// It is derived from a storage notification and never persisted itself.
type WorkItem struct {
	SourceBucket string
	SourceKey    string
}

// DocumentID is the status table primary key for the item.
func (w WorkItem) DocumentID() string {
	return w.SourceBucket + "/" + w.SourceKey
}

// StatusRecord is the latest-attempt outcome for a document. Every attempt
// overwrites the previous record for the same DocumentID.
// Output fields are set only on DONE, Error only on ERROR.
type StatusRecord struct {
	DocumentID     string  `firestore:"DocumentId" dynamodbav:"DocumentId" json:"DocumentId"`
	Status         string  `firestore:"Status" dynamodbav:"Status" json:"Status"`
	SourceBucket   string  `firestore:"SourceBucket" dynamodbav:"SourceBucket" json:"SourceBucket"`
	SourceKey      string  `firestore:"SourceKey" dynamodbav:"SourceKey" json:"SourceKey"`
	CreatedAtEpoch int64   `firestore:"CreatedAtEpoch" dynamodbav:"CreatedAtEpoch" json:"CreatedAtEpoch"`
	OutputBucket   *string `firestore:"OutputBucket,omitempty" dynamodbav:"OutputBucket,omitempty" json:"OutputBucket,omitempty"`
	OutputKey      *string `firestore:"OutputKey,omitempty" dynamodbav:"OutputKey,omitempty" json:"OutputKey,omitempty"`
	TextPreview    *string `firestore:"TextPreview,omitempty" dynamodbav:"TextPreview,omitempty" json:"TextPreview,omitempty"`
	Error          *string `firestore:"Error,omitempty" dynamodbav:"Error,omitempty" json:"Error,omitempty"`
}
