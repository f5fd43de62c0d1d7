package gcp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/ocrworker/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreStatusStore keeps one status document per source object.
type FirestoreStatusStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStatusStore(client *firestore.Client, collection string) *FirestoreStatusStore {
	return &FirestoreStatusStore{client: client, collection: collection}
}

// PutStatus replaces the document for rec.DocumentID with rec.
func (s *FirestoreStatusStore) PutStatus(ctx context.Context, rec *models.StatusRecord) error {
	docID := StatusDocID(rec.DocumentID)
	if _, err := s.client.Collection(s.collection).Doc(docID).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to write status document %s: %w", docID, err)
	}
	return nil
}

// StatusDocID maps a "bucket/key" document id onto a Firestore document id.
// Firestore ids cannot contain '/', so the id is the hex sha256 of the
// original; the original stays readable in the DocumentId field.
func StatusDocID(documentID string) string {
	sum := sha256.Sum256([]byte(documentID))
	return hex.EncodeToString(sum[:])
}
