package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/ocrworker/internal/logging"
	"github.com/Lllllllleong/ocrworker/internal/models"
	"github.com/Lllllllleong/ocrworker/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func init() {
	logging.Setup()

	// Triggered by a Pub/Sub subscription. The message data must be an S3-style
	// event notification (Records[].s3.bucket.name, Records[].s3.object.key), as
	// sent by the upload relay that publishes to the topic. Native GCS object
	// notifications (top-level bucket/name) are not accepted: they carry no
	// Records, so they decode to zero items and nothing is processed.
	functions.CloudEvent("ProcessDocumentNotification", processDocumentNotification)
}

// main is required by the Go Functions Framework.
func main() {}

// processDocumentNotification is the Cloud Function entry point. Returning an
// error makes Pub/Sub redeliver the message.
func processDocumentNotification(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		processorInstance, initErr = services.NewGCPProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var msg models.PubSubMessagePublished
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "eventId", e.ID())
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	envelopes := []models.Envelope{{
		MessageID: msg.Message.MessageID,
		Body:      string(msg.Message.Data),
	}}
	// The error is already logged with context inside Process.
	_, err := processorInstance.Handle(ctx, envelopes)
	return err
}
