package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Lllllllleong/ocrworker/internal/logging"
	"github.com/Lllllllleong/ocrworker/internal/models"
	"github.com/Lllllllleong/ocrworker/internal/services"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var (
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func main() {
	logging.Setup()
	lambda.Start(handleSQSEvent)
}

// handleSQSEvent processes one SQS batch. Returning an error leaves every
// message in the batch on the queue for redelivery and, eventually, the DLQ.
func handleSQSEvent(ctx context.Context, event events.SQSEvent) (*models.Ack, error) {
	once.Do(func() {
		processorInstance, initErr = services.NewAWSProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return nil, initErr
	}

	envelopes := make([]models.Envelope, 0, len(event.Records))
	for _, record := range event.Records {
		envelopes = append(envelopes, models.Envelope{MessageID: record.MessageId, Body: record.Body})
	}
	return processorInstance.Handle(ctx, envelopes)
}
