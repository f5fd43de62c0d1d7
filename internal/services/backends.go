package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/ocrworker/internal/awsx"
	"github.com/Lllllllleong/ocrworker/internal/gcp"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/textract"
)

// NewGCPProcessor builds a processor on Vertex AI, GCS and Firestore.
// DDB_TABLE names the Firestore collection.
func NewGCPProcessor(ctx context.Context) (*ProcessorFunction, error) {
	config, err := LoadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	storageClient, err := gcp.NewStorageClient(ctx, config.GCSEndpoint)
	if err != nil {
		return nil, err
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion, config.VertexAIModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	gcs := gcp.NewGCSStore(storageClient)
	f := NewProcessor(vertexClient, gcs, gcp.NewFirestoreStatusStore(firestoreClient, config.StatusTable), gcs, *config)
	slog.Info("OCR processor initialized.", "backend", "gcp", "outputBucket", config.OutputBucket, "collection", config.StatusTable, "model", config.VertexAIModel)
	return f, nil
}

// NewAWSProcessor builds a processor on Textract, S3 and DynamoDB.
func NewAWSProcessor(ctx context.Context) (*ProcessorFunction, error) {
	config, err := LoadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	awsCfg, err := awsx.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	s3Store := awsx.NewS3Store(awsx.NewS3Client(awsCfg, config.S3Endpoint))
	analyzer := awsx.NewTextractAnalyzer(textract.NewFromConfig(awsCfg))
	statuses := awsx.NewDynamoStatusStore(dynamodb.NewFromConfig(awsCfg), config.StatusTable)

	f := NewProcessor(analyzer, s3Store, statuses, s3Store, *config)
	slog.Info("OCR processor initialized.", "backend", "aws", "region", awsCfg.Region, "outputBucket", config.OutputBucket, "table", config.StatusTable)
	return f, nil
}
