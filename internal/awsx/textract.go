package awsx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Lllllllleong/ocrworker/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// TextractAPI is the subset of *textract.Client the analyzer uses.
type TextractAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// TextractAnalyzer runs synchronous AnalyzeDocument calls with table and
// form analysis. Single images and single-page PDFs only.
type TextractAnalyzer struct {
	client TextractAPI
}

func NewTextractAnalyzer(client TextractAPI) *TextractAnalyzer {
	return &TextractAnalyzer{client: client}
}

// Analyze returns the response body exactly as Textract sent it in Raw.
func (a *TextractAnalyzer) Analyze(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
	capture := &responseBodyCapture{}
	out, err := a.client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(item.SourceBucket),
				Name:   aws.String(item.SourceKey),
			},
		},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables, types.FeatureTypeForms},
	}, func(o *textract.Options) {
		o.APIOptions = append(o.APIOptions, capture.addTo)
	})
	if err != nil {
		// Returned as is: the message lands in the ERROR status record.
		return nil, err
	}

	blocks := make([]models.Block, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		blocks = append(blocks, models.Block{BlockType: string(b.BlockType), Text: b.Text})
	}
	// Raw stays empty when the client never hit the wire; the invoker then
	// serializes the blocks.
	return &models.AnalysisResult{Raw: capture.body, Blocks: blocks}, nil
}

// responseBodyCapture is a deserialize middleware that copies the HTTP
// response body before the operation deserializer consumes it. Added last,
// it sits next to the transport and sees every attempt; the final one wins.
type responseBodyCapture struct {
	body []byte
}

func (c *responseBodyCapture) ID() string { return "CaptureResponseBody" }

func (c *responseBodyCapture) addTo(stack *middleware.Stack) error {
	return stack.Deserialize.Add(c, middleware.After)
}

func (c *responseBodyCapture) HandleDeserialize(ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler) (middleware.DeserializeOutput, middleware.Metadata, error) {
	out, metadata, err := next.HandleDeserialize(ctx, in)
	if err != nil {
		return out, metadata, err
	}

	resp, ok := out.RawResponse.(*smithyhttp.Response)
	if !ok || resp.Body == nil {
		return out, metadata, nil
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return out, metadata, fmt.Errorf("failed to read textract response body: %w", readErr)
	}
	c.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return out, metadata, nil
}
