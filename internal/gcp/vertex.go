package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/ocrworker/internal/models"
)

// --- Analyzer Model Prompts ---
const AnalyzerSystemPrompt = "You are a document OCR engine. You read a scanned image or a short document and report its layout as typed blocks. You must output your response as a single valid JSON object."
const AnalyzerUserPrompt = `Analyze the provided document and return its structure.

Follow these rules precisely:
1.  Return a JSON object with exactly one key, "Blocks", holding an array.
2.  Each element of "Blocks" is an object with a "BlockType" string and, where the block carries text, a "Text" string.
3.  Use these block types: "PAGE" for each page, "LINE" for every line of text in reading order, "WORD" for each word, "TABLE" and "CELL" for tabular content, "KEY_VALUE_SET" for form fields.
4.  Copy text exactly as printed. Do not translate, summarize or correct it.
5.  Do not include any text before or after the JSON object.

Example output format:
{
  "Blocks": [
    {"BlockType": "PAGE"},
    {"BlockType": "LINE", "Text": "INVOICE 0042"},
    {"BlockType": "WORD", "Text": "INVOICE"},
    {"BlockType": "WORD", "Text": "0042"}
  ]
}`

const DefaultAnalyzerModel = "gemini-1.5-pro"

// VertexClient analyzes documents stored in GCS with a Gemini model.
type VertexClient struct {
	AnalyzerModel *genai.GenerativeModel
	baseClient    *genai.Client
}

// NewVertexClient creates a new client holding the pre-configured analyzer model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultAnalyzerModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	analyzerModel := baseClient.GenerativeModel(modelName)
	analyzerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(AnalyzerSystemPrompt)},
	}
	analyzerModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &VertexClient{
		AnalyzerModel: analyzerModel,
		baseClient:    baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Analyze runs one synchronous generation over gs://bucket/key and returns the
// model's block document.
func (c *VertexClient) Analyze(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
	filePart := genai.FileData{
		MIMEType: MIMETypeForKey(item.SourceKey),
		FileURI:  fmt.Sprintf("gs://%s/%s", item.SourceBucket, item.SourceKey),
	}

	resp, err := c.AnalyzerModel.GenerateContent(ctx, filePart, genai.Text(AnalyzerUserPrompt))
	if err != nil {
		return nil, err
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini returned no content for gs://%s/%s", item.SourceBucket, item.SourceKey)
	}
	return ParseAnalysis(text)
}

// ParseAnalysis decodes a {"Blocks": [...]} document. Raw keeps the whole
// document, compacted.
func ParseAnalysis(text string) (*models.AnalysisResult, error) {
	var doc struct {
		Blocks []models.Block `json:"Blocks"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, []byte(text)); err != nil {
		return nil, fmt.Errorf("failed to compact analysis JSON: %w", err)
	}

	return &models.AnalysisResult{Raw: raw.Bytes(), Blocks: doc.Blocks}, nil
}

// responseText concatenates the text parts of the first candidate and strips
// any code fences the model wrapped around the JSON.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	var textParts int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			textParts++
		}
	}
	if textParts > 1 {
		slog.Warn("Gemini response contained multiple text parts; they have been concatenated.", "parts", textParts)
	}

	content := strings.TrimSpace(sb.String())
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// MIMETypeForKey guesses the document MIME type from the object key extension.
func MIMETypeForKey(key string) string {
	if mt, ok := mimeTypes[strings.ToLower(path.Ext(key))]; ok {
		return mt
	}
	return "application/octet-stream"
}
