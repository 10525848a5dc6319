package extract

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/tallyhq/tally/internal/logger"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// Gemini extracts transactions with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client. An empty apiKey falls back to the SDK's own
// environment lookup.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: modelName}, nil
}

// Extract sends the document inline with the extraction prompt.
func (g *Gemini) Extract(ctx context.Context, fileName string, data []byte) (Result, error) {
	mt, err := MIMEType(fileName)
	if err != nil {
		return Result{}, err
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mt, Data: data}},
			},
		},
	}

	log := logger.FromContext(ctx).With().Str("file", fileName).Str("model", g.model).Logger()
	log.Debug().Str("mime_type", mt).Int("bytes", len(data)).Msg("sending document for extraction")

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return Result{}, fmt.Errorf("generate content: %w", err)
	}

	res, err := ParseResponse(resp.Text())
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", fileName, err)
	}
	log.Debug().Int("rows", len(res.Rows)).Str("account_type", string(res.AccountType)).Msg("extraction complete")
	return res, nil
}
