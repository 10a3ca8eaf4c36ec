package vision

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig selects the Gemini model and how to reach it. With Vertex set the client talks
// to Vertex AI in Project and Location; otherwise it uses APIKey against the Gemini API.
type GeminiConfig struct {
	Model    string
	APIKey   string
	Vertex   bool
	Project  string
	Location string
}

// contentGenerator is the part of *genai.Models used by Gemini.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini extracts form text by prompting a Gemini model with the image.
type Gemini struct {
	models contentGenerator
	model  string
	retry  RetryPolicy
	logger *zap.Logger
}

// NewGemini creates a Gemini API client.
func NewGemini(ctx context.Context, cfg GeminiConfig, retry RetryPolicy, logger *zap.Logger) (*Gemini, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Vertex {
		clientConfig = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGemini(client.Models, cfg.Model, retry, logger), nil
}

func newGemini(models contentGenerator, model string, retry RetryPolicy, logger *zap.Logger) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{models: models, model: model, retry: retry, logger: logger}
}

// Extract sends the prompt and image in one user turn and returns the concatenated text of
// the answer. Transient failures are retried according to the retry policy.
func (g *Gemini) Extract(ctx context.Context, img Image) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt()),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	err := g.retry.Do(ctx, g.logger, func(ctx context.Context) error {
		var err error
		resp, err = g.models.GenerateContent(ctx, g.model, contents, nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrNoContent
	}
	g.logger.Debug("gemini extraction complete",
		zap.String("image", img.Name),
		zap.String("model", g.model),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
