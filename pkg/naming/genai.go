package naming

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/abrezinsky/rosterdraw/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

// teamsSchema constrains the model to an array of {name, motto}
var teamsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":  {Type: genai.TypeString},
			"motto": {Type: genai.TypeString},
		},
		Required: []string{"name", "motto"},
	},
}

// GenAIClient generates team names with Google's Gemini API
type GenAIClient struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

// NewGenAIClient creates a Gemini-backed naming client
func NewGenAIClient(ctx context.Context, apiKey, model string, log logger.Logger) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model, log: log}, nil
}

func (c *GenAIClient) RequestNames(ctx context.Context, count int) ([]Team, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt(count)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   teamsSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GenAI generate failed: %v", ErrUnavailable, err)
	}

	text := result.Text()
	c.log.Debug("GenAI naming response", "model", c.model, "count", count, "bytes", len(text))
	return parseTeams([]byte(text))
}

// Name returns the engine name
func (c *GenAIClient) Name() string {
	return fmt.Sprintf("genai:%s", c.model)
}
