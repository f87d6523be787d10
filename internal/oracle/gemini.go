package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const classifyPrompt = `You triage inbound messages for a pet boarding business.
Reply with a single JSON object and nothing else:
{"label":"booking"|"other","score":0.0-1.0}
"booking" means the sender is asking to schedule, change, or confirm a stay,
daycare, or drop-in visit. Greetings, thanks, spam, and general questions are
"other". Message:
`

// GeminiOracle classifies messages with Google's Gemini API.
type GeminiOracle struct {
	client  *genai.Client
	modelID string
}

// NewGeminiOracle creates a Gemini-backed oracle.
func NewGeminiOracle(ctx context.Context, apiKey, modelID string) (*GeminiOracle, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("oracle: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("oracle: failed to create gemini client: %w", err)
	}
	return &GeminiOracle{client: client, modelID: modelID}, nil
}

// Close releases the underlying API client.
func (o *GeminiOracle) Close() error {
	return o.client.Close()
}

// Classify asks the model for a booking/other verdict on the text.
func (o *GeminiOracle) Classify(ctx context.Context, text string) (Classification, error) {
	model := o.client.GenerativeModel(o.modelID)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(classifyPrompt+text))
	if err != nil {
		return Classification{}, fmt.Errorf("oracle: gemini classification failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Classification{}, errors.New("oracle: gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			raw.WriteString(string(t))
		}
	}
	return parseVerdict(raw.String())
}

// parseVerdict tolerates code fences and surrounding prose around the JSON
// object the prompt asks for.
func parseVerdict(raw string) (Classification, error) {
	trimmed := strings.TrimSpace(raw)
	if lo := strings.Index(trimmed, "{"); lo >= 0 {
		if hi := strings.LastIndex(trimmed, "}"); hi > lo {
			trimmed = trimmed[lo : hi+1]
		}
	}

	var verdict struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(trimmed), &verdict); err != nil {
		return Classification{}, fmt.Errorf("oracle: unparseable verdict %q: %w", raw, err)
	}
	if verdict.Label != "booking" {
		verdict.Label = "other"
	}
	return Classification{Label: verdict.Label, Score: verdict.Score, Payload: []byte(trimmed)}, nil
}
