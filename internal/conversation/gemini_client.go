package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiLLMClient implements LLMClient using Google's Gemini API.
type GeminiLLMClient struct {
	client  *genai.Client
	modelID string
}

// NewGeminiLLMClient creates a new Gemini LLM client.
func NewGeminiLLMClient(ctx context.Context, apiKey, modelID string) (*GeminiLLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}
	return &GeminiLLMClient{client: client, modelID: modelID}, nil
}

// Model returns the model id used when a request names none.
func (c *GeminiLLMClient) Model() string {
	return c.modelID
}

// Complete sends the final message of req to Gemini with the earlier ones
// replayed as chat history.
func (c *GeminiLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if len(req.Messages) == 0 {
		return LLMResponse{}, errors.New("conversation: gemini requires at least one message")
	}
	last := req.Messages[len(req.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return LLMResponse{}, errors.New("conversation: gemini prompt is empty")
	}

	modelID := c.modelID
	if strings.TrimSpace(req.Model) != "" {
		modelID = req.Model
	}
	model := c.client.GenerativeModel(modelID)
	if req.Temperature >= 0 {
		model.SetTemperature(req.Temperature)
	}
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if system := strings.TrimSpace(strings.Join(req.System, "\n\n")); system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	cs := model.StartChat()
	for _, msg := range req.Messages[:len(req.Messages)-1] {
		content := strings.TrimSpace(msg.Content)
		if content == "" || msg.Role == ChatRoleSystem {
			continue
		}
		role := "user"
		if msg.Role == ChatRoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return LLMResponse{StopReason: StopReasonFiltered}, fmt.Errorf("%w: gemini %s", ErrContentFiltered, blocked.Error())
		}
		return LLMResponse{}, fmt.Errorf("conversation: gemini completion failed: %w", err)
	}
	return geminiResponse(resp)
}

// geminiResponse turns the first candidate into an LLMResponse. A reply cut
// off or filtered before any text is an error so the chain can fall through.
func geminiResponse(resp *genai.GenerateContentResponse) (LLMResponse, error) {
	if resp == nil {
		return LLMResponse{}, fmt.Errorf("%w: gemini returned no response", ErrNoText)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return LLMResponse{StopReason: StopReasonFiltered}, fmt.Errorf("%w: gemini prompt %s", ErrContentFiltered, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return LLMResponse{}, fmt.Errorf("%w: gemini returned no candidates", ErrNoText)
	}
	candidate := resp.Candidates[0]
	out := LLMResponse{StopReason: geminiStopReason(candidate.FinishReason)}
	if resp.UsageMetadata != nil {
		out.Usage = TokenUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}

	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	out.Text = strings.TrimSpace(text.String())
	if out.Text == "" {
		if out.StopReason == StopReasonFiltered {
			return out, fmt.Errorf("%w: gemini candidate %s", ErrContentFiltered, candidate.FinishReason)
		}
		return out, fmt.Errorf("%w: gemini candidate finished with %s", ErrNoText, out.StopReason)
	}
	return out, nil
}

// geminiStopReason maps Gemini finish reasons onto the stop reasons Bedrock
// reports, so callers see one vocabulary across providers.
func geminiStopReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonStop:
		return StopReasonEndTurn
	case genai.FinishReasonMaxTokens:
		return StopReasonMaxTokens
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return StopReasonFiltered
	case genai.FinishReasonUnspecified:
		return ""
	default:
		return strings.ToLower(r.String())
	}
}

// Close releases resources held by the Gemini client.
func (c *GeminiLLMClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
