package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPLLMClient posts a Gemini-style generateContent body to an arbitrary
// endpoint and probes the response envelope for text. Proxies and gateways
// in front of different providers answer in different shapes.
type HTTPLLMClient struct {
	client *resty.Client
	url    string
}

type httpPart struct {
	Text string `json:"text"`
}

type httpContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []httpPart `json:"parts"`
}

type httpGenerationConfig struct {
	MaxOutputTokens int32    `json:"maxOutputTokens,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty"`
	TopP            float32  `json:"topP,omitempty"`
}

type httpCompletionRequest struct {
	Model             string                `json:"model,omitempty"`
	Contents          []httpContent         `json:"contents"`
	SystemInstruction *httpContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *httpGenerationConfig `json:"generationConfig,omitempty"`
}

// NewHTTPLLMClient builds a client for url. apiKey, when set, is sent both as
// a bearer token and as x-goog-api-key.
func NewHTTPLLMClient(url, apiKey string, timeout time.Duration) (*HTTPLLMClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("conversation: llm http url is required")
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "robotics-consultant/1.0")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		client.SetAuthToken(key)
		client.SetHeader("x-goog-api-key", key)
	}
	return &HTTPLLMClient{client: client, url: url}, nil
}

func (c *HTTPLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	body := httpCompletionRequest{Model: req.Model}
	system := append([]string(nil), req.System...)
	for _, msg := range req.Messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case ChatRoleSystem:
			system = append(system, content)
		case ChatRoleAssistant:
			body.Contents = append(body.Contents, httpContent{Role: "model", Parts: []httpPart{{Text: content}}})
		default:
			body.Contents = append(body.Contents, httpContent{Role: "user", Parts: []httpPart{{Text: content}}})
		}
	}
	if len(body.Contents) == 0 {
		return LLMResponse{}, errors.New("conversation: llm http requires at least one message")
	}
	if joined := strings.TrimSpace(strings.Join(system, "\n\n")); joined != "" {
		body.SystemInstruction = &httpContent{Parts: []httpPart{{Text: joined}}}
	}
	cfg := httpGenerationConfig{MaxOutputTokens: req.MaxTokens, TopP: req.TopP}
	if req.Temperature >= 0 {
		t := req.Temperature
		cfg.Temperature = &t
	}
	body.GenerationConfig = &cfg

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.url)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("conversation: llm http request failed: %w", err)
	}
	if resp.IsError() {
		return LLMResponse{}, fmt.Errorf("conversation: llm http status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	text, err := ProbeCompletionText(resp.Body())
	if err != nil {
		return LLMResponse{}, err
	}
	return LLMResponse{Text: text}, nil
}

// ProbeCompletionText locates the reply text in a completion envelope. It
// tries candidates[0].content.parts[].text, then a top-level "text" string,
// then "content" as either a string or an object with a "text" field.
func ProbeCompletionText(raw []byte) (string, error) {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("conversation: llm http response is not a json object: %w", err)
	}

	if text := candidatePartsText(envelope); text != "" {
		return text, nil
	}
	if text, ok := envelope["text"].(string); ok && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}
	switch content := envelope["content"].(type) {
	case string:
		if strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content), nil
		}
	case map[string]any:
		if text, ok := content["text"].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}
	return "", ErrNoText
}

func candidatePartsText(envelope map[string]any) string {
	candidates, ok := envelope["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return ""
	}
	first, ok := candidates[0].(map[string]any)
	if !ok {
		return ""
	}
	content, ok := first["content"].(map[string]any)
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		part, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := part["text"].(string); ok {
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String())
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
