package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/robotics-consultant/internal/config"
	"github.com/wolfman30/robotics-consultant/internal/conversation"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

func baseConfig() *appconfig.Config {
	return &appconfig.Config{
		HistoryWindow:       20,
		ConversationIdleTTL: 2 * time.Hour,
		StrategyOrder:       []string{appconfig.StrategyLLM, appconfig.StrategyRules},
		LLMProvider:         appconfig.ProviderNone,
		LLMTimeout:          time.Second,
		LLMMaxTokens:        200,
		LLMTemperature:      0.2,
		AWSRegion:           "us-east-1",
	}
}

type cannedLLM struct{ text string }

func (c cannedLLM) Complete(context.Context, conversation.LLMRequest) (conversation.LLMResponse, error) {
	return conversation.LLMResponse{Text: c.text}, nil
}

func TestBuildLLMClientRequiresConfig(t *testing.T) {
	_, err := BuildLLMClient(context.Background(), nil, logging.Discard())
	assert.Error(t, err)
}

func TestBuildLLMClientNoneLeavesClientNil(t *testing.T) {
	llm, err := BuildLLMClient(context.Background(), baseConfig(), logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, llm.Client)
	assert.NoError(t, llm.Close())
}

func TestBuildLLMClientSkipsMisconfiguredProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = appconfig.ProviderGemini
	cfg.GeminiAPIKey = ""

	llm, err := BuildLLMClient(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, llm.Client)
}

func TestBuildLLMClientHTTPProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = appconfig.ProviderHTTP
	cfg.LLMHTTPURL = "http://127.0.0.1:1/v1/generate"

	llm, err := BuildLLMClient(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &conversation.HTTPLLMClient{}, llm.Client)
}

func TestBuildLLMClientBedrockWithStaticCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = appconfig.ProviderBedrock
	cfg.BedrockModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	cfg.AWSAccessKeyID = "AKIDEXAMPLE"
	cfg.AWSSecretAccessKey = "secret"

	llm, err := BuildLLMClient(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	require.IsType(t, &conversation.BedrockLLMClient{}, llm.Client)
	assert.Equal(t, cfg.BedrockModelID, llm.Model)
}

func TestBuildLLMClientWrapsPrimaryAndFallback(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = appconfig.ProviderHTTP
	cfg.LLMHTTPURL = "http://127.0.0.1:1/v1/generate"
	cfg.LLMFallbackProvider = appconfig.ProviderBedrock
	cfg.BedrockModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	cfg.AWSAccessKeyID = "AKIDEXAMPLE"
	cfg.AWSSecretAccessKey = "secret"

	llm, err := BuildLLMClient(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	fb, ok := llm.Client.(*conversation.FallbackLLMClient)
	require.True(t, ok, "got %T", llm.Client)
	assert.Equal(t, 2, fb.Len())
	assert.Equal(t, cfg.BedrockModelID, llm.Model)
}

func TestBuildEngineRequiresConfig(t *testing.T) {
	_, err := BuildEngine(nil, nil, "", nil, logging.Discard())
	assert.Error(t, err)
}

func TestBuildEngineRulesWhenNoLLM(t *testing.T) {
	engine, err := BuildEngine(baseConfig(), nil, "", nil, logging.Discard())
	require.NoError(t, err)

	reply := engine.ProcessMessage(context.Background(), conversation.MessageRequest{
		Message: "We run a hospital and need cleaning robots",
	})
	assert.Equal(t, conversation.StrategyRules, reply.Strategy)
	assert.Equal(t, conversation.ConfidenceRules, reply.Confidence)
}

func TestBuildEngineLogsAsConsultantComponent(t *testing.T) {
	var buf bytes.Buffer
	_, err := BuildEngine(baseConfig(), nil, "", nil, logging.NewWithWriter(&buf, "info"))
	require.NoError(t, err)

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "consultant engine configured" {
			found = true
			assert.Equal(t, "consultant", entry["component"])
		}
	}
	assert.True(t, found)
}

func TestBuildEngineUsesLLMFirst(t *testing.T) {
	engine, err := BuildEngine(baseConfig(), cannedLLM{text: "CleanBot Pro is a great fit. What is your budget?"}, "test-model", nil, logging.Discard())
	require.NoError(t, err)

	reply := engine.ProcessMessage(context.Background(), conversation.MessageRequest{Message: "hello"})
	assert.Equal(t, conversation.StrategyLLM, reply.Strategy)
	require.NotNil(t, reply.Recommendations)
	assert.Equal(t, []string{"CleanBot Pro"}, reply.Recommendations.Robots)
}

func TestBuildEngineHonoursStrategyOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.StrategyOrder = []string{appconfig.StrategyRules, appconfig.StrategyLLM}
	engine, err := BuildEngine(cfg, cannedLLM{text: "unused"}, "", nil, logging.Discard())
	require.NoError(t, err)

	reply := engine.ProcessMessage(context.Background(), conversation.MessageRequest{Message: "hello"})
	assert.Equal(t, conversation.StrategyRules, reply.Strategy)
}

func TestBuildEngineHistoryWindow(t *testing.T) {
	cfg := baseConfig()
	cfg.HistoryWindow = 4
	engine, err := BuildEngine(cfg, nil, "", nil, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, 4, engine.Store().Window())
}

func TestBuildEngineRejectsUnknownStrategy(t *testing.T) {
	cfg := baseConfig()
	cfg.StrategyOrder = []string{"oracle"}

	_, err := BuildEngine(cfg, nil, "", nil, logging.Discard())
	assert.ErrorContains(t, err, "oracle")
}

func TestBuildEngineCatalogPath(t *testing.T) {
	cfg := baseConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := BuildEngine(cfg, nil, "", nil, logging.Discard())
	assert.Error(t, err)

	data, err := os.ReadFile(filepath.Join("..", "..", "catalog", "catalog.yaml"))
	require.NoError(t, err)
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(cfg.CatalogPath, data, 0o600))

	_, err = BuildEngine(cfg, nil, "", nil, logging.Discard())
	assert.NoError(t, err)
}
