package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (s *stubConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.input = params
	return s.out, s.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(10),
			OutputTokens: aws.Int32(5),
			TotalTokens:  aws.Int32(15),
		},
	}
}

func TestBedrockLLMClient_Complete(t *testing.T) {
	api := &stubConverse{out: textOutput(" We recommend DeliveryBot S2. ")}
	client, err := NewBedrockLLMClient(api, "anthropic.claude-3-haiku")
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), LLMRequest{
		System:      []string{"be brief"},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
		MaxTokens:   256,
		Temperature: 0.4,
	})

	require.NoError(t, err)
	assert.Equal(t, "We recommend DeliveryBot S2.", resp.Text)
	assert.Equal(t, int32(15), resp.Usage.TotalTokens)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.input.ModelId))
	require.Len(t, api.input.Messages, 1)
	require.Len(t, api.input.System, 1)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(256), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
}

func TestBedrockLLMClient_RequestModelOverrides(t *testing.T) {
	api := &stubConverse{out: textOutput("ok")}
	client, err := NewBedrockLLMClient(api, "default-model")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), PromptRequest("other-model", "hi", 0, -1))

	require.NoError(t, err)
	assert.Equal(t, "other-model", aws.ToString(api.input.ModelId))
	assert.Nil(t, api.input.InferenceConfig)
}

func TestBedrockLLMClient_Errors(t *testing.T) {
	_, err := NewBedrockLLMClient(nil, "m")
	assert.Error(t, err)
	_, err = NewBedrockLLMClient(&stubConverse{}, "")
	assert.Error(t, err)

	failing, err := NewBedrockLLMClient(&stubConverse{err: errors.New("throttled")}, "m")
	require.NoError(t, err)
	_, err = failing.Complete(context.Background(), PromptRequest("", "hi", 0, -1))
	assert.ErrorContains(t, err, "throttled")

	empty, err := NewBedrockLLMClient(&stubConverse{out: textOutput("  ")}, "m")
	require.NoError(t, err)
	_, err = empty.Complete(context.Background(), PromptRequest("", "hi", 0, -1))
	assert.ErrorIs(t, err, ErrNoText)

	client, err := NewBedrockLLMClient(&stubConverse{out: textOutput("x")}, "m")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), LLMRequest{Messages: []ChatMessage{{Role: "tool", Content: "x"}}})
	assert.Error(t, err)
}
