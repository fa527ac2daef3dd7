package conversation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCompletionText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{"candidates parts", `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"there"}]}}]}`, "Hello there", nil},
		{"direct text", `{"text":"plain reply"}`, "plain reply", nil},
		{"content string", `{"content":"content reply"}`, "content reply", nil},
		{"content object", `{"content":{"text":"nested reply"}}`, "nested reply", nil},
		{"candidates win over text", `{"candidates":[{"content":{"parts":[{"text":"first"}]}}],"text":"second"}`, "first", nil},
		{"empty candidates fall through", `{"candidates":[],"text":"fallback"}`, "fallback", nil},
		{"no text anywhere", `{"result":"ok"}`, "", ErrNoText},
		{"blank text", `{"text":"   "}`, "", ErrNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProbeCompletionText([]byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbeCompletionText_NotJSON(t *testing.T) {
	_, err := ProbeCompletionText([]byte("<html>"))
	assert.Error(t, err)
}

func TestHTTPLLMClient_Complete(t *testing.T) {
	var got httpCompletionRequest
	var auth, apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		apiKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"We recommend CleanBot Pro."}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPLLMClient(srv.URL, "secret", time.Second)
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), PromptRequest("m1", "prompt text", 100, 0.3))

	require.NoError(t, err)
	assert.Equal(t, "We recommend CleanBot Pro.", resp.Text)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, "m1", got.Model)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "prompt text", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, int32(100), got.GenerationConfig.MaxOutputTokens)
}

func TestHTTPLLMClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewHTTPLLMClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), PromptRequest("", "hi", 0, -1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPLLMClient_UnrecognisedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"openai shape"}}]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPLLMClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), PromptRequest("", "hi", 0, -1))

	assert.ErrorIs(t, err, ErrNoText)
}

func TestNewHTTPLLMClient_RequiresURL(t *testing.T) {
	_, err := NewHTTPLLMClient(" ", "", 0)
	assert.Error(t, err)
}

func TestHTTPLLMClient_SystemMessagesDoNotTouchCallerSlice(t *testing.T) {
	var got httpCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPLLMClient(srv.URL, "", time.Second)
	require.NoError(t, err)

	backing := make([]string, 1, 4)
	backing[0] = "base persona"
	req := LLMRequest{
		System: backing,
		Messages: []ChatMessage{
			{Role: ChatRoleSystem, Content: "answer briefly"},
			{Role: ChatRoleUser, Content: "hi"},
		},
	}

	_, err = client.Complete(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "base persona\n\nanswer briefly", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "", backing[:2][1], "caller's backing array must stay untouched")
	assert.Len(t, req.System, 1)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	arabic := "الخادم مشغول حالياً"

	for n := 1; n < len(arabic); n++ {
		got := truncate(arabic, n)
		assert.True(t, utf8.ValidString(got), "n=%d produced %q", n, got)
		assert.LessOrEqual(t, len(got), n+len("..."))
	}
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
