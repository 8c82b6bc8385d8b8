package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wheelhouse-ai/wheelhouse/internal/config"
)

// setupOpenAIClient rigs up an OpenAIClient against a mock HTTP server
// speaking the chat completion protocol.
func setupOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.LLMModelConfig{
		Provider:   config.ProviderOpenAI,
		APIKey:     "sk-test",
		Model:      "gpt-4o",
		Endpoint:   server.URL + "/v1",
		APITimeout: 5 * time.Second,
	}

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	client.backoffFactory = fastBackoff
	return client
}

const chatSuccessBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello from the model."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
}`

// -- Initialization Tests --

func TestNewOpenAIClient_Failure_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.LLMModelConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o"}

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "openAI API key is required")
}

func TestNewOpenAIClient_EnvironmentKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg := config.LLMModelConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o"}

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))

	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "sk-from-env", client.config.APIKey)
}

// -- Generation Tests --

func TestOpenAIGenerate_Success(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		// Verify request integrity.
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "gpt-4o", payload["model"])

		messages, ok := payload["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2, "Expected system and user messages")
		first := messages[0].(map[string]any)
		assert.Equal(t, "system", first["role"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatSuccessBody))
	}

	client := setupOpenAIClient(t, handler)

	response, err := client.Generate(context.Background(), createTestRequest())

	assert.NoError(t, err)
	assert.Equal(t, "Hello from the model.", response)
}

func TestOpenAIGenerate_ForceJSONSetsResponseFormat(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))

		format, ok := payload["response_format"].(map[string]any)
		require.True(t, ok, "response_format should be present when JSON output is forced")
		assert.Equal(t, "json_object", format["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatSuccessBody))
	}

	client := setupOpenAIClient(t, handler)

	req := createTestRequest()
	req.Options.ForceJSONFormat = true

	_, err := client.Generate(context.Background(), req)
	assert.NoError(t, err)
}

func TestOpenAIGenerate_RetryOnServerError(t *testing.T) {
	var attemptCounter int32

	handler := func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attemptCounter, 1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatSuccessBody))
	}

	client := setupOpenAIClient(t, handler)

	response, err := client.Generate(context.Background(), createTestRequest())

	assert.NoError(t, err)
	assert.Equal(t, "Hello from the model.", response)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attemptCounter))
}

func TestOpenAIGenerate_NoRetryOnAuthError(t *testing.T) {
	var attemptCounter int32

	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attemptCounter, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}

	client := setupOpenAIClient(t, handler)

	_, err := client.Generate(context.Background(), createTestRequest())

	require.Error(t, err)
	var apiErr *openai.APIError
	require.True(t, errors.As(err, &apiErr), "Expected an APIError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attemptCounter), "Auth failures must not be retried")
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}

	client := setupOpenAIClient(t, handler)

	_, err := client.Generate(context.Background(), createTestRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
