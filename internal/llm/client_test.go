package llm

import (
	"adaptivequiz/internal/config"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionSchema = &Schema{
	Name:        "submit_question",
	Description: "Submit the next quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":    map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string", "minLength": 1},
			"difficulty":  map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"question", "description", "difficulty"},
	},
}

type question struct {
	Question    string `json:"question"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

func completionBody(content string, toolArgs string) map[string]any {
	message := map[string]any{"role": "assistant", "content": content}
	if toolArgs != "" {
		message["tool_calls"] = []map[string]any{
			{
				"id":   "call_1",
				"type": "function",
				"function": map[string]any{
					"name":      "submit_question",
					"arguments": toolArgs,
				},
			},
		}
	}
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{
			{"index": 0, "message": message, "finish_reason": "stop"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.AIConfig{APIKey: "test-key", BaseURL: srv.URL, TimeoutMS: 5000})
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestGenerateTextSendsSystemPromptAndTemperature(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &captured))
		writeBody(w, http.StatusOK, completionBody("* Light reactions\n* Calvin cycle", ""))
	})

	text, err := client.GenerateText(context.Background(), Request{
		Op:          "content",
		Model:       "llama3-8b-8192",
		Temperature: 0.2,
		System:      "system text",
		Prompt:      "user text",
	})
	require.NoError(t, err)
	assert.Equal(t, "* Light reactions\n* Calvin cycle", text)

	assert.Equal(t, "llama3-8b-8192", captured["model"])
	assert.InDelta(t, 0.2, captured["temperature"], 0.0001)
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user text", messages[1].(map[string]any)["content"])
}

func TestGenerateTextUsesMessagesOverPrompt(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &captured))
		writeBody(w, http.StatusOK, completionBody("ok", ""))
	})

	_, err := client.GenerateText(context.Background(), Request{
		Op:     "chat",
		System: "sys",
		Prompt: "ignored",
		Messages: []Message{
			{Role: RoleUser, Content: "first"},
			{Role: RoleAssistant, Content: "second"},
			{Role: RoleUser, Content: "third"},
		},
	})
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 4)
	assert.Equal(t, "first", messages[1].(map[string]any)["content"])
	assert.Equal(t, "assistant", messages[2].(map[string]any)["role"])
	assert.Equal(t, "third", messages[3].(map[string]any)["content"])
}

func TestGenerateTextEmptyCompletionIsSchemaError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, completionBody("   ", ""))
	})

	_, err := client.GenerateText(context.Background(), Request{Op: "content", Prompt: "x"})
	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
}

func TestGenerateObjectDecodesForcedToolCall(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &captured))
		writeBody(w, http.StatusOK, completionBody("", `{"question":"What does chlorophyll absorb?","description":"Tests pigments.","difficulty":"easy"}`))
	})

	var q question
	err := client.GenerateObject(context.Background(), Request{Op: "generateQuestion", Prompt: "x"}, questionSchema, &q)
	require.NoError(t, err)
	assert.Equal(t, "What does chlorophyll absorb?", q.Question)
	assert.Equal(t, "easy", q.Difficulty)

	toolChoice := captured["tool_choice"].(map[string]any)
	assert.Equal(t, "submit_question", toolChoice["function"].(map[string]any)["name"])
	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
}

func TestGenerateObjectMissingFieldIsSchemaError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, completionBody("", `{"question":"Q?","description":"D"}`))
	})

	q := question{}
	err := client.GenerateObject(context.Background(), Request{Op: "generateQuestion"}, questionSchema, &q)
	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Reason, "difficulty")
	assert.Empty(t, q.Question, "no partially populated result")
}

func TestGenerateObjectFallsBackToContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, completionBody("```json\n{\"question\":\"Q?\",\"description\":\"D\",\"difficulty\":\"hard\"}\n```", ""))
	})

	var q question
	require.NoError(t, client.GenerateObject(context.Background(), Request{Op: "generateQuestion"}, questionSchema, &q))
	assert.Equal(t, "hard", q.Difficulty)
}

func TestRateLimitIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"},
		})
	})

	_, err := client.GenerateText(context.Background(), Request{Op: "content"})
	var tErr *ModelTransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindRateLimit, tErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, tErr.StatusCode)
}

func TestServerErrorIsUpstreamTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	})

	var q question
	err := client.GenerateObject(context.Background(), Request{Op: "validateAnswer"}, questionSchema, &q)
	var tErr *ModelTransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindUpstream, tErr.Kind)
}

func TestUnreachableEndpointIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(&config.AIConfig{APIKey: "k", BaseURL: url, TimeoutMS: 2000})
	_, err := client.GenerateText(context.Background(), Request{Op: "content"})
	var tErr *ModelTransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindNetwork, tErr.Kind)
}

func TestCanceledContextIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, completionBody("late", ""))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GenerateText(ctx, Request{Op: "content"})
	var tErr *ModelTransportError
	require.True(t, errors.As(err, &tErr))
}
