package llm

import (
	"adaptivequiz/internal/config"
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Message roles
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Message is one role-tagged turn of a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single model call. Messages, when set, take precedence over Prompt.
type Request struct {
	Op          string // used in logs and errors
	Model       string
	Temperature float32
	System      string
	Prompt      string
	Messages    []Message
}

// Client is the model adapter used by the quiz procedures
type Client interface {
	// GenerateText returns a free-text completion, never an empty one
	GenerateText(ctx context.Context, req Request) (string, error)
	// GenerateObject fills out with an object that satisfies schema
	GenerateObject(ctx context.Context, req Request, schema *Schema, out any) error
}

type openAIClient struct {
	client *openai.Client
}

// NewClient creates a model client for an OpenAI-compatible endpoint
func NewClient(cfg *config.AIConfig) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}
	return &openAIClient{client: openai.NewClientWithConfig(clientCfg)}
}

func (c *openAIClient) GenerateText(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	logRequest(req)

	resp, err := c.client.CreateChatCompletion(ctx, chatRequest(req))
	if err != nil {
		log.Printf("[llm] %s failed after %s: %v", req.Op, time.Since(start), err)
		return "", classifyError(req.Op, err)
	}
	if len(resp.Choices) == 0 {
		return "", &SchemaValidationError{Schema: req.Op, Reason: "no choices in response"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Printf("[llm] %s completed in %s (%d chars)", req.Op, time.Since(start), len(text))
	if text == "" {
		return "", &SchemaValidationError{Schema: req.Op, Reason: "empty completion"}
	}
	return text, nil
}

func (c *openAIClient) GenerateObject(ctx context.Context, req Request, schema *Schema, out any) error {
	start := time.Now()
	logRequest(req)

	chatReq := chatRequest(req)
	chatReq.Tools = []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        schema.Name,
				Description: schema.Description,
				Parameters:  schema.Definition,
			},
		},
	}
	chatReq.ToolChoice = openai.ToolChoice{
		Type: openai.ToolTypeFunction,
		Function: openai.ToolFunction{
			Name: schema.Name,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		log.Printf("[llm] %s failed after %s: %v", req.Op, time.Since(start), err)
		return classifyError(req.Op, err)
	}
	if len(resp.Choices) == 0 {
		return &SchemaValidationError{Schema: schema.Name, Reason: "no choices in response"}
	}

	raw := toolArguments(resp.Choices[0].Message, schema.Name)
	log.Printf("[llm] %s completed in %s (%d chars)", req.Op, time.Since(start), len(raw))
	if strings.TrimSpace(raw) == "" {
		return &SchemaValidationError{Schema: schema.Name, Reason: "no structured output in response"}
	}
	return schema.Decode(raw, out)
}

// toolArguments prefers the forced tool call and falls back to plain content
func toolArguments(msg openai.ChatCompletionMessage, name string) string {
	for _, call := range msg.ToolCalls {
		if call.Function.Name == name {
			return call.Function.Arguments
		}
	}
	if len(msg.ToolCalls) > 0 {
		return msg.ToolCalls[0].Function.Arguments
	}
	return msg.Content
}

func chatRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    RoleSystem,
			Content: req.System,
		})
	}
	if len(req.Messages) > 0 {
		for _, m := range req.Messages {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    m.Role,
				Content: m.Content,
			})
		}
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    RoleUser,
			Content: req.Prompt,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages:    messages,
	}
}

func logRequest(req Request) {
	size := len(req.System) + len(req.Prompt)
	for _, m := range req.Messages {
		size += len(m.Content)
	}
	log.Printf("[llm] %s -> model=%s temperature=%.2f prompt=%d chars", req.Op, req.Model, req.Temperature, size)
}
