package config

import (
	"os"
	"strconv"
)

// StageModels defines which model to use for each pipeline stage
type StageModels struct {
	// Summary and Outline are free-text stages
	Summary string `json:"summary"`
	Outline string `json:"outline"`

	// Question, Validation and Completion return structured objects
	Question   string `json:"question"`
	Validation string `json:"validation"`
	Completion string `json:"completion"`
}

// AIConfig holds all model-endpoint configuration
type AIConfig struct {
	APIKey      string      `json:"-"` // Never serialize
	BaseURL     string      `json:"baseUrl"`
	Models      StageModels `json:"models"`
	Temperature float32     `json:"temperature"`
	TimeoutMS   int         `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	model := getEnvOrDefault("LLM_MODEL", "llama3-8b-8192")
	return &AIConfig{
		APIKey:  firstEnv("LLM_API_KEY", "GROQ_API_KEY"),
		BaseURL: getEnvOrDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		Models: StageModels{
			Summary:    getEnvOrDefault("LLM_MODEL_SUMMARY", model),
			Outline:    getEnvOrDefault("LLM_MODEL_OUTLINE", model),
			Question:   getEnvOrDefault("LLM_MODEL_QUESTION", model),
			Validation: getEnvOrDefault("LLM_MODEL_VALIDATION", model),
			Completion: getEnvOrDefault("LLM_MODEL_COMPLETION", model),
		},
		Temperature: getEnvFloat32("LLM_TEMPERATURE", 0.2),
		TimeoutMS:   getEnvInt("LLM_TIMEOUT_MS", 60000),
	}
}

// IsEnabled returns true if the model endpoint has a credential
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}
