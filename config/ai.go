package config

import (
	"time"

	"github.com/spf13/viper"
)

// AI holds hosted model provider configuration.
type AI struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	EmbedModel  string
	Temperature float64
	MaxTokens   int
	RetrievalK  int
	Timeout     time.Duration
}

// Enabled reports whether a provider is configured.
func (a *AI) Enabled() bool {
	return a != nil && a.APIKey != ""
}

func getAIConfig(v *viper.Viper) *AI {
	return &AI{
		BaseURL:     v.GetString("ai.base_url"),
		APIKey:      v.GetString("ai.api_key"),
		ChatModel:   v.GetString("ai.chat_model"),
		EmbedModel:  v.GetString("ai.embed_model"),
		Temperature: v.GetFloat64("ai.temperature"),
		MaxTokens:   v.GetInt("ai.max_tokens"),
		RetrievalK:  v.GetInt("ai.retrieval_k"),
		Timeout:     v.GetDuration("ai.timeout"),
	}
}
