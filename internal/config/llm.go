package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/yuchialin/tripledger/internal/llm"
)

// LoadLLMConfig loads the draft-extraction provider settings. The API key
// falls back to the provider's conventional environment variable.
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return cfg
}
