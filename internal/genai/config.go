package genai

import "time"

// Config defines the completion provider configuration.
type Config struct {
	// Provider is the driver identifier. Only "openai" ships today; the
	// slug exists so another provider can be added without config churn.
	Provider string `mapstructure:"provider"`

	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`

	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// Penalty values applied only by the dedicated love-story flow.
	PresencePenalty  float64 `mapstructure:"presence_penalty"`
	FrequencyPenalty float64 `mapstructure:"frequency_penalty"`
}

// Defaults returns the sampling configuration matching the hosted form
// deployment: gpt-4-turbo-preview, 2000 tokens, temperature 0.7.
func Defaults() Config {
	return Config{
		Provider:         "openai",
		Model:            "gpt-4-turbo-preview",
		MaxTokens:        2000,
		Temperature:      0.7,
		Timeout:          90 * time.Second,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	}
}
