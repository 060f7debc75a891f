package config

import "time"

// LLMConfig configures the text-generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, gemini, mock
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // Go duration string

	// Generation options passed through on every call.
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// Mock mode substitutes canned responses with no network call. This is
	// an explicit field threaded through the pipeline, never a global.
	Mock bool `yaml:"mock"`

	// MockSeed makes mock responses reproducible when non-zero.
	MockSeed int64 `yaml:"mock_seed"`
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    "anthropic",
		Model:       "claude-sonnet-4-20250514",
		BaseURL:     "https://api.anthropic.com/v1",
		Timeout:     "120s",
		Temperature: 0.8,
		MaxTokens:   1024,
	}
}

// ParsedTimeout returns the timeout as a duration, defaulting to 120s on
// parse failure.
func (c LLMConfig) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}
