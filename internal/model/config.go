package model

import "time"

// Config is the complete application configuration
type Config struct {
	OCR          OCRConfig          `yaml:"ocr" mapstructure:"ocr"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// OCRConfig controls text extraction from scanned PDFs
type OCRConfig struct {
	Lang       string  `yaml:"lang" mapstructure:"lang"`
	DPI        int     `yaml:"dpi" mapstructure:"dpi"`
	Contrast   float64 `yaml:"contrast" mapstructure:"contrast"`
	Threshold  int     `yaml:"threshold" mapstructure:"threshold"`
	Preprocess bool    `yaml:"preprocess" mapstructure:"preprocess"`
	Grayscale  bool    `yaml:"grayscale" mapstructure:"grayscale"`
}

// LLMConfig selects and configures the model provider
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // openai, groq, anthropic, ollama
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"` // never serialized
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ConcurrencyConfig bounds batch fan-out
type ConcurrencyConfig struct {
	Workers         int           `yaml:"workers" mapstructure:"workers"`
	DocumentTimeout time.Duration `yaml:"document_timeout" mapstructure:"document_timeout"`
}

// RateLimitingConfig throttles calls against the model API
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the OCR text cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults, overridable by config file,
// CONFORMA_* environment variables and CLI flags, in that order.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Lang:       "fra",
			DPI:        300,
			Contrast:   2.0,
			Threshold:  160,
			Preprocess: true,
			Grayscale:  true,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   60 * time.Second,
			MaxTokens: 8000,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         4,
			DocumentTimeout: 2 * time.Minute,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         2,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
