package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Providers ProvidersConfig `yaml:"providers"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// LLMConfig holds defaults used when a request omits provider, model or key,
// and the per-call deadline.
type LLMConfig struct {
	DefaultProvider string        `yaml:"default_provider" env:"LLM_DEFAULT_PROVIDER" env-default:"OpenAI"`
	DefaultModel    string        `yaml:"default_model"    env:"LLM_DEFAULT_MODEL"    env-default:"gpt-4-turbo"`
	APIKey          string        `yaml:"api_key"          env:"OPENAI_API_KEY"`
	Timeout         time.Duration `yaml:"timeout"          env:"LLM_TIMEOUT"          env-default:"90s"`
}

// ProvidersConfig holds the base URL of each supported OpenAI-compatible provider.
// All three are required so a misconfigured deployment fails at startup.
type ProvidersConfig struct {
	OpenAIBaseURL     string `yaml:"openai_base_url"     env:"OPENAI_BASE_URL"     env-required:"true"`
	TogetherAIBaseURL string `yaml:"togetherai_base_url" env:"TOGETHERAI_BASE_URL" env-required:"true"`
	TelnyxBaseURL     string `yaml:"telnyx_base_url"     env:"TELNYX_BASE_URL"     env-required:"true"`
}

// BaseURLs returns the provider table keyed by the names clients send.
func (p ProvidersConfig) BaseURLs() map[string]string {
	return map[string]string{
		"OpenAI":     p.OpenAIBaseURL,
		"TogetherAI": p.TogetherAIBaseURL,
		"Telnyx":     p.TelnyxBaseURL,
	}
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"http://localhost:3000"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"*"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"*"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"600"`
}

// Origins splits AllowedOrigins on commas, dropping blanks.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
