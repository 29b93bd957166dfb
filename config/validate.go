package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	urls := c.Providers.BaseURLs()
	for name, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("providers: base url for %s is not an absolute url: %q", name, raw)
		}
	}

	if _, ok := urls[c.LLM.DefaultProvider]; !ok {
		return fmt.Errorf("llm.default_provider %q is not a configured provider", c.LLM.DefaultProvider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0 (got %s)", c.LLM.Timeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	if len(c.CORS.Origins()) == 0 {
		return fmt.Errorf("cors.allowed_origins must list at least one origin")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/' (got %q)", c.Metrics.Path)
	}

	return nil
}
