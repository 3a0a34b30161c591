package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Scanners lists the accepted scanner names.
var Scanners = []string{"service", "ollama", "openai", "gemini"}

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL (got %q)", c.API.BaseURL)
	}
	if !strings.HasPrefix(c.API.ScanPath, "/") || !strings.HasPrefix(c.API.ConfirmPath, "/") {
		return fmt.Errorf("api.scan_path and api.confirm_path must start with /")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0 (got %s)", c.API.Timeout)
	}
	if err := c.Scan.validate(c.Vision); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}
	return nil
}

func (s ScanConfig) validate(v VisionConfig) error {
	switch s.Scanner {
	case "service", "ollama":
		return nil
	case "openai":
		if v.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai scanner")
		}
		return nil
	case "gemini":
		if v.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini scanner")
		}
		return nil
	default:
		return fmt.Errorf("unknown scanner %q (valid: %s)", s.Scanner, strings.Join(Scanners, ", "))
	}
}
