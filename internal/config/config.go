package config

import (
	"time"
)

// Config is the root configuration for the timetable importer.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Scan   ScanConfig   `yaml:"scan"`
	Vision VisionConfig `yaml:"vision"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig points at the course-management backend that owns OCR and persistence.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"     env:"TIMETABLE_API_URL"          env-default:"http://localhost:8000"`
	Token       string        `yaml:"token"        env:"TIMETABLE_API_TOKEN"`
	ScanPath    string        `yaml:"scan_path"    env:"TIMETABLE_API_SCAN_PATH"    env-default:"/api/timetable/ocr"`
	ConfirmPath string        `yaml:"confirm_path" env:"TIMETABLE_API_CONFIRM_PATH" env-default:"/api/timetable/import"`
	Timeout     time.Duration `yaml:"timeout"      env:"TIMETABLE_API_TIMEOUT"      env-default:"60s"`
}

// ScanConfig selects which scanner produces candidates.
type ScanConfig struct {
	// Scanner is one of: service, ollama, openai, gemini.
	Scanner      string `yaml:"scanner"       env:"TIMETABLE_SCANNER"  env-default:"service"`
	ScheduleFile string `yaml:"schedule_file" env:"TIMETABLE_SCHEDULE"`
}

// VisionConfig holds the vision LLM provider settings.
type VisionConfig struct {
	OllamaURL   string  `yaml:"ollama_url"    env:"OLLAMA_URL"     env-default:"http://localhost:11434"`
	OllamaModel string  `yaml:"ollama_model"  env:"OLLAMA_MODEL"   env-default:"mistral-small3.2:24b"`
	OpenAIKey   string  `yaml:"openai_key"    env:"OPENAI_API_KEY"`
	OpenAIModel string  `yaml:"openai_model"  env:"OPENAI_MODEL"   env-default:"gpt-4o"`
	GeminiKey   string  `yaml:"gemini_key"    env:"GEMINI_API_KEY"`
	GeminiModel string  `yaml:"gemini_model"  env:"GEMINI_MODEL"   env-default:"gemini-1.5-flash"`
	Temperature float64 `yaml:"temperature"   env:"VISION_TEMPERATURE" env-default:"0.0"`
}

// ServerConfig holds settings for the local HTTP host.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"TIMETABLE_PORT"             env-default:"8888"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"TIMETABLE_MAX_UPLOAD_BYTES" env-default:"10485760"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TIMETABLE_SHUTDOWN_TIMEOUT" env-default:"5s"`
	// SessionTTL is how long an idle session stays listed before it is pruned.
	SessionTTL time.Duration `yaml:"session_ttl" env:"TIMETABLE_SESSION_TTL" env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Model returns the configured model for a vision provider.
func (v VisionConfig) Model(provider string) string {
	switch provider {
	case "ollama":
		return v.OllamaModel
	case "openai":
		return v.OpenAIModel
	case "gemini":
		return v.GeminiModel
	default:
		return ""
	}
}
