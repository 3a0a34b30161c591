package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/timetable-import/internal/config"
	"github.com/lehigh-university-libraries/timetable-import/internal/gemini"
	"github.com/lehigh-university-libraries/timetable-import/internal/importer"
	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/ollama"
	"github.com/lehigh-university-libraries/timetable-import/internal/openai"
	"github.com/lehigh-university-libraries/timetable-import/internal/providers"
)

// newScanner builds the configured scanner.
func newScanner(cfg *config.Config) (ocr.Scanner, error) {
	name := cfg.Scan.Scanner
	if name == "service" {
		return ocr.NewClient(cfg.API.BaseURL, cfg.API.ScanPath, cfg.API.Token, cfg.API.Timeout), nil
	}

	var provider providers.Provider
	switch name {
	case "ollama":
		provider = ollama.New(cfg.Vision.OllamaURL)
	case "openai":
		provider = openai.New(cfg.Vision.OpenAIKey)
	case "gemini":
		provider = gemini.New(cfg.Vision.GeminiKey)
	default:
		return nil, fmt.Errorf("unknown scanner %q", name)
	}

	var existing []ocr.ExistingCourse
	if cfg.Scan.ScheduleFile != "" {
		var err error
		existing, err = ocr.LoadSchedule(cfg.Scan.ScheduleFile)
		if err != nil {
			return nil, err
		}
	}

	return &ocr.Vision{
		Provider:    provider,
		Name:        name,
		Model:       cfg.Vision.Model(name),
		Temperature: cfg.Vision.Temperature,
		Existing:    existing,
	}, nil
}

func newConfirmer(cfg *config.Config) importer.Confirmer {
	return importer.NewClient(cfg.API.BaseURL, cfg.API.ConfirmPath, cfg.API.Token, cfg.API.Timeout)
}
