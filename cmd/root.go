package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/timetable-import/internal/config"
	"github.com/lehigh-university-libraries/timetable-import/internal/logging"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

// app is the state shared by every subcommand once the root has loaded it.
type app struct {
	cfg    *config.Config
	sink   *logging.Sink
	logger *slog.Logger
}

// flagEnv maps persistent flags onto the env vars the config reads, so a flag
// takes the same precedence as its env var.
var flagEnv = map[string]string{
	"scanner":   "TIMETABLE_SCANNER",
	"schedule":  "TIMETABLE_SCHEDULE",
	"api-url":   "TIMETABLE_API_URL",
	"log-level": "LOG_LEVEL",
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Import a class timetable from a photo",
		Long: `Timetable scans a photo or screenshot of a class timetable, shows the
detected courses with any conflicts against the existing schedule, and imports
the courses you select into the course-management backend.

Scanning uses the backend's OCR service by default, or a vision LLM
(Ollama, OpenAI or Gemini) with --scanner.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			for name, env := range flagEnv {
				if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
					if err := os.Setenv(env, f.Value.String()); err != nil {
						return fmt.Errorf("apply --%s: %w", name, err)
					}
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.sink = logging.NewSink()
			a.logger = logging.New(cfg.Log, a.sink)
			return nil
		},
	}

	cmd.PersistentFlags().String("scanner", "", "Scanner to use: service, ollama, openai or gemini")
	cmd.PersistentFlags().String("schedule", "", "YAML file with the existing schedule, used by vision scanners")
	cmd.PersistentFlags().String("api-url", "", "Base URL of the course-management backend")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newScanCmd(a))
	cmd.AddCommand(newConfirmCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

// reportFailure returns err for fang to print and dismisses the workflow's
// error notice, which the printed error replaces.
func reportFailure(wf *workflow.Workflow, err error) error {
	wf.AcknowledgeNotice()
	return err
}
