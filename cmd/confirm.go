package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/timetable-import/internal/importer"
	"github.com/lehigh-university-libraries/timetable-import/internal/report"
	"github.com/lehigh-university-libraries/timetable-import/internal/snapshot"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

func newConfirmCmd(a *app) *cobra.Command {
	var batchPath string
	var selection string
	var output string

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Import the selected courses from a saved preview",
		Long: `Imports the selected courses from a snapshot written by "timetable scan --save".

The snapshot is deleted once the backend has answered, even when every course
was skipped. If the backend cannot be reached the snapshot is kept so the
import can be retried.`,
		Example: `  # Import what was selected at scan time
  timetable confirm --batch fall.yaml

  # Change the selection before importing
  timetable confirm --batch fall.yaml --select 2-4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(report.Formats, output) {
				return fmt.Errorf("unsupported output format %q", output)
			}

			snap, err := snapshot.Load(batchPath)
			if err != nil {
				return err
			}
			selected := snap.Selected
			if selection != "" {
				if selected, err = parseSelection(selection, snap.Batch.TotalCourses); err != nil {
					return err
				}
			}

			wf := workflow.New(nil, newConfirmer(a.cfg), workflow.WithLogger(a.logger))
			if err := wf.Restore(snap.Batch, selected); err != nil {
				return fmt.Errorf("snapshot %s: %w", batchPath, err)
			}

			res, err := wf.Confirm(cmd.Context())
			if err != nil {
				var confirmErr *importer.ConfirmError
				if errors.As(err, &confirmErr) {
					a.logger.Warn("Snapshot kept for retry", "path", batchPath)
				}
				return reportFailure(wf, err)
			}

			if err := os.Remove(batchPath); err != nil {
				a.logger.Warn("Unable to remove snapshot", "path", batchPath, "err", err)
			}
			return report.Outcome(cmd.OutOrStdout(), output, res.Outcome, res.Notice)
		},
	}

	cmd.Flags().StringVar(&batchPath, "batch", "", "Snapshot file written by scan --save (required)")
	cmd.Flags().StringVar(&selection, "select", "", "Override the saved selection: all, none, or numbers like 1,3")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml or csv")
	_ = cmd.MarkFlagRequired("batch")

	return cmd
}
