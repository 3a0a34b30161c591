package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/report"
	"github.com/lehigh-university-libraries/timetable-import/internal/snapshot"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

func newScanCmd(a *app) *cobra.Command {
	var savePath string
	var selection string
	var output string

	cmd := &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Scan a timetable image and preview the detected courses",
		Long: `Scans a timetable image and prints the detected courses, marking any that
conflict with the existing schedule. Nothing is imported.

With --save the preview and selection are written to a snapshot file that
"timetable confirm" imports later. The format follows the extension:
.parquet, .jsonl or .yaml.`,
		Example: `  # Preview the courses in a photo
  timetable scan fall.jpg

  # Save the preview with courses 1 and 3 selected
  timetable scan fall.jpg --save fall.yaml --select 1,3

  # Use a local vision model instead of the OCR service
  timetable scan fall.jpg --scanner ollama --schedule schedule.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(report.Formats, output) {
				return fmt.Errorf("unsupported output format %q", output)
			}

			img, err := ocr.LoadImage(args[0])
			if err != nil {
				return err
			}
			scanner, err := newScanner(a.cfg)
			if err != nil {
				return err
			}

			wf := workflow.New(scanner, newConfirmer(a.cfg), workflow.WithLogger(a.logger))
			res, err := wf.Scan(cmd.Context(), img)
			if err != nil {
				return reportFailure(wf, err)
			}
			if res.Batch.Empty() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Notice.Text)
				return err
			}

			indices, err := parseSelection(selection, res.Batch.TotalCourses)
			if err != nil {
				return err
			}
			if err := wf.Select(indices); err != nil {
				return err
			}

			v := wf.View()
			if err := report.Preview(cmd.OutOrStdout(), output, v.Batch, v.Selected); err != nil {
				return err
			}

			if savePath != "" {
				if err := snapshot.Save(savePath, snapshot.Snapshot{Batch: v.Batch, Selected: v.Selected}); err != nil {
					return err
				}
				a.logger.Info("Preview saved", "path", savePath, "courses", v.Batch.TotalCourses, "selected", len(v.Selected))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "Save the preview to a snapshot file (.parquet, .jsonl or .yaml)")
	cmd.Flags().StringVar(&selection, "select", "all", "Courses to select: all, none, or numbers like 1,3,5-7")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml or csv")

	return cmd
}
