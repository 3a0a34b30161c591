package cmd

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
	"github.com/lehigh-university-libraries/timetable-import/internal/report"
	"github.com/lehigh-university-libraries/timetable-import/internal/workflow"
)

func newImportCmd(a *app) *cobra.Command {
	var selection string
	var output string

	cmd := &cobra.Command{
		Use:   "import IMAGE",
		Short: "Scan a timetable image and import the selected courses",
		Long: `Scans a timetable image, shows the preview and imports the selected courses
in one step. Without --select you are asked which courses to import.`,
		Example: `  # Choose interactively
  timetable import fall.jpg

  # Import everything, conflicts included
  timetable import fall.jpg --select all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(report.Formats, output) {
				return fmt.Errorf("unsupported output format %q", output)
			}
			out := cmd.OutOrStdout()

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
				_, err := fmt.Fprintln(out, res.Notice.Text)
				return err
			}

			if err := report.Preview(out, "text", res.Batch, nil); err != nil {
				return err
			}

			if selection == "" {
				if selection, err = promptSelection(cmd.InOrStdin(), out); err != nil {
					return err
				}
			}
			indices, err := parseSelection(selection, res.Batch.TotalCourses)
			if err != nil {
				return err
			}
			if err := wf.Select(indices); err != nil {
				return err
			}

			confirmed, err := wf.Confirm(cmd.Context())
			if err != nil {
				return reportFailure(wf, err)
			}
			return report.Outcome(out, output, confirmed.Outcome, confirmed.Notice)
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "Courses to import: all, none, or numbers like 1,3,5-7")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format for the result: text, json, yaml or csv")

	return cmd
}

func promptSelection(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "\nCourses to import (all, none, 1,3, 2-4) [all]: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read selection: %w", err)
	}
	return strings.TrimSpace(line), nil
}
