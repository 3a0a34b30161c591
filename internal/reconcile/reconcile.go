// Package reconcile turns scan and import results into user-facing notices.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/timetable-import/internal/importer"
	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"github.com/lehigh-university-libraries/timetable-import/internal/ocr"
)

// Kind separates normal business outcomes from exceptional failures.
type Kind string

const (
	KindSuccess Kind = "success"
	// KindInfo is a normal outcome where nothing happened, e.g. no courses detected.
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

// NoCoursesDetected is shown when a scan succeeds with an empty batch.
const NoCoursesDetected = "No courses detected"

// Notice is a message that needs the user's acknowledgment.
type Notice struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

// Blocking reports whether the notice describes a failure.
func (n Notice) Blocking() bool {
	return n.Kind == KindError
}

// Summarize renders an outcome as one line, e.g.
// "1 course created, 3 schedules, 1 skipped (time-slot conflict)".
func Summarize(o *models.ImportOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s created, %s", plural(o.CoursesCreated, "course"), plural(o.SchedulesCreated, "schedule"))

	if n := len(o.SkippedCourses); n > 0 {
		reasons := make([]string, 0, n)
		for _, s := range o.SkippedCourses {
			reason := strings.TrimSpace(s.Reason)
			if reason == "" {
				reason = "unknown reason"
			}
			if s.Title != "" {
				reason = s.Title + ": " + reason
			}
			reasons = append(reasons, reason)
		}
		fmt.Fprintf(&b, ", %d skipped (%s)", n, strings.Join(reasons, ", "))
	}
	return b.String()
}

// ForOutcome is a success notice when courses were created and an info notice otherwise.
func ForOutcome(o *models.ImportOutcome) Notice {
	kind := KindSuccess
	if o.Empty() {
		kind = KindInfo
	}
	return Notice{Kind: kind, Text: Summarize(o)}
}

// ForScanEmpty is the notice for a scan that found nothing.
func ForScanEmpty() Notice {
	return Notice{Kind: KindInfo, Text: NoCoursesDetected}
}

// ForError renders a scan or import failure.
func ForError(err error) Notice {
	var scanErr *ocr.ScanError
	var confirmErr *importer.ConfirmError
	switch {
	case errors.As(err, &scanErr):
		return Notice{Kind: KindError, Text: "Scan failed: " + scanErr.Message}
	case errors.As(err, &confirmErr):
		return Notice{Kind: KindError, Text: "Import failed: " + confirmErr.Message}
	default:
		return Notice{Kind: KindError, Text: err.Error()}
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
