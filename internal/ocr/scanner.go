package ocr

import (
	"context"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
)

// Scanner turns a timetable image into a preview batch.
// A batch with no items is a valid result, distinct from an error.
type Scanner interface {
	Scan(ctx context.Context, img Image) (*models.PreviewBatch, error)
}

func validateItems(items []models.CandidateCourse) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return scanErr("malformed response", fmtItemErr(i, err))
		}
	}
	return nil
}
