package ocr

import "fmt"

// ScanError is the single failure type of a scan. Transport failures, non-2xx
// responses, malformed bodies and unsupported images all surface as a ScanError.
type ScanError struct {
	// Message is safe to show to the user.
	Message string
	// Status is the HTTP status of the OCR response, 0 when none was received.
	Status int
	Err    error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scan failed: %s: %v", e.Message, e.Err)
	}
	return "scan failed: " + e.Message
}

func (e *ScanError) Unwrap() error { return e.Err }

func scanErr(message string, err error) *ScanError {
	return &ScanError{Message: message, Err: err}
}
