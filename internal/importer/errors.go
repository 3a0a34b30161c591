package importer

import "fmt"

// ConfirmError means the confirmation request did not complete. The backend
// may or may not have applied it; callers must not retry automatically.
type ConfirmError struct {
	Message string
	// Status is the HTTP status received, 0 when no response arrived.
	Status int
	Err    error
}

func (e *ConfirmError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Message, e.Err)
	}
	return "import failed: " + e.Message
}

func (e *ConfirmError) Unwrap() error { return e.Err }
