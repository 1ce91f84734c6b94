package engine

import "fmt"

// ValidationError reports bad or missing input. It is resolved locally and
// never reaches the remote layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SyncError reports a failed persistence call. The server's error message,
// when present, is carried verbatim in Message.
type SyncError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *SyncError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed with status %d", e.Op, e.StatusCode)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation that referenced an id no longer present
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
