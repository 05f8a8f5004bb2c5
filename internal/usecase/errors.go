package usecase

import "errors"

// ErrorKind classifies export failures.
type ErrorKind string

const (
	KindCapture ErrorKind = "capture"
	KindEncode  ErrorKind = "encode"
	KindPackage ErrorKind = "package"
	KindBusy    ErrorKind = "busy"
)

// ErrExportInProgress is returned when a session already has an export running.
var ErrExportInProgress = errors.New("an export is already in progress for this resume")

// ExportError wraps an export failure with the stage that produced it.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}
