package pandocd

import "errors"

// Sentinel errors for conversion operations.
var (
	// Request validation errors, raised before any process is launched.
	ErrMissingFormat = errors.New("source and target formats are required")
	ErrEmptyContent  = errors.New("document content cannot be empty")

	// ErrPandocNotFound means the pandoc binary is missing or not executable.
	ErrPandocNotFound = errors.New("pandoc binary not found")

	// ErrTimeout means the child process exceeded the conversion deadline.
	ErrTimeout = errors.New("conversion timed out")

	// ErrConversion means pandoc exited non-zero; the wrapped message
	// carries pandoc's own diagnostic output.
	ErrConversion = errors.New("conversion failed")

	// ErrEmptyOutput means pandoc exited zero but produced no bytes.
	ErrEmptyOutput = errors.New("conversion produced empty output")
)
