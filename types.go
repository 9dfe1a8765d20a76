package pandocd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Input contains conversion parameters.
type Input struct {
	From       string            // Source format identifier (required)
	To         string            // Target format identifier (required)
	Content    []byte            // Document bytes (required, non-empty)
	Standalone bool              // Produce a full document rather than a fragment
	Template   string            // Template path, passed to pandoc as given
	Variables  map[string]string // Template variables
	Metadata   map[string]string // Document metadata
	Filters    []string          // Pandoc filters, applied in order
	ExtraArgs  []string          // Raw flags appended verbatim after structured options
}

// validate checks required fields before any process is launched.
func (in Input) validate() error {
	if in.From == "" || in.To == "" {
		return fmt.Errorf("%w: from=%q to=%q", ErrMissingFormat, in.From, in.To)
	}
	if len(in.Content) == 0 {
		return ErrEmptyContent
	}
	return nil
}

// Result holds a successful conversion.
type Result struct {
	Output   []byte // Converted document bytes (non-empty)
	Filename string // Suggested download name, derived from the target format
}

// FormatList holds the formats the installed pandoc reports as supported,
// in the order pandoc lists them.
type FormatList struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	binPath string
	timeout time.Duration
}

// DefaultTimeout bounds a single conversion, matching pandoc's slowest
// realistic path (PDF via LaTeX on large documents).
const DefaultTimeout = 5 * time.Minute

// DefaultPandocPath resolves the binary through PATH.
const DefaultPandocPath = "pandoc"

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pandocd: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithPandocPath sets the pandoc binary path or name.
func WithPandocPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.cfg.binPath = path
		}
	}
}

// WithRunner injects a CommandRunner, primarily for tests.
func WithRunner(r CommandRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithLogger sets the logger used for subprocess diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
