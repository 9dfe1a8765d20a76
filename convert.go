package pandocd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Service converts documents by supervising pandoc child processes.
// A Service is safe for concurrent use; each conversion gets its own
// temporary files and child process.
type Service struct {
	cfg    serviceConfig
	runner CommandRunner
	log    logrus.FieldLogger

	// Cached format lists; pandoc's format support cannot change within
	// a process lifetime, so a successful probe is kept until restart.
	formatsMu sync.Mutex
	formats   *FormatList
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithPandocPath).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			binPath: DefaultPandocPath,
			timeout: DefaultTimeout,
		},
		log: discardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create runner if not injected (e.g., by tests)
	if s.runner == nil {
		s.runner = &ExecRunner{}
	}

	return s
}

// Convert runs one pandoc invocation and returns the converted bytes.
// The context bounds the whole conversion; cancellation kills the child
// process. Formats are not validated up front: pandoc itself is the source
// of truth and rejects unknown formats with a diagnostic.
func (s *Service) Convert(ctx context.Context, in Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	inPath, cleanupIn, err := writeTempInput(in.Content, extensionFor(in.From))
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	args := buildArgs(in)

	var outPath string
	if writesToFile(in.To) {
		path, cleanupOut, err := createTempOutput(extensionFor(in.To))
		if err != nil {
			return nil, err
		}
		defer cleanupOut()
		outPath = path
		args = append(args, inPath, "-o", outPath)
	} else {
		args = append(args, inPath)
	}

	stdout, stderr, runErr := s.runner.Run(ctx, s.cfg.binPath, args...)
	if err := classifyRunError(ctx, runErr, stderr); err != nil {
		s.log.WithFields(logrus.Fields{
			"from": in.From,
			"to":   in.To,
		}).WithError(err).Debug("pandoc invocation failed")
		return nil, err
	}

	// Warnings on a successful run are informational only.
	if stderr != "" {
		s.log.WithFields(logrus.Fields{
			"from":   in.From,
			"to":     in.To,
			"stderr": stderr,
		}).Debug("pandoc reported warnings")
	}

	output := stdout
	if outPath != "" {
		output, err = os.ReadFile(outPath)
		if err != nil {
			return nil, fmt.Errorf("reading output file: %w", err)
		}
	}

	// A zero exit with no bytes indicates a misconfiguration pandoc did
	// not itself reject.
	if len(output) == 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrEmptyOutput, in.From, in.To)
	}

	return &Result{Output: output, Filename: OutputFilename(in.To)}, nil
}

// buildArgs constructs the pandoc argument list. Map-backed options use
// sorted keys so the command line is reproducible for identical requests;
// ExtraArgs go last, verbatim, so callers can override structured flags.
func buildArgs(in Input) []string {
	args := []string{"-f", in.From, "-t", in.To}

	if in.Standalone {
		args = append(args, "--standalone")
	}
	if in.Template != "" {
		args = append(args, "--template", in.Template)
	}
	for _, k := range sortedKeys(in.Variables) {
		args = append(args, "--variable", k+"="+in.Variables[k])
	}
	for _, k := range sortedKeys(in.Metadata) {
		args = append(args, "--metadata", k+"="+in.Metadata[k])
	}
	for _, f := range in.Filters {
		args = append(args, "--filter", f)
	}
	args = append(args, in.ExtraArgs...)

	return args
}

// classifyRunError maps a raw subprocess error onto the sentinel taxonomy.
func classifyRunError(ctx context.Context, err error, stderr string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrPandocNotFound, err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", ErrTimeout, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr == "" {
			return fmt.Errorf("%w: %v", ErrConversion, err)
		}
		return fmt.Errorf("%w: %s", ErrConversion, stderr)
	}

	return fmt.Errorf("launching pandoc: %w", err)
}

// writeTempInput creates a temporary file holding the document content.
// Returns the file path and a cleanup function to remove the file.
func writeTempInput(content []byte, suffix string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "pandocd-in-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}

// createTempOutput reserves a temporary file for pandoc to write into.
func createTempOutput(suffix string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "pandocd-out-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("creating output file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing output file: %w", err)
	}

	return path, cleanup, nil
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// discardLogger returns a logger that drops everything; callers opt into
// logging via WithLogger.
func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
