package pandocd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds the cheap informational invocations (--version,
// --list-input-formats); these answer in milliseconds when pandoc works.
const probeTimeout = 10 * time.Second

// Formats returns the input and output formats the installed pandoc
// reports as supported. The lists are probed once and cached for the
// process lifetime; a failed probe is not cached, so the next call retries.
func (s *Service) Formats(ctx context.Context) (*FormatList, error) {
	s.formatsMu.Lock()
	defer s.formatsMu.Unlock()

	if s.formats != nil {
		return s.formats, nil
	}

	input, err := s.listFormats(ctx, "--list-input-formats")
	if err != nil {
		return nil, err
	}
	output, err := s.listFormats(ctx, "--list-output-formats")
	if err != nil {
		return nil, err
	}

	s.formats = &FormatList{Input: input, Output: output}
	return s.formats, nil
}

func (s *Service) listFormats(ctx context.Context, flag string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	stdout, stderr, err := s.runner.Run(ctx, s.cfg.binPath, flag)
	if err := classifyRunError(ctx, err, stderr); err != nil {
		return nil, fmt.Errorf("listing formats: %w", err)
	}

	var formats []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			formats = append(formats, line)
		}
	}
	return formats, nil
}

// Version returns the first line of `pandoc --version`. It is probed live
// on every call so health checks detect a binary that went missing.
func (s *Service) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	stdout, stderr, err := s.runner.Run(ctx, s.cfg.binPath, "--version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrPandocNotFound, err)
		}
		return "", classifyRunError(ctx, err, stderr)
	}

	line, _, _ := strings.Cut(string(stdout), "\n")
	return strings.TrimSpace(line), nil
}
