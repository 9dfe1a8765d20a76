package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pandocd/internal/config"
)

// serverFlags holds command-line overrides applied on top of the config file.
type serverFlags struct {
	configPath string
	addr       string
	pandocPath string
	timeout    time.Duration
	workers    int
	logLevel   string
	logFormat  string
	version    bool
}

// parseFlags parses args (excluding the program name is NOT required; pass
// os.Args) and returns the flags.
func parseFlags(args []string) (*serverFlags, error) {
	fs := flag.NewFlagSet("pandoc-server", flag.ContinueOnError)

	f := &serverFlags{}
	fs.StringVarP(&f.configPath, "config", "c", "", "path to YAML config file")
	fs.StringVar(&f.addr, "addr", "", "listen address (overrides config)")
	fs.StringVar(&f.pandocPath, "pandoc-path", "", "pandoc binary path (overrides config)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-conversion timeout (overrides config)")
	fs.IntVar(&f.workers, "workers", 0, "max concurrent conversions, 0 = auto (overrides config)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text or json (overrides config)")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file if given, then flag overrides.
func loadConfig(f *serverFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.pandocPath != "" {
		cfg.Pandoc.Path = f.pandocPath
	}
	if f.timeout > 0 {
		cfg.Pandoc.TimeoutSecs = int(f.timeout / time.Second)
		if cfg.Pandoc.TimeoutSecs < 1 {
			return nil, fmt.Errorf("timeout %v is below one second", f.timeout)
		}
	}
	if f.workers > 0 {
		cfg.Pandoc.Workers = f.workers
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
