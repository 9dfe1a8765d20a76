// Command pandoc-server runs an HTTP façade over the pandoc binary.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"

	pandocd "github.com/alnah/go-pandocd"
	"github.com/alnah/go-pandocd/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes follow Unix conventions: 0=success, 1=runtime error, 2=usage.
const (
	exitSuccess = 0
	exitGeneral = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	if flags.version {
		fmt.Println("pandoc-server", Version)
		return exitSuccess
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	log := newLogger(cfg.Log.Level, cfg.Log.Format)

	// Respect container CPU quotas when auto-sizing the pool.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(log.Debugf))

	svc := pandocd.New(
		pandocd.WithPandocPath(cfg.Pandoc.Path),
		pandocd.WithTimeout(cfg.ConversionTimeout()),
		pandocd.WithLogger(log),
	)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	// Surface a missing binary at startup rather than on first request;
	// the process still starts so /health can report the condition.
	if version, err := svc.Version(ctx); err != nil {
		log.WithError(err).Warn("pandoc binary not answering, conversions will fail")
	} else {
		log.WithField("pandoc_version", version).Info("pandoc detected")
	}

	pool := pandocd.NewPool(pandocd.ResolvePoolSize(cfg.Pandoc.Workers))
	log.WithField("slots", pool.Size()).Info("conversion pool sized")

	srv := server.New(log, cfg, svc, pool, Version)
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("server exited")
		return exitGeneral
	}
	return exitSuccess
}

// newLogger builds the process logger from config, defaulting hard rather
// than failing on bad values.
func newLogger(level, format string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
