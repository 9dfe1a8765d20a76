// Package pandocd exposes the Pandoc CLI as a Go conversion service.
//
// # Quick Start
//
// Create a service and convert a document:
//
//	svc := pandocd.New()
//
//	res, err := svc.Convert(ctx, pandocd.Input{
//	    From:    "markdown",
//	    To:      "html",
//	    Content: []byte("# Hello\n\nWorld"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.Output, 0644)
//
// # Conversion Model
//
// Every conversion is a single pandoc child process. The input bytes are
// written to a temporary file whose suffix hints at the source format,
// pandoc is invoked with a discrete argument list (never a shell), and the
// converted bytes are read either from stdout or, for binary container
// targets such as docx and pdf, from a temporary output file. Both
// temporary files are removed on every exit path.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := pandocd.New(
//	    pandocd.WithTimeout(2 * time.Minute),
//	    pandocd.WithPandocPath("/usr/local/bin/pandoc"),
//	)
//
// # Bounded Concurrency
//
// The service itself places no ceiling on concurrent child processes. Use
// Pool to cap simultaneous invocations under load:
//
//	pool := pandocd.NewPool(pandocd.ResolvePoolSize(0))
//	if err := pool.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer pool.Release()
//	res, err := svc.Convert(ctx, input)
//
// # Binary Requirements
//
// Conversion requires the pandoc binary on PATH (or at the path given via
// WithPandocPath). PDF output additionally requires a LaTeX engine that
// pandoc can find, exactly as with command-line pandoc.
package pandocd
