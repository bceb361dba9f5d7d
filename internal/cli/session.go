package cli

import (
	"context"
	"os"
	"syscall"

	"github.com/aretw0/mentor/internal/presentation/tui"
	"github.com/aretw0/mentor/pkg/runner"
)

// RunSession starts an interactive tutoring session on Stdin/Stdout.
// Interrupts are handled by the runner; only SIGTERM ends the session from outside.
func RunSession(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background(), syscall.SIGTERM)
	defer sigCtx.Cancel()

	app, logger, err := NewApp(sigCtx, opts.Options)
	if err != nil {
		return err
	}
	defer app.Close()

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
	} else {
		tui.PrintBanner(os.Stdout)
		profile := tui.Profile(os.Stdout)
		if opts.Plain {
			profile = plainProfile
		}
		blocks := tui.NewBlockWriter(os.Stdout, profile)
		handler = runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithTextHandlerRenderer(blocks.Renderer()))
	}

	if !app.Available() && !opts.JSON {
		printSystemMessage("No API key found. Set GEMINI_API_KEY to talk to the tutor.")
	}

	r := runner.NewRunner(app.Tutor,
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithInitialTopic(opts.Topic),
	)
	runErr := r.Run(sigCtx)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	logCompletion(runErr, opts.JSON, sigCtx.Signal())
	return handleExecutionError(runErr)
}
