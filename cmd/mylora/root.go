package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mylora/mylora-desktop/internal/app"
	"github.com/mylora/mylora-desktop/internal/config"
	"github.com/mylora/mylora-desktop/internal/logging"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

const rootDesc = `
Browse a MyLoRA catalog from the command line: search and list entries,
discover preview images, read embedded metadata and download artifacts.

The catalog origin defaults to $MYLORA_API_BASE_URL (http://localhost:5000).
`

// cliApp carries the state shared by all subcommands
type cliApp struct {
	out    io.Writer
	errOut io.Writer

	apiURL   string
	logLevel string
	maxIndex int
	env      *config.Env
	log      zerolog.Logger
	loop     *orchestrator.Loop
	services *app.Services
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &cliApp{out: out, errOut: errOut, maxIndex: -1}

	cmd := &cobra.Command{
		Use:          "mylora",
		Short:        "MyLoRA catalog client",
		Long:         rootDesc,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	f := cmd.PersistentFlags()
	f.StringVar(&a.apiURL, "api", "", "catalog origin, overrides $MYLORA_API_BASE_URL")
	f.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides $MYLORA_LOG_LEVEL")

	cmd.AddCommand(
		newSearchCmd(a),
		newGridCmd(a),
		newCategoriesCmd(a),
		newPreviewsCmd(a),
		newMetadataCmd(a),
		newDownloadCmd(a),
	)
	return cmd
}

func (a *cliApp) setup(ctx context.Context) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		if err := config.ValidateBaseURL(a.apiURL); err != nil {
			return err
		}
		env.APIBaseURL = a.apiURL
	}
	if a.logLevel != "" {
		env.LogLevel = a.logLevel
	}
	if a.maxIndex >= 0 {
		env.PreviewMaxIndex = a.maxIndex
	}
	a.env = env

	a.log = logging.New(logging.Options{Level: env.LogLevel, Format: env.LogFormat, Writer: a.errOut})
	a.loop = orchestrator.NewLoop()
	a.services = app.New(app.Config{
		Origin:           env.APIBaseURL,
		UserAgent:        env.UserAgent,
		PreviewMaxIndex:  env.PreviewMaxIndex,
		ProbeConcurrency: env.ProbeConcurrency,
		Logger:           a.log,
		Dispatch:         a.loop.Dispatch,
		Context:          ctx,
	})
	return nil
}

// await runs the consumer loop until the submission was delivered
func await[T any](ctx context.Context, a *cliApp, submit func(deliver func(orchestrator.Result[T])) *orchestrator.Handle) (T, error) {
	var res orchestrator.Result[T]
	h := submit(func(r orchestrator.Result[T]) { res = r })
	return waitHandle(ctx, a, h, &res)
}

func waitHandle[T any](ctx context.Context, a *cliApp, h *orchestrator.Handle, res *orchestrator.Result[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.loop.Run(runCtx)

	select {
	case <-h.Done():
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	if h.Superseded() {
		var zero T
		return zero, fmt.Errorf("result superseded")
	}
	return res.Value, res.Err
}
