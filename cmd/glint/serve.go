package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glint-ui/glint/pkg/el"
	"github.com/glint-ui/glint/pkg/glint"
	"github.com/glint-ui/glint/pkg/server"
)

func serveCmd() *cobra.Command {
	var addr string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo glint server",
		Long: `Start a WebSocket server hosting a small built-in demo app.
Useful for checking a deployment end to end; real applications
construct a server.Server around their own root component.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			srv := server.New(demoRoot, &server.Config{Address: addr},
				server.WithLogger(logger))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func demoRoot() glint.Descriptor {
	return glint.Component(demoApp, nil)
}

func demoApp(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
	count, set := glint.UseState(rc, 0)
	return el.Div(
		el.Class("glint-demo"),
		el.H1("glint"),
		el.P(el.Textf("Button clicked %d times.", count)),
		el.Button(
			el.OnClick(func() { set.Update(func(v int) int { return v + 1 }) }),
			"Click me",
		),
	)
}
