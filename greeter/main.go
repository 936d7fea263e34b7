package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveFunc runs the server for cfg until ctx is cancelled.
type serveFunc func(ctx context.Context, cfg ServerConfig) error

func serveWith(logger *logrus.Logger) serveFunc {
	return func(ctx context.Context, cfg ServerConfig) error {
		return NewServerWithLogger(cfg, logger).Run(ctx)
	}
}

func newApp(serve serveFunc) *cli.App {
	defaults := DefaultServerConfig()
	return &cli.App{
		Name:  "greeter",
		Usage: "serve a hello world page",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "port to listen on",
				Value:   defaults.Port,
				EnvVars: []string{"GREETER_PORT"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log every request at debug level",
				Value:   defaults.Debug,
				EnvVars: []string{"GREETER_DEBUG"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg := ServerConfig{
				Port:  c.Int("port"),
				Debug: c.Bool("debug"),
			}
			return serve(c.Context, cfg)
		},
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(serveWith(logger)).RunContext(ctx, os.Args); err != nil {
		logger.Fatal(err)
	}
}
