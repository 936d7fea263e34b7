package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bonion/test-app/db"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// consoleObserver prints one line per operation. In quiet mode the child's
// output is hidden and a spinner runs instead.
type consoleObserver struct {
	out   io.Writer
	quiet bool
	spin  *spinner.Spinner
}

func newConsoleObserver(out io.Writer, quiet bool) *consoleObserver {
	o := &consoleObserver{out: out, quiet: quiet}
	if quiet {
		o.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return o
}

func (o *consoleObserver) Started(op Op, c Command) {
	if o.spin != nil {
		o.spin.Suffix = fmt.Sprintf(" %s: %s", op, c)
		o.spin.Start()
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(o.out, "%s %s\n", cyan("→"), c)
}

func (o *consoleObserver) Finished(res Result) {
	if o.spin != nil {
		o.spin.Stop()
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if res.Success() {
		fmt.Fprintf(o.out, "%s %s %s (%s)\n", green("✓"), res.Op, res.Image, res.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(o.out, "%s %s %s failed (exit code %d)\n", red("✗"), res.Op, res.Image, res.ExitCode)
	if o.quiet && res.Stderr != "" {
		fmt.Fprintf(o.out, "\n%s\n", res.Stderr)
	}
}

type publisherApp struct {
	out    io.Writer
	logger *logrus.Logger
	// runner overrides the exec/dry-run runner picked from flags.
	runner Runner
}

func (a *publisherApp) config(c *cli.Context) PublisherConfig {
	return PublisherConfig{
		Host:    c.String("host"),
		Project: c.String("project"),
		Image:   c.String("image"),
		Tag:     c.String("tag"),
	}
}

// publisher wires a Publisher from flags. The returned func releases the
// history store, if one was opened.
func (a *publisherApp) publisher(c *cli.Context) (*Publisher, func(), error) {
	cfg := a.config(c)
	if err := cfg.Validate(); err != nil {
		return nil, nil, cli.Exit(err, 2)
	}

	if c.Bool("verbose") {
		a.logger.SetLevel(logrus.DebugLevel)
	}

	runner := a.runner
	if runner == nil {
		if c.Bool("dry-run") {
			runner = dryRunner{out: a.out}
		} else {
			runner = newExecRunner(c.Bool("quiet"))
		}
	}

	opts := []Option{
		WithLogger(a.logger),
		WithObserver(newConsoleObserver(a.out, c.Bool("quiet"))),
	}
	closeFn := func() {}
	if path := c.String("db"); path != "" {
		store, err := db.Open(path)
		if err != nil {
			a.logger.WithError(err).Warn("history disabled")
		} else {
			opts = append(opts, WithRecorder(storeRecorder{store: store}))
			closeFn = func() { a.closeHistory(store) }
		}
	}

	return New(cfg, runner, opts...), closeFn, nil
}

func (a *publisherApp) closeHistory(store io.Closer) {
	if err := store.Close(); err != nil {
		a.logger.WithError(err).Warn("could not close history")
	}
}

func (a *publisherApp) runOps(ops func(context.Context, *Publisher) []Result) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, closeFn, err := a.publisher(c)
		if err != nil {
			return err
		}
		defer closeFn()

		results := ops(c.Context, p)
		if !c.Bool("strict") {
			return nil
		}
		for _, res := range results {
			if !res.Success() {
				return cli.Exit(fmt.Sprintf("%s failed with exit code %d", res.Op, res.ExitCode), 1)
			}
		}
		return nil
	}
}

func (a *publisherApp) history(c *cli.Context) error {
	path := c.String("db")
	if path == "" {
		return cli.Exit("history needs --db", 2)
	}
	store, err := db.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ops, err := store.GetAllOperations()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	printHistory(a.out, ops, time.Now())
	return nil
}

func newApp(a *publisherApp) *cli.App {
	defaults := DefaultConfig()
	single := func(f func(*Publisher, context.Context) Result) func(context.Context, *Publisher) []Result {
		return func(ctx context.Context, p *Publisher) []Result {
			return []Result{f(p, ctx)}
		}
	}

	return &cli.App{
		Name:      "publisher",
		Usage:     "build and push the container image",
		Writer:    a.out,
		ErrWriter: a.out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: defaults.Host, Usage: "registry host", EnvVars: []string{"PUBLISHER_HOST"}},
			&cli.StringFlag{Name: "project", Value: defaults.Project, Usage: "registry project", EnvVars: []string{"PUBLISHER_PROJECT"}},
			&cli.StringFlag{Name: "image", Value: defaults.Image, Usage: "image name", EnvVars: []string{"PUBLISHER_IMAGE"}},
			&cli.StringFlag{Name: "tag", Value: defaults.Tag, Usage: "image tag", EnvVars: []string{"PUBLISHER_TAG"}},
			&cli.StringFlag{Name: "db", Usage: "sqlite file to record operations in", EnvVars: []string{"PUBLISHER_DB"}},
			&cli.BoolFlag{Name: "dry-run", Usage: "print commands without running them"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "hide docker output and show a spinner"},
			&cli.BoolFlag{Name: "strict", Usage: "exit 1 if any operation failed"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Action: a.runOps(func(ctx context.Context, p *Publisher) []Result {
			return p.Publish(ctx)
		}),
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "docker build the current directory",
				Action: a.runOps(single((*Publisher).Build)),
			},
			{
				Name:   "run-local",
				Usage:  "run the image locally on port 8000",
				Action: a.runOps(single((*Publisher).RunLocal)),
			},
			{
				Name:   "push",
				Usage:  "docker push the image",
				Action: a.runOps(single((*Publisher).Push)),
			},
			{
				Name:   "history",
				Usage:  "list recorded operations",
				Action: a.history,
			},
		},
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(&publisherApp{out: os.Stdout, logger: logger}).RunContext(ctx, os.Args); err != nil {
		logger.Fatal(err)
	}
}
