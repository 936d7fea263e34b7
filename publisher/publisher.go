package main

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Recorder persists the outcome of every operation.
type Recorder interface {
	Record(Result) error
}

// Observer is told when an operation starts and when it finishes.
type Observer interface {
	Started(op Op, c Command)
	Finished(res Result)
}

type Publisher struct {
	cfg      PublisherConfig
	runner   Runner
	recorder Recorder
	observer Observer
	log      logrus.FieldLogger
}

type Option func(*Publisher)

func WithRecorder(r Recorder) Option {
	return func(p *Publisher) {
		p.recorder = r
	}
}

func WithObserver(o Observer) Option {
	return func(p *Publisher) {
		p.observer = o
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Publisher) {
		p.log = l
	}
}

func New(cfg PublisherConfig, runner Runner, opts ...Option) *Publisher {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Publisher{
		cfg:    cfg,
		runner: runner,
		log:    discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Build(ctx context.Context) Result {
	return p.run(ctx, OpBuild, p.cfg.ImageRef(), BuildCommand(p.cfg))
}

func (p *Publisher) RunLocal(ctx context.Context) Result {
	return p.run(ctx, OpRunLocal, runLocalImage, RunLocalCommand())
}

func (p *Publisher) Push(ctx context.Context) Result {
	return p.run(ctx, OpPush, p.cfg.ImageRef(), PushCommand(p.cfg))
}

// Publish builds and then pushes. Push runs even if the build failed, and
// run-local is never part of it.
func (p *Publisher) Publish(ctx context.Context) []Result {
	return []Result{
		p.Build(ctx),
		p.Push(ctx),
	}
}

func (p *Publisher) run(ctx context.Context, op Op, image string, c Command) Result {
	log := p.log.WithFields(logrus.Fields{"op": op, "image": image})
	log.Debugf("running %s", c)
	if p.observer != nil {
		p.observer.Started(op, c)
	}

	res := p.runner.Run(ctx, c)
	res.Op = op
	res.Image = image

	if res.Success() {
		log.WithField("duration", res.Duration).Debug("command succeeded")
	} else {
		log.WithFields(logrus.Fields{
			"exit_code": res.ExitCode,
			"error":     res.Err,
		}).Debug("command failed")
	}

	if p.recorder != nil {
		if err := p.recorder.Record(res); err != nil {
			log.WithError(err).Warn("could not record operation")
		}
	}
	if p.observer != nil {
		p.observer.Finished(res)
	}
	return res
}
