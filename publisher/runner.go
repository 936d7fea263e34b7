package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const (
	_exitTimeout  = 124
	_exitNotFound = 127

	// how long to wait for output pipes after the process is killed
	_waitDelay = 2 * time.Second
)

// Result is the outcome of one command. A zero ExitCode with a nil Err is a
// success; anything else is a failure carrying the exit code and whatever
// the command wrote to stderr.
type Result struct {
	Op        Op
	Image     string
	Command   Command
	ExitCode  int
	Stderr    string
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

func (r Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

type Runner interface {
	Run(ctx context.Context, c Command) Result
}

// execRunner runs commands as child processes. Output is streamed to the
// configured writers and stderr is also captured into the Result.
type execRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newExecRunner(quiet bool) execRunner {
	if quiet {
		return execRunner{stdout: io.Discard, stderr: io.Discard}
	}
	return execRunner{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

func (r execRunner) Run(ctx context.Context, c Command) Result {
	var captured bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = r.stdin
	cmd.Stdout = orDiscard(r.stdout)
	cmd.Stderr = io.MultiWriter(orDiscard(r.stderr), &captured)
	cmd.WaitDelay = _waitDelay

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Command:   c,
		StartedAt: start,
		Duration:  time.Since(start),
		Err:       err,
	}
	if err != nil {
		res.ExitCode = exitCode(ctx, err)
	}
	res.Stderr = captured.String()
	return res
}

func exitCode(ctx context.Context, err error) int {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return _exitTimeout
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
		return 1
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return _exitNotFound
	}
	return 1
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// dryRunner prints commands instead of running them.
type dryRunner struct {
	out io.Writer
}

func (r dryRunner) Run(_ context.Context, c Command) Result {
	fmt.Fprintln(orDiscard(r.out), "+ "+c.String())
	return Result{Command: c, StartedAt: time.Now()}
}
