package main

import (
	"fmt"
	"io"
	"time"

	"github.com/bonion/test-app/db"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type storeRecorder struct {
	store *db.Store
}

func (r storeRecorder) Record(res Result) error {
	_, err := r.store.LogOperation(db.OperationRecord{
		Op:         string(res.Op),
		Image:      res.Image,
		Command:    res.Command.String(),
		StartedAt:  res.StartedAt,
		DurationMs: res.Duration.Milliseconds(),
		ExitCode:   res.ExitCode,
		Stderr:     res.Stderr,
	})
	return err
}

func printHistory(w io.Writer, ops []db.OperationRecord, now time.Time) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "no operations recorded")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	for _, op := range ops {
		mark := green("✓")
		if op.ExitCode != 0 {
			mark = red("✗")
		}
		fmt.Fprintf(w, "%s #%d %-9s %-14s exit %d  %s\n",
			mark, op.ID, op.Op, humanize.RelTime(op.StartedAt, now, "ago", "from now"), op.ExitCode, op.Command)
	}
}
