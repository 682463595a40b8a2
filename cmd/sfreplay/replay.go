package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/sfstate/internal/capture"
	"github.com/udisondev/sfstate/internal/gamestate"
)

type replayOptions struct {
	loc         *time.Location
	concurrency int
	stopOnError bool
}

// result is the outcome of replaying one capture file.
type result struct {
	path         string
	snap         *gamestate.Snapshot
	lastReceived time.Time
	responses    int
	failed       int
}

// replayAll decodes every file into its own snapshot. Results keep the order
// of paths.
func replayAll(ctx context.Context, paths []string, opts replayOptions) ([]result, error) {
	results := make([]result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			r, err := replayFile(gctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// replayFile applies the records of one capture in order. Records before the
// first one carrying a full player state are skipped. Failing records are
// logged and counted unless opts.stopOnError is set.
func replayFile(ctx context.Context, path string, opts replayOptions) (result, error) {
	res := result{path: path}

	r, err := capture.Open(path)
	if err != nil {
		return res, err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		res.responses++
		res.lastReceived = rec.ReceivedAt

		if err := apply(&res, rec, opts.loc); err != nil {
			if opts.stopOnError {
				return res, fmt.Errorf("record %d: %w", res.responses, err)
			}
			res.failed++
			slog.Warn("replay record failed", "file", path, "record", res.responses, "err", err)
		}
	}

	if res.snap == nil {
		return res, fmt.Errorf("no complete player state in %d records", res.responses)
	}
	slog.Info("capture replayed", "file", path, "responses", res.responses, "failed", res.failed)
	return res, nil
}

func apply(res *result, rec capture.Record, loc *time.Location) error {
	resp, err := rec.Response()
	if err != nil {
		return err
	}
	if res.snap != nil {
		return res.snap.Update(resp)
	}

	snap := &gamestate.Snapshot{}
	snap.SetLocation(loc)
	if err := snap.Update(resp); err != nil {
		return err
	}
	if !snap.Complete() {
		slog.Debug("waiting for player state", "received_at", rec.ReceivedAt)
		return nil
	}
	res.snap = snap
	return nil
}
