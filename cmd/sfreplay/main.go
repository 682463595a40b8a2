// Command sfreplay replays captured server responses into account snapshots.
//
//	sfreplay [-config sfstate.yaml] [-env .env] [-json] capture.jsonl.zst...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/udisondev/sfstate/internal/config"
	"github.com/udisondev/sfstate/internal/report"
	"github.com/udisondev/sfstate/internal/store"
)

const ConfigPath = "config/sfstate.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sfreplay", flag.ContinueOnError)
	cfgPath := fs.String("config", ConfigPath, "path to the YAML config")
	envFile := fs.String("env", ".env", "optional env file with SFSTATE_* overrides")
	asJSON := fs.Bool("json", false, "print snapshots as JSON instead of a summary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no capture files given")
	}

	cfg, err := config.Load(*cfgPath, *envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	results, err := replayAll(ctx, fs.Args(), replayOptions{
		loc:         loc,
		concurrency: cfg.Replay.Concurrency,
		stopOnError: cfg.Replay.StopOnError,
	})
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	if st != nil {
		defer st.Close()
		if err := persist(ctx, st, results, time.Now()); err != nil {
			return err
		}
	}

	for _, r := range results {
		if err := printResult(out, r, *asJSON); err != nil {
			return err
		}
	}
	return nil
}

// persist stores the final snapshot of every file under its own run.
func persist(ctx context.Context, st store.Store, results []result, now time.Time) error {
	for _, r := range results {
		run := store.NewRun(r.path, now)
		if err := st.BeginRun(ctx, run); err != nil {
			return err
		}
		rec, err := store.NewRecord(run, r.snap, r.lastReceived)
		if err != nil {
			return fmt.Errorf("%s: %w", r.path, err)
		}
		if err := st.Save(ctx, rec); err != nil {
			return err
		}
		slog.Info("snapshot saved", "file", r.path, "account", rec.Account, "run", run.ID)
	}
	return nil
}

func printResult(w io.Writer, r result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.snap)
	}
	if _, err := fmt.Fprintf(w, "== %s: %d responses, %d failed\n", r.path, r.responses, r.failed); err != nil {
		return err
	}
	return report.Write(w, r.snap, r.lastReceived)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
