package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sfstate/internal/capture"
	"github.com/udisondev/sfstate/internal/store"
)

var base = time.Unix(1_700_000_000, 0).UTC()

// playerSave is a 710-integer warrior save with the given level and two full shops
// (weapons at 288, rings at 361).
func playerSave(level int64) string {
	d := make([]int64, 710)
	d[7] = level
	d[29] = 1
	for shop, typ := range map[int]int64{288: 1, 361: 9} {
		for i := 0; i < 6; i++ {
			copy(d[shop+i*12:], []int64{typ, int64(i + 1), 10, 20, 1, 0, 0, 5, 0, 0, 100, 2})
		}
	}
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, "/")
}

func writeCapture(t *testing.T, name string, bodies ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+capture.Ext)
	w, err := capture.Create(path)
	require.NoError(t, err)
	for i, body := range bodies {
		require.NoError(t, w.Write(capture.Record{
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
			Body:       body,
		}))
	}
	require.NoError(t, w.Close())
	return path
}

func login(name string, level int64) string {
	return "timestamp:1700000000&ownplayername:" + name + "&ownplayersave:" + playerSave(level)
}

func TestReplayFile(t *testing.T) {
	t.Parallel()

	path := writeCapture(t, "foo",
		"serverversion:2000",
		login("Foo", 42),
		"petsrank:many",
		"owngroupname:Bar&owngroupdescription:hi",
	)

	res, err := replayFile(context.Background(), path, replayOptions{loc: time.UTC})
	require.NoError(t, err)
	require.NotNil(t, res.snap)
	assert.Equal(t, "Foo", res.snap.Character.Name)
	assert.Equal(t, uint16(42), res.snap.Character.Level)
	assert.Equal(t, 4, res.responses)
	assert.Equal(t, 1, res.failed)
	assert.True(t, base.Add(3*time.Minute).Equal(res.lastReceived))
	require.True(t, res.snap.Guild.Present())
	assert.Equal(t, "Bar", res.snap.Guild.Get().Name)
}

func TestReplayFile_StopOnError(t *testing.T) {
	t.Parallel()

	path := writeCapture(t, "foo", login("Foo", 42), "petsrank:many")

	_, err := replayFile(context.Background(), path, replayOptions{loc: time.UTC, stopOnError: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestReplayFile_NoPlayerState(t *testing.T) {
	t.Parallel()

	path := writeCapture(t, "empty", "serverversion:2000", "ownplayername:Foo")

	_, err := replayFile(context.Background(), path, replayOptions{loc: time.UTC})
	require.Error(t, err)
}

func TestReplayFile_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeCapture(t, "foo", login("Foo", 42))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := replayFile(ctx, path, replayOptions{loc: time.UTC})
	require.ErrorIs(t, err, context.Canceled)
}

func TestReplayAll_KeepsOrder(t *testing.T) {
	t.Parallel()

	paths := []string{
		writeCapture(t, "a", login("Alpha", 1)),
		writeCapture(t, "b", login("Beta", 2)),
		writeCapture(t, "c", login("Gamma", 3)),
	}
	results, err := replayAll(context.Background(), paths, replayOptions{loc: time.UTC, concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, name := range []string{"Alpha", "Beta", "Gamma"} {
		assert.Equal(t, paths[i], results[i].path)
		assert.Equal(t, name, results[i].snap.Character.Name)
	}

	_, err = replayAll(context.Background(), append(paths, filepath.Join(t.TempDir(), "missing"+capture.Ext)),
		replayOptions{loc: time.UTC, concurrency: 2})
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	path := writeCapture(t, "foo", login("Foo", 42))
	db := filepath.Join(t.TempDir(), "snapshots.db")
	t.Setenv("SFSTATE_STORE_DRIVER", "sqlite")
	t.Setenv("SFSTATE_STORE_SQLITEPATH", db)
	t.Setenv("SFSTATE_TIME_ZONE", "UTC")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-config", filepath.Join(t.TempDir(), "none.yaml"),
		"-env", "",
		path,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Foo (level 42 Warrior)")
	assert.Contains(t, out.String(), "1 responses, 0 failed")

	st, err := store.OpenSQLite(context.Background(), db)
	require.NoError(t, err)
	defer st.Close()
	rec, err := st.Latest(context.Background(), "Foo")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, base.Equal(rec.TakenAt))
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), nil, &bytes.Buffer{})
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
}
