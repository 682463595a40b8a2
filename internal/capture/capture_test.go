package capture

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session"+Ext)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{ReceivedAt: at, Body: "timestamp:1709294400&ownplayername:Foo"},
		{ReceivedAt: at.Add(time.Minute), Body: "owngroupname:Bar&owngrouprank:2"},
	}

	w, err := Create(path)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range recs {
		assert.True(t, recs[i].ReceivedAt.Equal(got[i].ReceivedAt))
		assert.Equal(t, recs[i].Body, got[i].Body)
	}

	resp, err := got[1].Response()
	require.NoError(t, err)
	v, ok := resp.Get("owngroupname")
	require.True(t, ok)
	assert.Equal(t, "Bar", v.String())
}

func TestReader_EmptyStream(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReader_BadLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Body: "a:1"}))
	_, err = w.w.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a:1", rec.Body)

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture line 2")
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "nope"+Ext))
	require.Error(t, err)
}
