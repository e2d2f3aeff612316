package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/async"
)

type mapRecognizer struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
}

func (m *mapRecognizer) Recognize(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := filepath.Base(path)
	return m.texts[base], m.errs[base]
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
}

func TestCollectImages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.PNG"))
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.png"))
	touch(t, filepath.Join(root, ".cache", "c.png"))
	touch(t, filepath.Join(root, "sub", "d.heic"))

	paths, stats, err := CollectImages(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.jpg"),
		filepath.Join(root, "b.PNG"),
		filepath.Join(root, "sub", "d.heic"),
	}, paths)
	assert.Equal(t, uint32(3), stats.Matched)

	all, _, err := CollectImages(root, false)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCollectImagesMissingRoot(t *testing.T) {
	_, _, err := CollectImages(filepath.Join(t.TempDir(), "nope"), true)
	assert.Error(t, err)

	_, _, err = CollectImages("  ", true)
	assert.Error(t, err)
}

func TestBatchKeepsSubmissionOrder(t *testing.T) {
	rec := &mapRecognizer{
		texts: map[string]string{"a.png": "Water", "b.png": "Sugar, palm oil", "c.png": ""},
		errs:  map[string]error{"d.png": errors.New("tesseract failed")},
	}
	b := NewBatch(rec, nil, nil, async.WithWorkers(3))

	for _, p := range []string{"a.png", "b.png", "c.png", "d.png"} {
		require.NoError(t, b.Submit(context.Background(), p))
	}
	rows := b.Close(context.Background())
	require.Len(t, rows, 4)

	assert.Equal(t, "a.png", rows[0].Path)
	assert.Equal(t, constants.ScanStatusOK, rows[0].Status)
	assert.Equal(t, 90, rows[0].Result.Percent)
	assert.Equal(t, "Water", rows[0].Text)

	assert.Equal(t, 55, rows[1].Result.Percent)

	assert.Equal(t, constants.ScanStatusNoText, rows[2].Status)
	assert.Nil(t, rows[2].Result)
	assert.Equal(t, "No ingredients detected.", rows[2].Err)

	assert.Equal(t, constants.ScanStatusRecognitionFailed, rows[3].Status)
	assert.Equal(t, "Error scanning image.", rows[3].Err)
}

func TestWatcherEmitsNewImages(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "existing.png"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    20 * time.Millisecond,
	})
	require.NoError(t, err)

	next := func() string {
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}

	assert.Equal(t, filepath.Join(root, "existing.png"), next())

	touch(t, filepath.Join(root, "ignored.txt"))
	touch(t, filepath.Join(root, "new.jpg"))
	assert.Equal(t, filepath.Join(root, "new.jpg"), next())

	cancel()
	for range events {
	}
}
