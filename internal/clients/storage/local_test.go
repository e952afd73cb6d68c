package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStore_Upload(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://cdn.local/audio/", zap.NewNop())
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), MeditationKey("abc", "final.mp3"), []byte("data"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/audio/abc/final.mp3", url)

	content, err := os.ReadFile(filepath.Join(root, "abc", "final.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://cdn.local", zap.NewNop())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../x.mp3"} {
		_, err := store.Upload(context.Background(), key, []byte("x"), "audio/mpeg")
		assert.Error(t, err, key)
	}
}

func TestNewLocalStore_RequiresConfig(t *testing.T) {
	_, err := NewLocalStore("", "http://x", zap.NewNop())
	assert.Error(t, err)
	_, err = NewLocalStore("/tmp", "", zap.NewNop())
	assert.Error(t, err)
}
