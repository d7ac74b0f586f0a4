package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayFilename(t *testing.T) {
	now := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "stdout_3-7-24.log", TodayFilename(now))
}

func TestResolveDir(t *testing.T) {
	assert.Equal(t, "/var/log/app", ResolveDir(" /var/log/app "))
	assert.Equal(t, filepath.Join(".", "logs"), ResolveDir(""))
}

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC) }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	n, err := w.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(filepath.Join(dir, "stdout_1-2-24.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}
