package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manyServers builds a registry document large enough to span several write
// syscalls.
func manyServers(n int) []byte {
	var sb strings.Builder
	sb.WriteString(`{"mcpServers": {`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, `"server-%04d": {"command": "npx", "args": ["-y", "pkg-%04d"]}`, i, i)
	}
	sb.WriteString(`}}`)
	return []byte(sb.String())
}

func TestAtomicWriteFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{
			name: "registry with one server",
			data: []byte(`{"mcpServers": {"web-fetch": {"command": "npx", "args": ["-y", "pkg-web-fetch"]}}}`),
			perm: 0o600,
		},
		{
			name: "empty registry object",
			data: []byte(`{}`),
			perm: 0o600,
		},
		{
			name: "registry spanning many entries",
			data: manyServers(500),
			perm: 0o644,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			targetPath := filepath.Join(tempDir, tt.name+".json")

			err := AtomicWriteFile(targetPath, tt.data, tt.perm)
			require.NoError(t, err)

			content, err := os.ReadFile(targetPath)
			require.NoError(t, err)
			assert.Equal(t, tt.data, content)

			info, err := os.Stat(targetPath)
			require.NoError(t, err)
			assert.Equal(t, tt.perm, info.Mode().Perm())
		})
	}
}

func TestAtomicWriteFile_ResetTruncates(t *testing.T) {
	t.Parallel()

	targetPath := filepath.Join(t.TempDir(), "claude_desktop_config.json")

	// A populated registry followed by a reset to the empty mapping: the
	// shorter content must fully replace the longer one, never append.
	populated := manyServers(10)
	require.NoError(t, AtomicWriteFile(targetPath, populated, 0o600))

	emptied := []byte(`{"mcpServers": {}}`)
	require.NoError(t, AtomicWriteFile(targetPath, emptied, 0o600))

	content, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, emptied, content)
	assert.Len(t, content, len(emptied), "file must shrink to the new content")
}

func TestAtomicWriteFile_ConcurrentReaderSeesOldOrNew(t *testing.T) {
	t.Parallel()

	targetPath := filepath.Join(t.TempDir(), "claude_desktop_config.json")

	before := []byte(`{"mcpServers": {"a": {"command": "npx"}}}`)
	require.NoError(t, AtomicWriteFile(targetPath, before, 0o600))

	// A reader that opened the file before the write keeps the old content;
	// a fresh open sees the new content. Neither observes a mix.
	reader, err := os.Open(targetPath)
	require.NoError(t, err)
	defer reader.Close()

	after := []byte(`{"mcpServers": {"a": {"command": "npx"}, "b": {"command": "uvx"}}}`)
	require.NoError(t, AtomicWriteFile(targetPath, after, 0o600))

	old, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, before, old, "an already-open handle keeps the replaced content")

	current, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, after, current)
}

func TestAtomicWriteFile_NoTempFileLeftBehind(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	targetPath := filepath.Join(tempDir, "claude_desktop_config.json")

	require.NoError(t, AtomicWriteFile(targetPath, []byte(`{"mcpServers": {}}`), 0o600))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".tmp-"),
			"temp file should not remain: %s", entry.Name())
	}
}

func TestAtomicWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	targetPath := filepath.Join(t.TempDir(), "no-such-dir", "claude_desktop_config.json")
	err := AtomicWriteFile(targetPath, []byte(`{}`), 0o600)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create temp file")
}
