package document_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-leave/internal/document"

	"github.com/stretchr/testify/assert"
)

func TestDiskStore_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes the file and returns its URL", func(t *testing.T) {
		dir := t.TempDir()
		store, err := document.NewDiskStore(dir, "/documents")
		assert.NoError(t, err)

		url, err := store.Store(ctx, "doctor-note.pdf", strings.NewReader("sick leave evidence"))
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/documents/"))
		assert.True(t, strings.HasSuffix(url, ".pdf"))

		stored := strings.TrimPrefix(url, "/documents/")
		content, err := os.ReadFile(filepath.Join(dir, stored))
		assert.NoError(t, err)
		assert.Equal(t, "sick leave evidence", string(content))
	})

	t.Run("success strips hostile upload names", func(t *testing.T) {
		dir := t.TempDir()
		store, err := document.NewDiskStore(dir, "/documents")
		assert.NoError(t, err)

		url, err := store.Store(ctx, "../../etc/passwd", strings.NewReader("x"))
		assert.NoError(t, err)
		assert.NotContains(t, url, "..")

		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("negative unwritable directory", func(t *testing.T) {
		_, err := document.NewDiskStore(string([]byte{0}), "/documents")
		assert.Error(t, err)
	})
}
