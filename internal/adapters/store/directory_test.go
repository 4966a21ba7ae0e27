package store

import (
	"imgresize/internal/core/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectory(t *testing.T) {
	_, err := NewDirectory("")
	assert.Error(t, err)

	root := filepath.Join(t.TempDir(), "nested", "out")
	d, err := NewDirectory(root)
	require.NoError(t, err)
	assert.DirExists(t, root)
	assert.Equal(t, root, d.root)
}

func TestDirectory_Persist(t *testing.T) {
	root := t.TempDir()
	d, err := NewDirectory(root)
	require.NoError(t, err)

	images := []domain.EncodedImage{domain.Encode([]byte("first")), domain.Encode([]byte("second"))}

	msg, err := d.Persist(testContext(t), images)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(msg, "Successfully saved 2 images to "+root))
	dir := strings.TrimPrefix(msg, "Successfully saved 2 images to ")

	first, err := os.ReadFile(filepath.Join(dir, "resized_image_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), first)

	second, err := os.ReadFile(filepath.Join(dir, "resized_image_2.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), second)

	// every batch gets its own folder
	again, err := d.Persist(testContext(t), images[:1])
	require.NoError(t, err)
	assert.NotEqual(t, dir, strings.TrimPrefix(again, "Successfully saved 1 images to "))
}

func TestDirectory_PersistBadPayloadWritesNothing(t *testing.T) {
	root := t.TempDir()
	d, err := NewDirectory(root)
	require.NoError(t, err)

	_, err = d.Persist(testContext(t), []domain.EncodedImage{domain.Encode([]byte("ok")), "***"})
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
