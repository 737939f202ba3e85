package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSave(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("image/png", strings.NewReader("fake png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "producto-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))
}

func TestSave_UppercaseContentType(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("IMAGE/JPEG", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}

func TestSave_InvalidType(t *testing.T) {
	s := newTestStore(t)

	for _, ct := range []string{"application/pdf", "text/html", ""} {
		_, err := s.Save(ct, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidType, "content type %q", ct)
	}
}

func TestSave_UniqueNames(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Save("image/png", strings.NewReader("x"))
	require.NoError(t, err)
	b, err := s.Save("image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("image/gif", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_NotFound(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Remove("producto-missing.png"), ErrNotFound)
}

func TestRemove_PathTraversal(t *testing.T) {
	s := newTestStore(t)

	outside := filepath.Join(filepath.Dir(s.Dir), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	err := s.Remove("../victim.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "file outside the store must survive")
}
