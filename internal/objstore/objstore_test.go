package objstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekeep/tablekeep/internal/model"
)

func openMem(t *testing.T, publicBase string) *Store {
	t.Helper()
	s, err := Open(context.Background(), "mem://", publicBase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openMem(t, "")

	n, err := s.Put(ctx, "u1/1700000000000.png", strings.NewReader("pngbytes"), "image/png")
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	obj, err := s.Get(ctx, "u1/1700000000000.png")
	require.NoError(t, err)
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.NoError(t, obj.Close())
	assert.Equal(t, "pngbytes", string(body))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.EqualValues(t, 8, obj.Size)

	require.NoError(t, s.Delete(ctx, "u1/1700000000000.png"))
	_, err = s.Get(ctx, "u1/1700000000000.png")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	// idempotent
	require.NoError(t, s.Delete(ctx, "u1/1700000000000.png"))
}

func TestFileBucket(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "maps")
	s, err := Open(context.Background(), "file://"+filepath.ToSlash(dir), "")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Put(context.Background(), "u1/1.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)
	require.NoError(t, s.HealthPing(context.Background()))
}

func TestKeyFor(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "user-1/1700000000123.png", KeyFor("user-1", "Barovia Map.PNG", now))
	assert.Equal(t, "user-1/1700000000123", KeyFor("user-1", "noext", now))
	assert.Equal(t, "user-1/1700000000123.pdf", KeyFor("user-1", "../../etc/passwd.pdf", now))
}

func TestURL(t *testing.T) {
	assert.Equal(t, "/api/maps/m1/file", openMem(t, "").URL("u/1.png", "m1"))
	assert.Equal(t, "https://cdn.example.com/maps/u/1.png", openMem(t, "https://cdn.example.com/maps/").URL("/u/1.png", "m1"))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "a/b", sanitizeKey("/../a/./b/.."))
	assert.Equal(t, "", sanitizeKey("../.."))
}

func TestPutRejectsEmptyKey(t *testing.T) {
	_, err := openMem(t, "").Put(context.Background(), "..", strings.NewReader("x"), "")
	assert.True(t, errors.Is(err, model.ErrValidation))
}
