package locales

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestLocalePath(t *testing.T) {
	assert.Equal(t, "out/locale-en.json", localePath("out", "en"))
	assert.Equal(t, "out/locale-en.json", localePath("out/", "en"))
	assert.Equal(t, "/tmp/out/locale-fr.json", localePath("/tmp//out", "fr"))
}

func TestDirSink(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "nested", "i18n")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	stale := filepath.Join(dest, "unrelated.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	s := NewDirSink(dest + "/")
	require.NoError(t, s.Clean(ctx))
	assert.NoDirExists(t, dest)

	name, err := s.Write(ctx, "en", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "locale-en.json"), name)
	got, err := os.ReadFile(filepath.Join(dest, "locale-en.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
	require.NoError(t, s.Close())
}

func TestDirSinkCleanMissing(t *testing.T) {
	s := NewDirSink(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, s.Clean(context.Background()))
}

func TestBucketSink(t *testing.T) {
	ctx := context.Background()
	b := memblob.OpenBucket(nil)
	defer b.Close()

	require.NoError(t, b.WriteAll(ctx, "i18n/locale-fr.json", []byte("old"), nil))
	require.NoError(t, b.WriteAll(ctx, "i18n/sub/other.txt", []byte("old"), nil))
	require.NoError(t, b.WriteAll(ctx, "i18n-keep/locale-fr.json", []byte("keep"), nil))
	require.NoError(t, b.WriteAll(ctx, "index.html", []byte("keep"), nil))

	s := newBucketSink(b, "mem://", "/i18n/", "no-cache")
	require.NoError(t, s.Clean(ctx))

	for key, want := range map[string]bool{
		"i18n/locale-fr.json":      false,
		"i18n/sub/other.txt":       false,
		"i18n-keep/locale-fr.json": true,
		"index.html":               true,
	} {
		ok, err := b.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}

	key, err := s.Write(ctx, "en", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "i18n/locale-en.json", key)

	attrs, err := b.Attributes(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "application/json", attrs.ContentType)
	assert.Equal(t, "no-cache", attrs.CacheControl)
}

func TestBucketSinkRootPrefix(t *testing.T) {
	b := memblob.OpenBucket(nil)
	defer b.Close()
	s := newBucketSink(b, "mem://", ".", "")
	assert.Equal(t, "locale-de.json", s.key("de"))
}

func TestOpenBucketSinkRefusesRoot(t *testing.T) {
	for _, dest := range []string{".", "/", "//", "a/.."} {
		_, err := OpenBucketSink(context.Background(), "mem://", dest, "")
		assert.ErrorIs(t, err, ErrBucketRoot, dest)
	}
	s, err := OpenBucketSink(context.Background(), "mem://", "/i18n", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
