package locales

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Sink is the destination for locale files. Clean removes everything a
// previous run may have left behind and must finish before Write is called.
type Sink interface {
	Clean(ctx context.Context) error
	Write(ctx context.Context, lang string, data []byte) (string, error)
	Close() error
}

func localeName(lang string) string {
	return "locale-" + lang + ".json"
}

// localePath joins dest and the locale file name. A doubled slash left by
// a trailing slash on dest is collapsed once.
func localePath(dest, lang string) string {
	return strings.Replace(dest+"/"+localeName(lang), "//", "/", 1)
}

type dirSink struct {
	dest string
}

// NewDirSink writes locale files into the local directory dest.
func NewDirSink(dest string) Sink {
	return &dirSink{dest}
}

func (d *dirSink) Clean(ctx context.Context) error {
	if err := os.RemoveAll(d.dest); err != nil {
		return fmt.Errorf("could not remove %q: %w", d.dest, err)
	}
	return nil
}

func (d *dirSink) Write(ctx context.Context, lang string, data []byte) (string, error) {
	name := localePath(d.dest, lang)
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return name, err
	}
	return name, os.WriteFile(name, data, 0o644)
}

func (d *dirSink) Close() error { return nil }

type bucketSink struct {
	b            *blob.Bucket
	url          string
	prefix       string
	cacheControl string
}

var ErrBucketRoot = errors.New("destination would clean the whole bucket")

func bucketPrefix(dest string) string {
	return strings.TrimPrefix(path.Clean("/"+dest), "/")
}

// OpenBucketSink writes locale files under the dest prefix of the bucket at url.
func OpenBucketSink(ctx context.Context, url, dest, cacheControl string) (Sink, error) {
	if bucketPrefix(dest) == "" {
		return nil, fmt.Errorf("%w: %q", ErrBucketRoot, dest)
	}
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not open bucket: %w", err)
	}
	return newBucketSink(b, url, dest, cacheControl), nil
}

func newBucketSink(b *blob.Bucket, url, dest, cacheControl string) *bucketSink {
	return &bucketSink{b, url, bucketPrefix(dest), cacheControl}
}

func (s *bucketSink) key(lang string) string {
	return path.Join(s.prefix, localeName(lang))
}

func (s *bucketSink) Clean(ctx context.Context) error {
	opts := blob.ListOptions{}
	if s.prefix != "" {
		opts.Prefix = s.prefix + "/"
	}
	iter := s.b.List(&opts)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not list %q: %w", s.url, err)
		}
		if obj.IsDir {
			continue
		}
		if err = s.b.Delete(ctx, obj.Key); err != nil {
			return fmt.Errorf("could not delete %q: %w", obj.Key, err)
		}
	}
}

func (s *bucketSink) Write(ctx context.Context, lang string, data []byte) (string, error) {
	key := s.key(lang)
	opts := blob.WriterOptions{
		CacheControl: s.cacheControl,
		ContentType:  "application/json",
	}
	return key, s.b.WriteAll(ctx, key, data, &opts)
}

func (s *bucketSink) Close() error {
	return s.b.Close()
}
