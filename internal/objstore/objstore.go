// Package objstore keeps uploaded map files in a gocloud.dev bucket.
// The bucket URL picks the driver: mem:// for tests, file:///dir for local
// builds, s3://bucket?region=... for cloud.
package objstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/tablekeep/tablekeep/internal/model"
)

// Store wraps a bucket with the key and URL conventions used for maps.
type Store struct {
	bk         *blob.Bucket
	publicBase string
}

// Open opens the bucket at bucketURL. publicBase, when set, is the prefix
// under which the bucket is publicly readable.
func Open(ctx context.Context, bucketURL, publicBase string) (*Store, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("parse bucket url: %w", err)
	}
	if u.Scheme == "file" {
		if err := os.MkdirAll(filepath.FromSlash(u.Path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure bucket dir: %w", err)
		}
	}
	bk, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", u.Scheme, err)
	}
	return NewWithBucket(bk, publicBase), nil
}

func NewWithBucket(bk *blob.Bucket, publicBase string) *Store {
	return &Store{bk: bk, publicBase: strings.TrimRight(publicBase, "/")}
}

// Put streams r into key and returns the number of bytes written.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	key = sanitizeKey(key)
	if key == "" {
		return 0, fmt.Errorf("%w: empty object key", model.ErrValidation)
	}
	w, err := s.bk.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}

// Object is an open blob plus its metadata. Callers must Close it.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Get opens key for reading. Missing keys return model.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*Object, error) {
	r, err := s.bk.NewReader(ctx, sanitizeKey(key), nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("object %s: %w", key, model.ErrNotFound)
		}
		return nil, err
	}
	return &Object{ReadCloser: r, ContentType: r.ContentType(), Size: r.Size(), ModTime: r.ModTime()}, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.bk.Delete(ctx, sanitizeKey(key))
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return err
	}
	return nil
}

// URL returns where clients fetch the object: under the public base when
// configured, otherwise through the API download route for mapID.
func (s *Store) URL(key, mapID string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + sanitizeKey(key)
	}
	return "/api/maps/" + url.PathEscape(mapID) + "/file"
}

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	ok, err := s.bk.IsAccessible(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket not accessible")
	}
	return nil
}

func (s *Store) Close() error { return s.bk.Close() }

// KeyFor names the object for an upload: <userID>/<unix millis><ext>.
func KeyFor(userID, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(filename)))
	return sanitizeKey(userID + "/" + strconv.FormatInt(now.UnixMilli(), 10) + ext)
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}
