// Package blobsvc stores uploaded files on an afero filesystem.
package blobsvc

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/media"
)

type Store struct {
	fs      afero.Fs
	baseURL string
}

var _ media.BlobStore = (*Store)(nil) // interface compliance check

// NewStore returns a store rooted at fs. Stored files are served under baseURL.
func NewStore(fs afero.Fs, baseURL string) *Store {
	return &Store{fs: fs, baseURL: baseURL}
}

// NewDiskStore stores the files under conf.Storage.Root on the local disk.
func NewDiskStore(conf *core.Config) *Store {
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), conf.Storage.Root), conf.Storage.PublicBaseURL)
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	key = filepath.FromSlash(path.Clean("/" + key))
	if err := s.fs.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return 0, errors.Wrap(err, "creating blob dir")
	}
	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrap(err, "creating blob")
	}

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = s.fs.Remove(key)
		return 0, errors.Wrap(err, "writing blob")
	}
	return n, nil
}

func (s *Store) URL(key string) string {
	return strings.TrimSuffix(s.baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
