// Package media stores uploaded media files.
package media

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

type (
	// BlobStore persists opaque files under a key.
	BlobStore interface {
		Put(ctx context.Context, key string, r io.Reader) (int64, error)
		URL(key string) string
	}

	Upload struct {
		Filename    string
		ContentType string
		Size        int64
		Content     io.Reader
	}

	Stored struct {
		Path string `json:"path"`
		URL  string `json:"url"`
		Size int64  `json:"size"`
	}

	VideoService struct {
		store    BlobStore
		maxBytes int64
	}
)

func NewVideoService(store BlobStore, conf *core.Config) *VideoService {
	return &VideoService{store: store, maxBytes: conf.Videos.MaxBytes}
}

// Store validates the upload and saves it under videos/<uuid><ext>.
func (svc *VideoService) Store(ctx context.Context, up Upload) (Stored, error) {
	ext := strings.ToLower(path.Ext(up.Filename))
	mediaType, _, _ := mime.ParseMediaType(up.ContentType)
	if !strings.HasPrefix(mediaType, "video/") && !videoExtensions[ext] {
		return Stored{}, invalidVideo("the file must be a video (mp4, mov, webm, mkv, avi)")
	}
	if up.Size <= 0 {
		return Stored{}, invalidVideo("the file is empty")
	}
	if svc.maxBytes > 0 && up.Size > svc.maxBytes {
		return Stored{}, invalidVideo("the file is too large")
	}
	if !videoExtensions[ext] {
		ext = ".mp4"
		if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := path.Join("videos", uuid.New().String()+ext)
	size, err := svc.store.Put(ctx, key, up.Content)
	if err != nil {
		return Stored{}, errors.Wrap(err, "storing video")
	}
	return Stored{Path: key, URL: svc.store.URL(key), Size: size}, nil
}

func invalidVideo(msg string) error {
	return core.NewValidationError(errors.New(msg), core.FieldError{Field: "video", Error: msg})
}
