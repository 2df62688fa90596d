// Package upload stores images attached to a post and returns their public URL.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("upload: only images are accepted")
	ErrTooLarge        = errors.New("upload: image too large")
	ErrInvalidPurpose  = errors.New("upload: unknown purpose")
)

// Purpose tells where the image will be used.
type Purpose string

const (
	PurposeFeatured Purpose = "featured"
	PurposeContent  Purpose = "content"
)

func ParsePurpose(s string) (Purpose, error) {
	switch p := Purpose(s); p {
	case PurposeFeatured, PurposeContent:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPurpose, s)
}

type Image struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Uploader interface {
	Upload(ctx context.Context, purpose Purpose, img Image) (string, error)
}

// Validate checks the content type and the size limit. A maxSize of zero
// disables the size check.
func Validate(img Image, maxSize int64) error {
	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, img.ContentType)
	}
	if maxSize > 0 && img.Size > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, img.Size, maxSize)
	}
	return nil
}

// objectKey returns "<purpose>/<uuid><ext>" with the extension taken from
// the file name or, failing that, the content type.
func objectKey(purpose Purpose, img Image) string {
	ext := strings.ToLower(path.Ext(img.Name))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(img.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return string(purpose) + "/" + uuid.New().String() + ext
}

// limitBody fails reads past maxSize so a lying Size cannot bypass the limit.
func limitBody(r io.Reader, maxSize int64) io.Reader {
	if maxSize <= 0 {
		return r
	}
	return &limitedReader{r: io.LimitReader(r, maxSize+1), max: maxSize}
}

type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, ErrTooLarge
	}
	return n, err
}
