package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileUploader writes images below a directory served at URLPrefix.
type FileUploader struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

func NewFileUploader(dir, urlPrefix string, maxSize int64) (*FileUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", dir, err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &FileUploader{dir: dir, urlPrefix: urlPrefix, maxSize: maxSize}, nil
}

func (f *FileUploader) Dir() string {
	return f.dir
}

func (f *FileUploader) Upload(ctx context.Context, purpose Purpose, img Image) (string, error) {
	if err := Validate(img, f.maxSize); err != nil {
		return "", err
	}

	key := objectKey(purpose, img)
	dst := filepath.Join(f.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, limitBody(img.Body, f.maxSize)); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("error writing %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("error writing %s: %w", dst, err)
	}

	return f.urlPrefix + key, nil
}
