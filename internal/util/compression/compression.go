// Package compression wraps the codecs used for blobs stored in SQLite.
package compression

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrUnknownCodec  = errors.New("compression: unknown codec")
	ErrUnknownFormat = errors.New("compression: unrecognized frame")
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// New returns a Compressor that writes with the named codec, "zstd" or
// "gzip", and reads blobs written by either.
func New(name string) (Compressor, error) {
	switch name {
	case "zstd", "":
		return Auto{Writer: ZstdCompressor{}}, nil
	case "gzip":
		return Auto{Writer: GzipCompressor{}}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
	}
}

// Default writes zstd.
func Default() Compressor {
	return Auto{Writer: ZstdCompressor{}}
}

// Auto compresses with Writer and picks the decoder from the frame magic, so
// switching the configured codec keeps older rows readable.
type Auto struct {
	Writer Compressor
}

func (a Auto) Compress(data []byte) ([]byte, error) {
	return a.Writer.Compress(data)
}

func (a Auto) Decompress(data []byte) ([]byte, error) {
	switch {
	case len(data) == 0:
		// zstd encodes empty input as zero bytes.
		return nil, nil
	case bytes.HasPrefix(data, zstdMagic):
		return ZstdCompressor{}.Decompress(data)
	case bytes.HasPrefix(data, gzipMagic):
		return GzipCompressor{}.Decompress(data)
	default:
		return nil, ErrUnknownFormat
	}
}
