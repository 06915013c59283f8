package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Gzip is the default archive codec
type Gzip struct {
	// Level is the gzip compression level, zero selects gzip.DefaultCompression
	Level int
}

func (Gzip) Name() string      { return "gzip" }
func (Gzip) Extension() string { return "gz" }

// CompressStream writes a single gzip member containing all of src
func (g Gzip) CompressStream(src io.Reader, dst io.Writer) error {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	zw, err := gzip.NewWriterLevel(dst, level)
	if err != nil {
		return err
	}
	if err := copyChunked(zw, src); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// DecompressStream inflates a gzip stream
func (Gzip) DecompressStream(src io.Reader, dst io.Writer) error {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return err
	}
	if err := copyChunked(dst, zr); err != nil {
		zr.Close()
		return err
	}
	return zr.Close()
}

// Zstd trades a little CPU for smaller archives
type Zstd struct{}

func (Zstd) Name() string      { return "zstd" }
func (Zstd) Extension() string { return "zst" }

func (Zstd) CompressStream(src io.Reader, dst io.Writer) error {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return err
	}
	if err := copyChunked(enc, src); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (Zstd) DecompressStream(src io.Reader, dst io.Writer) error {
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return err
	}
	defer dec.Close()
	return copyChunked(dst, dec)
}
