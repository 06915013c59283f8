// Package compress provides the streaming codecs used to archive rotated log
// files. All functions are stateless and safe for concurrent use.
package compress

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChunkSize is the copy buffer size used when streaming between files and codecs
const ChunkSize = 4096

// Codec is a symmetric stream compressor
type Codec interface {
	// Name returns the codec identifier used in configuration ("gzip", "zstd")
	Name() string
	// Extension returns the archive file suffix without a leading dot
	Extension() string
	// CompressStream reads src until EOF and writes the compressed form to dst
	CompressStream(src io.Reader, dst io.Writer) error
	// DecompressStream reads compressed src until EOF and writes the plain form to dst
	DecompressStream(src io.Reader, dst io.Writer) error
}

// ErrUnknownCodec is returned by ByName for unsupported codec names
var ErrUnknownCodec = errors.New("compress: unknown codec")

// ByName resolves a codec from its configuration name
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gzip", "gz", "":
		return Gzip{}, nil
	case "zstd", "zst":
		return Zstd{}, nil
	default:
		return nil, fmt.Errorf("%w: '%s' (use gzip or zstd)", ErrUnknownCodec, name)
	}
}

// CompressFile compresses src into dst. A missing src is a no-op.
// Any existing dst is removed before writing.
func CompressFile(c Codec, src, dst string) error {
	return transformFile(src, dst, c.CompressStream)
}

// DecompressFile is the mirror of CompressFile
func DecompressFile(c Codec, src, dst string) error {
	return transformFile(src, dst, c.DecompressStream)
}

func transformFile(src, dst string, fn func(io.Reader, io.Writer) error) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("compress: failed to open source '%s': %w", src, err)
	}
	defer in.Close()

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("compress: failed to remove existing target '%s': %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("compress: failed to create target '%s': %w", dst, err)
	}

	if err := fn(in, out); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("compress: '%s' -> '%s': %w", src, dst, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("compress: failed to sync target '%s': %w", dst, err)
	}
	return out.Close()
}

// CompressBytes compresses an in-memory payload
func CompressBytes(c Codec, data []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := c.CompressStream(bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecompressBytes decompresses an in-memory payload
func DecompressBytes(c Codec, data []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := c.DecompressStream(bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// CompressString compresses s and returns the result base64 encoded
func CompressString(c Codec, s string) (string, error) {
	b, err := CompressBytes(c, []byte(s))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecompressString reverses CompressString
func DecompressString(c Codec, s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("compress: invalid base64 payload: %w", err)
	}
	b, err := DecompressBytes(c, raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// copyChunked streams src to dst through a fixed ChunkSize buffer
func copyChunked(dst io.Writer, src io.Reader) error {
	buf := make([]byte, ChunkSize)
	_, err := io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, buf)
	return err
}
