package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps a single upload read from disk.
const DefaultMaxBytes int64 = 10 << 20

var ErrTooLarge = errors.New("upload exceeds size limit")

// File is a local file handle waiting to be sent as a multipart part.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Open reads path into memory and sniffs its content type. maxBytes <= 0
// applies DefaultMaxBytes.
func Open(path string, maxBytes int64) (*File, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes max)", filepath.Base(path), ErrTooLarge, maxBytes)
	}
	return FromBytes(filepath.Base(path), data), nil
}

// FromBytes wraps in-memory content, detecting the content type from the bytes.
func FromBytes(name string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: normalize(mimetype.Detect(data).String()),
		Data:        data,
	}
}

// IsImage reports whether the sniffed content type is an image.
func (f *File) IsImage() bool {
	return f != nil && strings.HasPrefix(f.ContentType, "image/")
}

// Size returns the number of bytes held.
func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// DataURL renders the file as a data URL, used as the local preview.
func (f *File) DataURL() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", f.ContentType, base64.StdEncoding.EncodeToString(f.Data))
}

func normalize(value string) string {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(value))
	if err != nil || mediaType == "" {
		return "application/octet-stream"
	}
	return strings.ToLower(mediaType)
}
