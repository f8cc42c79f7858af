package intake

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"code.sajari.com/docconv"
)

// Selection is a file offered for staging.
type Selection struct {
	Name     string
	MimeType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FromPath describes a file on disk. The content is opened lazily at upload time.
func FromPath(path string) (Selection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Selection{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Selection{}, fmt.Errorf("%s is a directory", path)
	}

	return Selection{
		Name:     filepath.Base(path),
		MimeType: docconv.MimeTypeByExtension(path),
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes describes an in-memory file. An empty mimeType is derived from the name.
func FromBytes(name, mimeType string, data []byte) Selection {
	if mimeType == "" {
		mimeType = docconv.MimeTypeByExtension(name)
	}

	return Selection{
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
