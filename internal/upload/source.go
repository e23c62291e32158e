package upload

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Source is an uploaded payload that can be read more than once. The image
// pipeline reopens it for every variant it decodes.
type Source interface {
	Filename() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type fileHeaderSource struct {
	fh *multipart.FileHeader
}

// FromFileHeader adapts a multipart form file.
func FromFileHeader(fh *multipart.FileHeader) Source {
	return fileHeaderSource{fh: fh}
}

func (s fileHeaderSource) Filename() string { return s.fh.Filename }
func (s fileHeaderSource) Size() int64      { return s.fh.Size }

func (s fileHeaderSource) Open() (io.ReadCloser, error) {
	return s.fh.Open()
}

type bytesSource struct {
	name string
	data []byte
}

// FromBytes wraps an in-memory payload.
func FromBytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) Filename() string { return s.name }
func (s bytesSource) Size() int64      { return int64(len(s.data)) }

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}
