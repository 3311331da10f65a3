// Package mapinfo provides functions for working with Build engine MAP files.
//
// This package can be used as a library to decode MAP files and classify
// the levels they describe.
//
// Example usage:
//
//	f, _ := os.Open("e1l1.map")
//	defer f.Close()
//	stat, _ := f.Stat()
//
//	m, err := mapinfo.ParseBinaryMAP(f, stat.Size())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := mapinfo.Classify(m)
//	fmt.Println(result.SinglePlayer, result.Coop, result.Deathmatch)
package mapinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dyuri/mapinfo/internal/binary"
	"github.com/dyuri/mapinfo/internal/classify"
	"github.com/dyuri/mapinfo/internal/model"
)

// ParseBinaryMAP reads a binary MAP file and returns the internal model.
//
// The reader must support ReadAt for random access. The size parameter
// should be the total file size in bytes. Either the whole map is
// returned or an error; there is no partial result.
func ParseBinaryMAP(r io.ReaderAt, size int64) (*model.MapFile, error) {
	m, err := binary.NewReader(r, size).Parse()
	if err != nil {
		return nil, wrapDecodeError("", err)
	}
	return m, nil
}

// ParseMAP reads a MAP file from a sequential reader.
// The whole stream is buffered in memory first.
func ParseMAP(r io.Reader) (*model.MapFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Code: CodeUnavailable, Message: "read input", Cause: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	return ParseBinaryMAP(bytes.NewReader(data), int64(len(data)))
}

// ParseFile opens and decodes the MAP file at path.
// Errors carry the path.
func ParseFile(path string) (*model.MapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Code: CodeUnavailable, Message: "open input file", Path: path, Cause: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &Error{Code: CodeUnavailable, Message: "stat input file", Path: path, Cause: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	m, err := binary.NewReader(f, stat.Size()).Parse()
	if err != nil {
		return nil, wrapDecodeError(path, err)
	}
	return m, nil
}

// Classify runs every classification over a decoded map.
// It does not modify the map and is safe for concurrent use.
func Classify(m *model.MapFile) classify.Result {
	return classify.Classify(m)
}

func wrapDecodeError(path string, err error) error {
	e := &Error{Code: CodeInvalidFormat, Message: "decode MAP file", Path: path, Cause: err}
	switch {
	case errors.Is(err, ErrTruncated):
		e.Code = CodeTruncated
	case errors.Is(err, ErrUnavailable):
		e.Code = CodeUnavailable
	}
	var te *binary.TruncatedError
	if errors.As(err, &te) {
		e.Offset = te.Offset
		e.Field = te.Field
	}
	return e
}

// Error codes
const (
	CodeTruncated     = "truncated"
	CodeUnavailable   = "unavailable"
	CodeInvalidFormat = "invalid_format"
)

// Common errors
var (
	// ErrTruncated matches decode failures caused by missing bytes
	ErrTruncated = binary.ErrTruncated
	// ErrUnavailable matches failures to open or read the input at all
	ErrUnavailable = binary.ErrUnavailable
)

// Error represents a mapinfo error
type Error struct {
	Code    string
	Message string
	Path    string // File identity, empty for in-memory input
	Field   string // Field being read, when known
	Offset  int64  // Byte offset, meaningful when Field is set
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
