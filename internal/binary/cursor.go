package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dyuri/mapinfo/internal/model"
	"golang.org/x/exp/constraints"
)

var (
	// ErrTruncated is matched by every error caused by the input ending
	// before a field, record or record array was complete.
	ErrTruncated = errors.New("truncated input")

	// ErrUnavailable is matched when the byte source itself fails.
	ErrUnavailable = errors.New("input unavailable")
)

// TruncatedError reports a read that would go past the end of the input
type TruncatedError struct {
	Field  string // Field, record or array being read
	Offset int64  // Offset of the read
	Width  int64  // Requested number of bytes
	Size   int64  // Total input size
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input reading %s at offset %d: need %d bytes, %d available",
		e.Field, e.Offset, e.Width, max(e.Size-e.Offset, 0))
}

// Is makes errors.Is(err, ErrTruncated) work for *TruncatedError
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// Cursor reads little-endian fixed-width fields sequentially from a
// byte source and keeps track of the current offset.
//
// The first failure is sticky: once a read fails, later reads return
// zero values without touching the source, and Err reports the first
// failure. The offset never advances past a failed read.
type Cursor struct {
	r      io.ReaderAt
	size   int64
	offset int64
	endian binary.ByteOrder // Build uses little-endian
	buf    [8]byte
	err    error
}

// NewCursor creates a cursor at offset 0 of a source holding size bytes
func NewCursor(r io.ReaderAt, size int64) *Cursor {
	return &Cursor{
		r:      r,
		size:   size,
		endian: binary.LittleEndian,
	}
}

// Offset returns the offset of the next read
func (c *Cursor) Offset() int64 {
	return c.offset
}

// Size returns the total input size
func (c *Cursor) Size() int64 {
	return c.size
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int64 {
	return max(c.size-c.offset, 0)
}

// Err returns the first error encountered by the cursor
func (c *Cursor) Err() error {
	return c.err
}

// Require checks that n more bytes are available without consuming them.
// It is used before sizing a record array from a declared count.
func (c *Cursor) Require(field string, n int64) error {
	if c.err != nil {
		return c.err
	}
	if n < 0 || n > c.Remaining() {
		c.err = &TruncatedError{Field: field, Offset: c.offset, Width: n, Size: c.size}
	}
	return c.err
}

// next returns the next n bytes and advances the offset, or nil on failure
func (c *Cursor) next(field string, n int) []byte {
	if c.err != nil {
		return nil
	}
	if n <= 0 || n > len(c.buf) {
		c.err = fmt.Errorf("read %s: unsupported field width %d", field, n)
		return nil
	}
	if c.Require(field, int64(n)) != nil {
		return nil
	}

	b := c.buf[:n]
	got, err := c.r.ReadAt(b, c.offset)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			// Source is shorter than the size we were given
			c.err = &TruncatedError{Field: field, Offset: c.offset, Width: int64(n), Size: c.offset + int64(got)}
		} else {
			c.err = fmt.Errorf("read %s at offset %d: %w: %w", field, c.offset, ErrUnavailable, err)
		}
		return nil
	}

	c.offset += int64(n)
	return b
}

// read decodes one fixed-width integer of type T
func read[T constraints.Integer](c *Cursor, field string) T {
	var v T
	b := c.next(field, binary.Size(v))
	if b == nil {
		return v
	}
	if _, err := binary.Decode(b, c.endian, &v); err != nil {
		c.err = fmt.Errorf("decode %s at offset %d: %w", field, c.offset-int64(len(b)), err)
	}
	return v
}

// ReadU8 reads an unsigned byte
func (c *Cursor) ReadU8(field string) uint8 {
	return read[uint8](c, field)
}

// ReadU16 reads an unsigned 16-bit integer
func (c *Cursor) ReadU16(field string) uint16 {
	return read[uint16](c, field)
}

// ReadU32 reads an unsigned 32-bit integer
func (c *Cursor) ReadU32(field string) uint32 {
	return read[uint32](c, field)
}

// ReadI8 reads a signed byte
func (c *Cursor) ReadI8(field string) int8 {
	return read[int8](c, field)
}

// ReadI16 reads a signed 16-bit integer
func (c *Cursor) ReadI16(field string) int16 {
	return read[int16](c, field)
}

// ReadI32 reads a signed 32-bit integer
func (c *Cursor) ReadI32(field string) int32 {
	return read[int32](c, field)
}

// ReadTag reads a raw 16-bit tag field
func (c *Cursor) ReadTag(field string) model.Tag {
	return read[model.Tag](c, field)
}

// ReadVec2I32 reads x then y as signed 32-bit integers
func (c *Cursor) ReadVec2I32(field string) model.Vec2I32 {
	x := c.ReadI32(field + ".x")
	y := c.ReadI32(field + ".y")
	return model.Vec2I32{X: x, Y: y}
}

// ReadVec3I32 reads x, y then z as signed 32-bit integers
func (c *Cursor) ReadVec3I32(field string) model.Vec3I32 {
	x := c.ReadI32(field + ".x")
	y := c.ReadI32(field + ".y")
	z := c.ReadI32(field + ".z")
	return model.Vec3I32{X: x, Y: y, Z: z}
}

// ReadVec3I16 reads x, y then z as signed 16-bit integers
func (c *Cursor) ReadVec3I16(field string) model.Vec3I16 {
	x := c.ReadI16(field + ".x")
	y := c.ReadI16(field + ".y")
	z := c.ReadI16(field + ".z")
	return model.Vec3I16{X: x, Y: y, Z: z}
}

// ReadVec2U8 reads x then y as unsigned bytes
func (c *Cursor) ReadVec2U8(field string) model.Vec2U8 {
	x := c.ReadU8(field + ".x")
	y := c.ReadU8(field + ".y")
	return model.Vec2U8{X: x, Y: y}
}

// ReadVec2I8 reads x then y as signed bytes
func (c *Cursor) ReadVec2I8(field string) model.Vec2I8 {
	x := c.ReadI8(field + ".x")
	y := c.ReadI8(field + ".y")
	return model.Vec2I8{X: x, Y: y}
}
