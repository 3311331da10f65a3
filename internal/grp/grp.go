// Package grp reads Build engine GRP containers.
//
// A GRP file is a 12-byte "KenSilverman" signature, a 32-bit file count,
// a directory of 12-byte names and 32-bit sizes, and then the file bodies
// back to back in directory order.
package grp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Signature is the magic at the start of every GRP file
const Signature = "KenSilverman"

// ErrNoMaps is returned when a container holds no MAP files
var ErrNoMaps = errors.New("no MAP files found")

const (
	headerSize = 16 // signature + count
	entrySize  = 16 // name + size
)

// IsGRP reports whether the reader starts with the GRP signature
func IsGRP(r io.ReaderAt) bool {
	buf := make([]byte, len(Signature))
	if _, err := r.ReadAt(buf, 0); err != nil {
		return false
	}
	return string(buf) == Signature
}

// Entry is one file stored in a GRP container
type Entry struct {
	Name   string // Upper-case DOS name, NUL padding removed
	Offset int64  // Offset of the body inside the container
	Size   int64

	r io.ReaderAt
}

// Open returns a reader over the entry's body
func (e *Entry) Open() *io.SectionReader {
	return io.NewSectionReader(e.r, e.Offset, e.Size)
}

// IsMap reports whether the entry is a MAP file
func (e *Entry) IsMap() bool {
	return strings.EqualFold(filepath.Ext(e.Name), ".map")
}

// Archive is a parsed GRP directory
type Archive struct {
	entries []*Entry
}

// Open parses the GRP directory from r. Bodies are not read until an
// entry is opened.
func Open(r io.ReaderAt, size int64) (*Archive, error) {
	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(header[:len(Signature)]) != Signature {
		return nil, fmt.Errorf("invalid GRP signature: %q (expected %s)", header[:len(Signature)], Signature)
	}

	count := int64(binary.LittleEndian.Uint32(header[len(Signature):]))
	dirEnd := headerSize + count*entrySize
	if dirEnd > size {
		return nil, fmt.Errorf("directory of %d entries runs past end of file (%d bytes)", count, size)
	}

	dir := make([]byte, count*entrySize)
	if count > 0 {
		if _, err := r.ReadAt(dir, headerSize); err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
	}

	a := &Archive{entries: make([]*Entry, 0, count)}
	offset := dirEnd
	for i := int64(0); i < count; i++ {
		raw := dir[i*entrySize : (i+1)*entrySize]
		e := &Entry{
			Name:   strings.TrimRight(string(raw[:12]), "\x00 "),
			Offset: offset,
			Size:   int64(binary.LittleEndian.Uint32(raw[12:])),
			r:      r,
		}
		if e.Offset+e.Size > size {
			return nil, fmt.Errorf("entry %s (%d bytes at %d) runs past end of file", e.Name, e.Size, e.Offset)
		}
		offset += e.Size
		a.entries = append(a.entries, e)
	}

	return a, nil
}

// Entries returns every entry in directory order
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// Maps returns the MAP entries in directory order
func (a *Archive) Maps() []*Entry {
	var maps []*Entry
	for _, e := range a.entries {
		if e.IsMap() {
			maps = append(maps, e)
		}
	}
	return maps
}

// ExtractMaps extracts the MAP files from a GRP container into outputDir.
// Returns the list of extracted file paths.
func ExtractMaps(grpPath string, outputDir string) ([]string, error) {
	file, err := os.Open(grpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open grp file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat grp file: %w", err)
	}

	archive, err := Open(file, stat.Size())
	if err != nil {
		return nil, err
	}

	maps := archive.Maps()
	if len(maps) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMaps, grpPath)
	}

	// Names come from the container and must stay inside outputDir
	for _, e := range maps {
		if err := checkName(e.Name); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var extractedFiles []string
	for _, e := range maps {
		outputPath := filepath.Join(outputDir, strings.ToLower(e.Name))
		if err := extractEntry(e, outputPath); err != nil {
			return nil, err
		}
		extractedFiles = append(extractedFiles, outputPath)
	}

	return extractedFiles, nil
}

// checkName rejects entry names that are not a single plain file name
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\:`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid entry name %q", name)
	}
	return nil
}

func extractEntry(e *Entry, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}

	if _, err := io.Copy(outFile, e.Open()); err != nil {
		outFile.Close()
		return fmt.Errorf("failed to write MAP file %s: %w", outputPath, err)
	}
	return outFile.Close()
}
