package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyuri/mapinfo/internal/grp"
	"github.com/dyuri/mapinfo/pkg/mapinfo"
)

// emptyMap is a version 7 map with no records
func emptyMap() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(7))
	binary.Write(&buf, binary.LittleEndian, make([]byte, 16))
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 0, 0})
	return buf.Bytes()
}

func writeGRP(t *testing.T, path string, names []string, bodies [][]byte) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(grp.Signature)
	binary.Write(&buf, binary.LittleEndian, uint32(len(names)))
	for i, n := range names {
		var name [12]byte
		copy(name[:], n)
		buf.Write(name[:])
		binary.Write(&buf, binary.LittleEndian, uint32(len(bodies[i])))
	}
	for _, b := range bodies {
		buf.Write(b)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandAndDecode(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.map")
	if err := os.WriteFile(plain, emptyMap(), 0644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.map")
	if err := os.WriteFile(broken, emptyMap()[:12], 0644); err != nil {
		t.Fatal(err)
	}
	container := filepath.Join(dir, "game.grp")
	writeGRP(t, container,
		[]string{"E1L1.MAP", "GAME.CON", "E1L2.MAP"},
		[][]byte{emptyMap(), []byte("define"), emptyMap()[:20]})
	missing := filepath.Join(dir, "missing.map")

	targets, err := expandTargets([]string{plain, container, broken, missing})
	if err != nil {
		t.Fatalf("expandTargets failed: %v", err)
	}

	wantNames := []string{plain, container + ":E1L1.MAP", container + ":E1L2.MAP", broken, missing}
	if len(targets) != len(wantNames) {
		t.Fatalf("Got %d targets, want %d", len(targets), len(wantNames))
	}
	for i, name := range wantNames {
		if targets[i].name != name {
			t.Errorf("target %d = %q, want %q", i, targets[i].name, name)
		}
	}

	for _, jobs := range []int{1, 3} {
		results := decodeAll(targets, jobs)

		for i, res := range results {
			if res.target.name != wantNames[i] {
				t.Errorf("jobs=%d: result %d is %q, want %q", jobs, i, res.target.name, wantNames[i])
			}
		}
		if results[0].err != nil || results[1].err != nil {
			t.Errorf("jobs=%d: unexpected errors %v, %v", jobs, results[0].err, results[1].err)
		}
		if !errors.Is(results[2].err, mapinfo.ErrTruncated) {
			t.Errorf("jobs=%d: GRP member err = %v, want ErrTruncated", jobs, results[2].err)
		}
		if !errors.Is(results[3].err, mapinfo.ErrTruncated) {
			t.Errorf("jobs=%d: broken err = %v, want ErrTruncated", jobs, results[3].err)
		}
		if !errors.Is(results[4].err, mapinfo.ErrUnavailable) {
			t.Errorf("jobs=%d: missing err = %v, want ErrUnavailable", jobs, results[4].err)
		}
	}
}

func TestExpandGRPWithoutMaps(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.map")
	if err := os.WriteFile(plain, emptyMap(), 0644); err != nil {
		t.Fatal(err)
	}
	sounds := filepath.Join(dir, "sounds.grp")
	writeGRP(t, sounds, []string{"BOOM.VOC"}, [][]byte{[]byte("voc")})

	targets, err := expandTargets([]string{plain, sounds})
	if !errors.Is(err, grp.ErrNoMaps) {
		t.Fatalf("expandTargets = %v, %v, want ErrNoMaps", targets, err)
	}
	if !strings.Contains(err.Error(), sounds) {
		t.Errorf("error %q does not name the container", err)
	}
}
