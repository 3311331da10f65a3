package text

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dyuri/mapinfo/internal/classify"
	"github.com/dyuri/mapinfo/internal/model"
	"gopkg.in/yaml.v3"
)

func testReport() Report {
	m := &model.MapFile{
		Version:     7,
		Player:      model.Player{Position: model.Vec3I32{X: 1024, Y: -512, Z: 0}, Angle: 1536},
		StartSector: 3,
		Sectors:     make([]model.Sector, 1025),
		Walls:       make([]model.Wall, 40),
		Sprites: []model.Sprite{
			{Pic: 1405, LoTag: 1},
			{Pic: 1405, LoTag: 1},
			{Pic: 142, LoTag: 65535},
		},
	}
	return NewReport("e1l1.map", m, classify.Classify(m))
}

func TestNewReport(t *testing.T) {
	r := testReport()

	if r.Counts != (Counts{Sectors: 1025, Walls: 40, Sprites: 3}) {
		t.Errorf("Counts = %+v", r.Counts)
	}
	want := Modes{SinglePlayer: "Normal nuke button", Coop: "3", Deathmatch: "unsupported"}
	if r.Modes != want {
		t.Errorf("Modes = %+v, want %+v", r.Modes, want)
	}
	if r.Compatible {
		t.Error("Compatible = true, want false with 1025 sectors")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(testReport()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"e1l1.map is a MAP format 7, with player start position (1,024, -512, 0) and angle 1,536 in sector 3.",
		"The map has 1,025 sectors, 40 walls, and 3 sprites.",
		"Single-player:    Normal nuke button\n",
		"Cooperative:      3\n",
		"Deathmatch:       unsupported\n",
		"Build compatible: No (1,025/1,024 sectors, 40/8,192 walls, 3/4,096 sprites)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, out)
		}
	}
}

func TestWriteBrief(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteBrief(testReport()); err != nil {
		t.Fatalf("WriteBrief failed: %v", err)
	}

	want := `e1l1.map: version=7 sectors=1025 walls=40 sprites=3 sp="Normal nuke button" coop=3 dm=unsupported build=No` + "\n"
	if buf.String() != want {
		t.Errorf("WriteBrief = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []Report{testReport()}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("Got %d reports, want 1", len(decoded))
	}
	modes, ok := decoded[0]["modes"].(map[string]any)
	if !ok || modes["coop"] != "3" {
		t.Errorf("modes = %v, want coop 3", decoded[0]["modes"])
	}
	if decoded[0]["buildCompatible"] != false {
		t.Errorf("buildCompatible = %v, want false", decoded[0]["buildCompatible"])
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, []Report{testReport()}); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	var decoded []Report
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Modes.SinglePlayer != "Normal nuke button" {
		t.Errorf("decoded = %+v", decoded)
	}
	if !strings.Contains(buf.String(), "single_player: Normal nuke button") {
		t.Errorf("YAML missing snake_case key:\n%s", buf.String())
	}
}

// recordingWriter counts writes and fails when told to
type recordingWriter struct {
	writes int
	err    error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.err != nil {
		return 0, w.err
	}
	return len(p), nil
}

func TestWriteErrors(t *testing.T) {
	rw := &recordingWriter{}
	if err := NewWriter(rw).Write(testReport()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rw.writes != 1 {
		t.Errorf("Write made %d writes, want 1", rw.writes)
	}

	diskFull := errors.New("disk full")
	rw = &recordingWriter{err: diskFull}
	if err := NewWriter(rw).Write(testReport()); !errors.Is(err, diskFull) {
		t.Errorf("Write err = %v, want %v", err, diskFull)
	}
}
