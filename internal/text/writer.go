package text

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyuri/mapinfo/internal/classify"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Writer handles writing map reports in human-readable form
type Writer struct {
	w io.Writer
	p *message.Printer
}

// NewWriter creates a new report writer. Numbers are grouped the
// English way (1,024).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, p: message.NewPrinter(language.English)}
}

// Write outputs the summary sentence followed by the classification.
// The report is formatted in full before anything reaches the
// underlying writer.
func (w *Writer) Write(r Report) error {
	var buf bytes.Buffer
	w.p.Fprintf(&buf,
		"%s is a MAP format %d, with player start position (%d, %d, %d) and angle %d in sector %d. "+
			"The map has %d sectors, %d walls, and %d sprites.\n",
		r.File, r.Version, r.Player.X, r.Player.Y, r.Player.Z, r.Player.Angle, r.StartSector,
		r.Counts.Sectors, r.Counts.Walls, r.Counts.Sprites)
	w.p.Fprintf(&buf, "  Single-player:    %s\n", r.Modes.SinglePlayer)
	w.p.Fprintf(&buf, "  Cooperative:      %s\n", r.Modes.Coop)
	w.p.Fprintf(&buf, "  Deathmatch:       %s\n", r.Modes.Deathmatch)
	w.p.Fprintf(&buf, "  Build compatible: %s (%d/%d sectors, %d/%d walls, %d/%d sprites)\n",
		yesNo(r.Compatible),
		r.Counts.Sectors, classify.MaxSectors, r.Counts.Walls, classify.MaxWalls, r.Counts.Sprites, classify.MaxSprites)

	_, err := buf.WriteTo(w.w)
	return err
}

// WriteBrief outputs a single line per map
func (w *Writer) WriteBrief(r Report) error {
	_, err := fmt.Fprintf(w.w, "%s: version=%d sectors=%d walls=%d sprites=%d sp=%q coop=%s dm=%s build=%s\n",
		r.File, r.Version, r.Counts.Sectors, r.Counts.Walls, r.Counts.Sprites,
		r.Modes.SinglePlayer, r.Modes.Coop, r.Modes.Deathmatch, yesNo(r.Compatible))
	return err
}

// WriteJSON writes the reports as an indented JSON array
func WriteJSON(w io.Writer, reports []Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

// WriteYAML writes the reports as a YAML sequence
func WriteYAML(w io.Writer, reports []Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(reports); err != nil {
		return err
	}
	return encoder.Close()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
