package binary

import (
	"fmt"
	"io"

	"github.com/dyuri/mapinfo/internal/model"
	"github.com/sirupsen/logrus"
)

// Reader handles parsing of binary MAP files
type Reader struct {
	c *Cursor
}

// Header holds the fixed fields at the start of a MAP file
type Header struct {
	Version     int32
	Player      model.Player
	StartSector int16
}

// NewReader creates a new binary MAP reader
func NewReader(r io.ReaderAt, size int64) *Reader {
	return &Reader{c: NewCursor(r, size)}
}

// Offset returns the offset of the next byte to be decoded
func (r *Reader) Offset() int64 {
	return r.c.Offset()
}

// Parse reads the entire MAP file and returns the internal model.
//
// Counts are read immediately before their arrays. Bytes after the
// sprite array are ignored.
func (r *Reader) Parse() (*model.MapFile, error) {
	m := model.NewMapFile()

	// Read header
	header, err := r.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	m.Version = header.Version
	m.Player = header.Player
	m.StartSector = header.StartSector

	m.Sectors, err = readRecords(r, "sector", model.SectorSize, r.readSector)
	if err != nil {
		return nil, fmt.Errorf("read sectors: %w", err)
	}

	m.Walls, err = readRecords(r, "wall", model.WallSize, r.readWall)
	if err != nil {
		return nil, fmt.Errorf("read walls: %w", err)
	}

	m.Sprites, err = readRecords(r, "sprite", model.SpriteSize, r.readSprite)
	if err != nil {
		return nil, fmt.Errorf("read sprites: %w", err)
	}

	if rest := r.c.Remaining(); rest > 0 {
		logger.WithFields(logrus.Fields{
			"offset":   r.c.Offset(),
			"trailing": rest,
		}).Debug("ignoring trailing bytes")
	}

	return m, nil
}

// ReadHeader reads the version, player start and start sector.
// It must be the first read on a Reader.
func (r *Reader) ReadHeader() (*Header, error) {
	h := &Header{}
	h.Version = r.c.ReadI32("version")
	h.Player.Position = r.c.ReadVec3I32("player.position")
	h.Player.Angle = r.c.ReadI16("player.angle")
	h.StartSector = r.c.ReadI16("start sector")
	if err := r.c.Err(); err != nil {
		return nil, err
	}

	if h.Version != 7 {
		// Other versions are not supported, but the layout may still match
		logger.WithField("version", h.Version).Warn("unexpected MAP version")
	}
	return h, nil
}

// readRecords reads a 16-bit count and exactly that many fixed-size records
func readRecords[T any](r *Reader, kind string, size int64, decode func(*T)) ([]T, error) {
	count := r.c.ReadU16(kind + " count")
	if err := r.c.Err(); err != nil {
		return nil, err
	}

	// Check the whole array fits before allocating for it
	if err := r.c.Require(fmt.Sprintf("%d %s records", count, kind), int64(count)*size); err != nil {
		return nil, err
	}

	records := make([]T, count)
	for i := range records {
		decode(&records[i])
		if err := r.c.Err(); err != nil {
			return nil, fmt.Errorf("%s %d: %w", kind, i, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"kind":   kind,
		"count":  count,
		"offset": r.c.Offset(),
	}).Debug("read records")
	return records, nil
}

// readSector decodes one 40-byte sector record.
// Heights and stats of both planes come first, then the remaining
// ceiling fields, then the remaining floor fields.
func (r *Reader) readSector(s *model.Sector) {
	c := r.c
	s.WallPtr = c.ReadI16("wallptr")
	s.WallCount = c.ReadI16("wallnum")

	s.Ceiling.Height = c.ReadI32("ceiling.height")
	s.Floor.Height = c.ReadI32("floor.height")

	s.Ceiling.Stat = c.ReadI16("ceiling.stat")
	s.Floor.Stat = c.ReadI16("floor.stat")

	readPlane(c, "ceiling", &s.Ceiling)
	readPlane(c, "floor", &s.Floor)

	s.Visibility = c.ReadU8("visibility")
	s.Filler = c.ReadU8("filler")

	s.LoTag = c.ReadTag("lotag")
	s.HiTag = c.ReadTag("hitag")
	s.Extra = c.ReadTag("extra")
}

// readPlane reads the plane fields that follow the heights and stats
func readPlane(c *Cursor, name string, p *model.Plane) {
	p.Pic = c.ReadI16(name + ".pic")
	p.Slope = c.ReadI16(name + ".slope")
	p.Shade = c.ReadI8(name + ".shade")
	p.Palette = c.ReadU8(name + ".palette")
	p.Panning = c.ReadVec2U8(name + ".panning")
}

// readWall decodes one 32-byte wall record
func (r *Reader) readWall(w *model.Wall) {
	c := r.c
	w.Position = c.ReadVec2I32("position")

	w.Point2 = c.ReadI16("point2")
	w.NextWall = c.ReadI16("nextwall")
	w.NextSector = c.ReadI16("nextsector")

	w.Stat = c.ReadI16("stat")
	w.Pic = c.ReadI16("pic")
	w.OverPic = c.ReadI16("overpic")

	w.Shade = c.ReadI8("shade")
	w.Palette = c.ReadU8("palette")
	w.Repeat = c.ReadVec2U8("repeat")
	w.Panning = c.ReadVec2U8("panning")

	w.LoTag = c.ReadTag("lotag")
	w.HiTag = c.ReadTag("hitag")
	w.Extra = c.ReadTag("extra")
}

// readSprite decodes one 44-byte sprite record
func (r *Reader) readSprite(s *model.Sprite) {
	c := r.c
	s.Position = c.ReadVec3I32("position")

	s.Stat = c.ReadI16("stat")
	s.Pic = c.ReadI16("pic")
	s.Shade = c.ReadI8("shade")
	s.Palette = c.ReadU8("palette")
	s.ClipDist = c.ReadU8("clipdist")
	s.Filler = c.ReadU8("filler")

	s.Repeat = c.ReadVec2U8("repeat")
	s.Offset = c.ReadVec2I8("offset")

	s.Sector = c.ReadI16("sector")
	s.Status = c.ReadI16("status")
	s.Angle = c.ReadI16("angle")
	s.Owner = c.ReadI16("owner")
	s.Velocity = c.ReadVec3I16("velocity")

	s.LoTag = c.ReadTag("lotag")
	s.HiTag = c.ReadTag("hitag")
	s.Extra = c.ReadTag("extra")
}
