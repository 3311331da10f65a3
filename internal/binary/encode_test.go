package binary

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/dyuri/mapinfo/internal/model"
)

// mapEncoder writes MAP version 7 bytes for test fixtures
type mapEncoder struct {
	t   *testing.T
	buf bytes.Buffer
}

func (e *mapEncoder) put(values ...any) {
	e.t.Helper()
	for _, v := range values {
		if err := binary.Write(&e.buf, binary.LittleEndian, v); err != nil {
			e.t.Fatalf("encode %T: %v", v, err)
		}
	}
}

// encodeMap serializes m with the counts taken from the slice lengths
func encodeMap(t *testing.T, m *model.MapFile) []byte {
	t.Helper()
	e := &mapEncoder{t: t}

	e.put(m.Version, m.Player.Position, m.Player.Angle, m.StartSector)

	e.put(uint16(len(m.Sectors)))
	for _, s := range m.Sectors {
		e.put(s.WallPtr, s.WallCount,
			s.Ceiling.Height, s.Floor.Height,
			s.Ceiling.Stat, s.Floor.Stat,
			s.Ceiling.Pic, s.Ceiling.Slope, s.Ceiling.Shade, s.Ceiling.Palette, s.Ceiling.Panning,
			s.Floor.Pic, s.Floor.Slope, s.Floor.Shade, s.Floor.Palette, s.Floor.Panning,
			s.Visibility, s.Filler,
			s.LoTag, s.HiTag, s.Extra)
	}

	e.put(uint16(len(m.Walls)))
	for _, w := range m.Walls {
		e.put(w.Position, w.Point2, w.NextWall, w.NextSector,
			w.Stat, w.Pic, w.OverPic, w.Shade, w.Palette,
			w.Repeat, w.Panning,
			w.LoTag, w.HiTag, w.Extra)
	}

	e.put(uint16(len(m.Sprites)))
	for _, s := range m.Sprites {
		e.put(s.Position, s.Stat, s.Pic, s.Shade, s.Palette, s.ClipDist, s.Filler,
			s.Repeat, s.Offset,
			s.Sector, s.Status, s.Angle, s.Owner, s.Velocity,
			s.LoTag, s.HiTag, s.Extra)
	}

	return e.buf.Bytes()
}

// sampleMap returns a small two-sector map with distinctive field values
func sampleMap() *model.MapFile {
	return &model.MapFile{
		Version:     7,
		Player:      model.Player{Position: model.Vec3I32{X: 1024, Y: -2048, Z: -8192}, Angle: 1536},
		StartSector: 1,
		Sectors: []model.Sector{
			{
				WallPtr: 0, WallCount: 4,
				Ceiling: model.Plane{Height: -16384, Stat: 1, Pic: 184, Slope: 0, Shade: -8, Palette: 0, Panning: model.Vec2U8{X: 3, Y: 4}},
				Floor:   model.Plane{Height: 8192, Stat: 2, Pic: 183, Slope: 512, Shade: 12, Palette: 2, Panning: model.Vec2U8{X: 5, Y: 6}},
				Visibility: 10, Filler: 0,
				LoTag: 1, HiTag: 2, Extra: 65535,
			},
			{
				WallPtr: 4, WallCount: 3,
				Ceiling: model.Plane{Height: -20000, Pic: 100},
				Floor:   model.Plane{Height: 9000, Pic: 101},
				LoTag:   20,
			},
		},
		Walls: []model.Wall{
			{Position: model.Vec2I32{X: 0, Y: 0}, Point2: 1, NextWall: -1, NextSector: -1, Pic: 1, Repeat: model.Vec2U8{X: 8, Y: 8}, Extra: 65535},
			{Position: model.Vec2I32{X: 1024, Y: 0}, Point2: 2, NextWall: 6, NextSector: 1, Stat: 0x10, Pic: 2, OverPic: 3, Shade: -1, Palette: 4},
			{Position: model.Vec2I32{X: 1024, Y: 1024}, Point2: 3, NextWall: -1, NextSector: -1, Panning: model.Vec2U8{X: 9, Y: 10}},
			{Position: model.Vec2I32{X: 0, Y: 1024}, Point2: 0, NextWall: -1, NextSector: -1, LoTag: 7, HiTag: 8},
			{Position: model.Vec2I32{X: 1024, Y: 0}, Point2: 5, NextWall: -1, NextSector: -1},
			{Position: model.Vec2I32{X: 2048, Y: 512}, Point2: 6, NextWall: -1, NextSector: -1},
			{Position: model.Vec2I32{X: 1024, Y: 1024}, Point2: 4, NextWall: 1, NextSector: 0},
		},
		Sprites: []model.Sprite{
			{
				Position: model.Vec3I32{X: 512, Y: 512, Z: 8192},
				Stat:     0x101, Pic: 1405, Shade: -4, Palette: 0, ClipDist: 32, Filler: 0,
				Repeat: model.Vec2U8{X: 42, Y: 36}, Offset: model.Vec2I8{X: -3, Y: 5},
				Sector: 0, Status: 10, Angle: 512, Owner: -1,
				Velocity: model.Vec3I16{X: 1, Y: -2, Z: 3},
				LoTag:    1, HiTag: 0, Extra: 65535,
			},
			{
				Position: model.Vec3I32{X: 1500, Y: 600, Z: 9000},
				Pic:      142, Sector: 1, Owner: -1,
				LoTag:    65535, HiTag: 32768, Extra: 65535,
			},
		},
	}
}
