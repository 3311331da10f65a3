package model

// MapFile represents a decoded Build engine MAP file.
// This is the format-agnostic representation shared by the decoder,
// the classifier and the report writers. A MapFile is built by a single
// decode call and is not modified afterwards.
type MapFile struct {
	Version     int32    // Format version (7 for Duke Nukem 3D era maps)
	Player      Player   // Player start
	StartSector int16    // Sector containing the player start
	Sectors     []Sector // Sector records in file order
	Walls       []Wall   // Wall records in file order
	Sprites     []Sprite // Sprite records in file order
}

// Player holds the player start position and facing angle
type Player struct {
	Position Vec3I32
	Angle    int16 // Build angle units (2048 per full turn)
}

// Sector is a floor/ceiling bounded region made of a contiguous slice of walls
type Sector struct {
	WallPtr    int16 // Index of the first wall (not validated)
	WallCount  int16 // Number of walls (not validated)
	Ceiling    Plane
	Floor      Plane
	Visibility uint8
	Filler     uint8
	LoTag      Tag
	HiTag      Tag
	Extra      Tag
}

// Plane describes either the ceiling or the floor of a sector
type Plane struct {
	Height  int32 // Z coordinate, grows downwards
	Stat    int16 // Stat bitfield
	Pic     int16 // Picture (tile) number
	Slope   int16 // Slope ("heinum")
	Shade   int8
	Palette uint8
	Panning Vec2U8
}

// Wall is an oriented line segment bounding a sector
type Wall struct {
	Position   Vec2I32 // Start point; the end point is Walls[Point2].Position
	Point2     int16   // Next wall in the loop
	NextWall   int16   // Opposite wall in the neighbouring sector, -1 if none
	NextSector int16   // Neighbouring sector, -1 if none
	Stat       int16
	Pic        int16
	OverPic    int16 // Masked/overlay picture
	Shade      int8
	Palette    uint8
	Repeat     Vec2U8
	Panning    Vec2U8
	LoTag      Tag
	HiTag      Tag
	Extra      Tag
}

// Sprite is a point entity (item, enemy, effect, player start)
type Sprite struct {
	Position Vec3I32
	Stat     int16
	Pic      int16
	Shade    int8
	Palette  uint8
	ClipDist uint8
	Filler   uint8
	Repeat   Vec2U8
	Offset   Vec2I8
	Sector   int16 // Owning sector (not validated)
	Status   int16 // Status list ("statnum")
	Angle    int16
	Owner    int16
	Velocity Vec3I16
	LoTag    Tag
	HiTag    Tag
	Extra    Tag
}

// Tag is a raw 16-bit tag field (lotag, hitag, extra).
//
// Tags are opaque to the decoder; their meaning belongs to game code.
// Version 7 maps are decoded as unsigned values. Editors and game code
// often treat them as signed, so Int16 gives that view of the same bits.
type Tag uint16

// Int16 returns the tag reinterpreted as a signed 16-bit value
func (t Tag) Int16() int16 {
	return int16(t)
}

// Vec2I32 is a 2D point with 32-bit signed coordinates
type Vec2I32 struct {
	X, Y int32
}

// Vec3I32 is a 3D point with 32-bit signed coordinates
type Vec3I32 struct {
	X, Y, Z int32
}

// Vec3I16 is a 3D vector with 16-bit signed components
type Vec3I16 struct {
	X, Y, Z int16
}

// Vec2U8 is a pair of unsigned bytes (repeat, panning)
type Vec2U8 struct {
	X, Y uint8
}

// Vec2I8 is a pair of signed bytes (sprite offsets)
type Vec2I8 struct {
	X, Y int8
}

// Record sizes in bytes for MAP format version 7
const (
	HeaderSize = 20
	SectorSize = 40
	WallSize   = 32
	SpriteSize = 44
)

// NewMapFile creates a new empty map structure
func NewMapFile() *MapFile {
	return &MapFile{
		Sectors: make([]Sector, 0),
		Walls:   make([]Wall, 0),
		Sprites: make([]Sprite, 0),
	}
}
