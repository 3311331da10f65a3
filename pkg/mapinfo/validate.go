package mapinfo

import (
	"fmt"

	"github.com/dyuri/mapinfo/internal/model"
)

// Validation levels
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// ValidationError represents a validation issue found in a MAP file
type ValidationError struct {
	Field   string // Record and field, e.g. "wall 12 nextsector"
	Message string // Error description
	Level   string // "error" or "warning"
}

func (v ValidationError) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the cross references of a decoded map.
//
// The decoder never checks indices between records; this is the place
// that does. Returns a list of validation errors/warnings. An empty
// list means every index points inside its array.
func Validate(m *model.MapFile) []ValidationError {
	v := &validator{m: m}
	v.validateHeader()
	v.validateSectors()
	v.validateWalls()
	v.validateSprites()
	return v.issues
}

type validator struct {
	m      *model.MapFile
	issues []ValidationError
}

func (v *validator) error(field, msg string, args ...interface{}) {
	v.issues = append(v.issues, ValidationError{Field: field, Message: fmt.Sprintf(msg, args...), Level: LevelError})
}

func (v *validator) warning(field, msg string, args ...interface{}) {
	v.issues = append(v.issues, ValidationError{Field: field, Message: fmt.Sprintf(msg, args...), Level: LevelWarning})
}

func (v *validator) validateHeader() {
	if v.m.Version != 7 {
		v.warning("header version", "unsupported MAP version %d (expected 7)", v.m.Version)
	}
	if !inRange(v.m.StartSector, len(v.m.Sectors)) {
		v.error("header start sector", "sector %d out of range (0-%d)", v.m.StartSector, len(v.m.Sectors)-1)
	}
}

func (v *validator) validateSectors() {
	walls := len(v.m.Walls)
	if len(v.m.Sectors) == 0 {
		v.warning("sectors", "map has no sectors")
	}

	for i, s := range v.m.Sectors {
		if s.WallCount < 0 {
			v.error(fmt.Sprintf("sector %d wallnum", i), "negative wall count %d", s.WallCount)
		} else if s.WallCount < 3 {
			v.warning(fmt.Sprintf("sector %d wallnum", i), "only %d walls", s.WallCount)
		}
		if s.WallPtr < 0 || int(s.WallPtr)+int(s.WallCount) > walls {
			v.error(fmt.Sprintf("sector %d wallptr", i),
				"walls %d-%d out of range (%d walls)", s.WallPtr, int(s.WallPtr)+int(s.WallCount)-1, walls)
		}
	}
}

func (v *validator) validateWalls() {
	walls, sectors := len(v.m.Walls), len(v.m.Sectors)

	for i, w := range v.m.Walls {
		if !inRange(w.Point2, walls) {
			v.error(fmt.Sprintf("wall %d point2", i), "wall %d out of range", w.Point2)
		}
		if w.NextWall != -1 && !inRange(w.NextWall, walls) {
			v.error(fmt.Sprintf("wall %d nextwall", i), "wall %d out of range", w.NextWall)
		}
		if w.NextSector != -1 && !inRange(w.NextSector, sectors) {
			v.error(fmt.Sprintf("wall %d nextsector", i), "sector %d out of range", w.NextSector)
		}
		if (w.NextWall == -1) != (w.NextSector == -1) {
			v.warning(fmt.Sprintf("wall %d", i), "nextwall %d and nextsector %d disagree", w.NextWall, w.NextSector)
		}
	}
}

func (v *validator) validateSprites() {
	sectors := len(v.m.Sectors)

	for i, s := range v.m.Sprites {
		if !inRange(s.Sector, sectors) {
			v.error(fmt.Sprintf("sprite %d sector", i), "sector %d out of range", s.Sector)
		}
	}
}

func inRange(idx int16, n int) bool {
	return idx >= 0 && int(idx) < n
}

// HasErrors reports whether any issue has error level
func HasErrors(issues []ValidationError) bool {
	for _, i := range issues {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}
