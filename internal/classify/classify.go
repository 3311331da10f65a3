// Package classify derives game mode and engine compatibility facts from
// a decoded MAP file.
//
// Every function here is read-only over the map and independent of the
// others, so they can be called in any order or concurrently.
package classify

import (
	"strconv"

	"github.com/dyuri/mapinfo/internal/model"
)

// Picture numbers the classifier looks for (Duke Nukem 3D tiles)
const (
	PicNukeButton  = 142  // Level exit button
	PicPlayerStart = 1405 // APLAYER, extra player start
)

// Build engine limits for the original game executable
const (
	MaxSectors = 1024
	MaxWalls   = 8192
	MaxSprites = 4096
)

// Player start lotags
const (
	LoTagCoopStart       = 1
	LoTagDeathmatchStart = 0
)

// Single-player results without a specific reason
const (
	SinglePlayerNo  = "No"
	SinglePlayerYes = "Yes"
)

// exitRule maps a nuke button sprite to the kind of exit it provides
type exitRule struct {
	match  func(s *model.Sprite) bool
	reason string
}

// exitRules is walked in order; the first rule matched by any nuke
// button wins.
var exitRules = []exitRule{
	{func(s *model.Sprite) bool { return s.LoTag == 65535 }, "Normal nuke button"},
	{func(s *model.Sprite) bool { return s.LoTag == 32767 }, "Secret level nuke button"},
	{func(s *model.Sprite) bool { return s.Palette == 14 }, "Boss nuke button"},
}

// SinglePlayer reports whether the map can be finished in single-player,
// and how. Maps without a nuke button return "No"; maps whose buttons
// match none of the known exit kinds return "Yes".
//
// Precedence is by rule, not by sprite: each exit kind is tried against
// every nuke button before the next kind is tried, so a normal button
// anywhere in the map wins over a secret or boss button that comes
// earlier in the sprite array.
func SinglePlayer(m *model.MapFile) string {
	var buttons []*model.Sprite
	for i := range m.Sprites {
		if m.Sprites[i].Pic == PicNukeButton {
			buttons = append(buttons, &m.Sprites[i])
		}
	}
	if len(buttons) == 0 {
		return SinglePlayerNo
	}

	for _, rule := range exitRules {
		for _, s := range buttons {
			if rule.match(s) {
				return rule.reason
			}
		}
	}
	return SinglePlayerYes
}

// PlayerCount is the number of players a game mode supports.
// Zero means the mode is unsupported.
type PlayerCount int

// Supported reports whether the map has any start for the mode
func (p PlayerCount) Supported() bool {
	return p > 0
}

func (p PlayerCount) String() string {
	if !p.Supported() {
		return "unsupported"
	}
	return strconv.Itoa(int(p))
}

// Coop returns the cooperative player count: one per coop player start
// plus the host, who uses the map's own start.
func Coop(m *model.MapFile) PlayerCount {
	return countStarts(m, LoTagCoopStart)
}

// Deathmatch returns the deathmatch player count, counted like Coop
func Deathmatch(m *model.MapFile) PlayerCount {
	return countStarts(m, LoTagDeathmatchStart)
}

func countStarts(m *model.MapFile, lotag model.Tag) PlayerCount {
	n := 0
	for i := range m.Sprites {
		if m.Sprites[i].Pic == PicPlayerStart && m.Sprites[i].LoTag == lotag {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return PlayerCount(n + 1)
}

// Compat is the result of the engine limit check. The counts are echoed
// for diagnostics.
type Compat struct {
	Compatible bool
	Sectors    int
	Walls      int
	Sprites    int
}

// Compatibility checks the record counts against the original engine limits
func Compatibility(m *model.MapFile) Compat {
	c := Compat{
		Sectors: len(m.Sectors),
		Walls:   len(m.Walls),
		Sprites: len(m.Sprites),
	}
	c.Compatible = c.Sectors <= MaxSectors && c.Walls <= MaxWalls && c.Sprites <= MaxSprites
	return c
}

// Result bundles all classifications of one map
type Result struct {
	SinglePlayer  string
	Coop          PlayerCount
	Deathmatch    PlayerCount
	Compatibility Compat
}

// Classify runs every classification over m
func Classify(m *model.MapFile) Result {
	return Result{
		SinglePlayer:  SinglePlayer(m),
		Coop:          Coop(m),
		Deathmatch:    Deathmatch(m),
		Compatibility: Compatibility(m),
	}
}
