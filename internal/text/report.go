package text

import (
	"github.com/dyuri/mapinfo/internal/classify"
	"github.com/dyuri/mapinfo/internal/model"
)

// Report is the per-file summary shared by all output formats
type Report struct {
	File        string      `json:"file" yaml:"file"`
	Version     int32       `json:"version" yaml:"version"`
	Player      PlayerStart `json:"player" yaml:"player"`
	StartSector int16       `json:"startSector" yaml:"start_sector"`
	Counts      Counts      `json:"counts" yaml:"counts"`
	Modes       Modes       `json:"modes" yaml:"modes"`
	Compatible  bool        `json:"buildCompatible" yaml:"build_compatible"`
}

// PlayerStart is the player start position and angle
type PlayerStart struct {
	X     int32 `json:"x" yaml:"x"`
	Y     int32 `json:"y" yaml:"y"`
	Z     int32 `json:"z" yaml:"z"`
	Angle int16 `json:"angle" yaml:"angle"`
}

// Counts holds the record counts of a map
type Counts struct {
	Sectors int `json:"sectors" yaml:"sectors"`
	Walls   int `json:"walls" yaml:"walls"`
	Sprites int `json:"sprites" yaml:"sprites"`
}

// Modes holds the game mode classification
type Modes struct {
	SinglePlayer string `json:"singlePlayer" yaml:"single_player"`
	Coop         string `json:"coop" yaml:"coop"`
	Deathmatch   string `json:"deathmatch" yaml:"deathmatch"`
}

// NewReport builds the report for a decoded and classified map
func NewReport(file string, m *model.MapFile, r classify.Result) Report {
	return Report{
		File:    file,
		Version: m.Version,
		Player: PlayerStart{
			X:     m.Player.Position.X,
			Y:     m.Player.Position.Y,
			Z:     m.Player.Position.Z,
			Angle: m.Player.Angle,
		},
		StartSector: m.StartSector,
		Counts: Counts{
			Sectors: r.Compatibility.Sectors,
			Walls:   r.Compatibility.Walls,
			Sprites: r.Compatibility.Sprites,
		},
		Modes: Modes{
			SinglePlayer: r.SinglePlayer,
			Coop:         r.Coop.String(),
			Deathmatch:   r.Deathmatch.String(),
		},
		Compatible: r.Compatibility.Compatible,
	}
}
