// Package telemetry holds the game state the audio engine reacts to.
package telemetry

import (
	"math"
	"strings"
)

// Material is the kind of rock under the drill bit.
type Material int

const (
	Rock Material = iota
	Metal
	Crystal
)

func (m Material) String() string {
	switch m {
	case Metal:
		return "metal"
	case Crystal:
		return "crystal"
	default:
		return "rock"
	}
}

// ParseMaterial maps a material name to a Material. Unknown names are rock.
func ParseMaterial(s string) Material {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metal":
		return Metal
	case "crystal":
		return Crystal
	}
	return Rock
}

// Snapshot is one game frame's worth of telemetry.
type Snapshot struct {
	Heat       float64 // 0..100
	Depth      float64 // metres, >= 0
	Overheated bool
	Combat     bool
	Broken     bool
	Material   Material
	IsDrilling bool
}

// MaxDepth caps depth so every derived pitch and cutoff stays finite.
const MaxDepth = 1e9

// Normalize clamps heat to [0, 100] and depth to [0, MaxDepth]. NaN and
// infinite heat read as 0, as does NaN depth.
func (s Snapshot) Normalize() Snapshot {
	switch {
	case math.IsNaN(s.Heat) || math.IsInf(s.Heat, 0) || s.Heat < 0:
		s.Heat = 0
	case s.Heat > 100:
		s.Heat = 100
	}
	switch {
	case math.IsNaN(s.Depth) || s.Depth < 0:
		s.Depth = 0
	case s.Depth > MaxDepth:
		s.Depth = MaxDepth
	}
	if s.Material < Rock || s.Material > Crystal {
		s.Material = Rock
	}
	return s
}
