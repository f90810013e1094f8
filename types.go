package drillsynth

import (
	intsfx "github.com/cbegin/drillsynth-go/internal/sfx"
	"github.com/cbegin/drillsynth-go/internal/telemetry"
)

// Telemetry is one game frame of drill state.
type Telemetry = telemetry.Snapshot

// Material is the kind of rock being drilled.
type Material = telemetry.Material

const (
	MaterialRock    = telemetry.Rock
	MaterialMetal   = telemetry.Metal
	MaterialCrystal = telemetry.Crystal
)

// ParseMaterial maps a name to a Material; unknown names are rock.
func ParseMaterial(s string) Material { return telemetry.ParseMaterial(s) }

// Point is a screen position in percent used to place a sound: x pans from
// left (0) to right (100) and distance from the centre lowers the volume.
type Point = intsfx.Point

// Rarity of a pickup.
type Rarity = intsfx.Rarity

const (
	RarityCommon    = intsfx.Common
	RarityUncommon  = intsfx.Uncommon
	RarityRare      = intsfx.Rare
	RarityEpic      = intsfx.Epic
	RarityLegendary = intsfx.Legendary
)

// HazardKind is an environmental hazard.
type HazardKind = intsfx.HazardKind

const (
	HazardGas    = intsfx.Gas
	HazardCaveIn = intsfx.CaveIn
	HazardMagma  = intsfx.Magma
	HazardFlood  = intsfx.Flood
)

// AbilityKind is a player ability.
type AbilityKind = intsfx.AbilityKind

const (
	AbilityEMP        = intsfx.EMP
	AbilityShield     = intsfx.Shield
	AbilityOvercharge = intsfx.Overcharge
	AbilityScan       = intsfx.Scan
)
