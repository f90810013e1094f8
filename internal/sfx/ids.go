package sfx

import (
	"fmt"
	"time"
)

// ID names a one-shot sound.
type ID string

const (
	Click           ID = "click"
	Laser           ID = "laser"
	Alarm           ID = "alarm"
	LegendaryPickup ID = "legendary_pickup"
	BossHit         ID = "boss_hit"
	Explosion       ID = "explosion"
	Fusion          ID = "fusion"
	Error           ID = "error"
	Achievement     ID = "achievement"

	PickupCommon   ID = "pickup_common"
	PickupUncommon ID = "pickup_uncommon"
	PickupRare     ID = "pickup_rare"
	PickupEpic     ID = "pickup_epic"

	HazardGas    ID = "hazard_gas"
	HazardCaveIn ID = "hazard_cave_in"
	HazardMagma  ID = "hazard_magma"
	HazardFlood  ID = "hazard_flood"

	CombatStart ID = "combat_start"
	CombatEnd   ID = "combat_end"
	PlayerHit   ID = "player_hit"
	Evade       ID = "evade"
	Block       ID = "block"

	AbilityEMP        ID = "ability_emp"
	AbilityShield     ID = "ability_shield"
	AbilityOvercharge ID = "ability_overcharge"
	AbilityScan       ID = "ability_scan"

	LevelUp       ID = "level_up"
	MarketBuy     ID = "market_buy"
	MarketSell    ID = "market_sell"
	CaravanSend   ID = "caravan_send"
	CaravanReturn ID = "caravan_return"
	RaidAlarm     ID = "raid_alarm"
	RaidRepelled  ID = "raid_repelled"
	RaidBreached  ID = "raid_breached"

	UIClick     ID = "ui_click"
	UIOpen      ID = "ui_open"
	UIClose     ID = "ui_close"
	UIError     ID = "ui_error"
	UITabSwitch ID = "ui_tab_switch"
	BaseBuild   ID = "base_build"
)

// Rarity tiers of collectable pickups.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	}
	return "common"
}

// PickupID returns the sound for a pickup of rarity r.
func PickupID(r Rarity) ID {
	switch r {
	case Uncommon:
		return PickupUncommon
	case Rare:
		return PickupRare
	case Epic:
		return PickupEpic
	case Legendary:
		return LegendaryPickup
	}
	return PickupCommon
}

// HazardKind is an environmental hazard.
type HazardKind int

const (
	Gas HazardKind = iota
	CaveIn
	Magma
	Flood
)

// HazardID returns the sound for hazard k.
func HazardID(k HazardKind) (ID, error) {
	switch k {
	case Gas:
		return HazardGas, nil
	case CaveIn:
		return HazardCaveIn, nil
	case Magma:
		return HazardMagma, nil
	case Flood:
		return HazardFlood, nil
	}
	return "", fmt.Errorf("sfx: unknown hazard %d", int(k))
}

// AbilityKind is a player ability.
type AbilityKind int

const (
	EMP AbilityKind = iota
	Shield
	Overcharge
	Scan
)

// AbilityID returns the sound for ability k.
func AbilityID(k AbilityKind) (ID, error) {
	switch k {
	case EMP:
		return AbilityEMP, nil
	case Shield:
		return AbilityShield, nil
	case Overcharge:
		return AbilityOvercharge, nil
	case Scan:
		return AbilityScan, nil
	}
	return "", fmt.Errorf("sfx: unknown ability %d", int(k))
}

// MarketID returns the buy or sell sound.
func MarketID(buy bool) ID {
	if buy {
		return MarketBuy
	}
	return MarketSell
}

// Cooldowns is the minimum spacing between two plays of the same sound.
// Sounds not listed have none.
var Cooldowns = map[ID]time.Duration{
	Click:     40 * time.Millisecond,
	UIClick:   40 * time.Millisecond,
	Laser:     60 * time.Millisecond,
	Error:     150 * time.Millisecond,
	UIError:   150 * time.Millisecond,
	BossHit:   50 * time.Millisecond,
	PlayerHit: 50 * time.Millisecond,
	Explosion: 80 * time.Millisecond,
	Alarm:     300 * time.Millisecond,
	RaidAlarm: 300 * time.Millisecond,
	Block:     60 * time.Millisecond,
	Evade:     60 * time.Millisecond,
}
