package drillsynth

import intsfx "github.com/cbegin/drillsynth-go/internal/sfx"

// play is the shared path of every trigger: capability check, running check,
// then the sound manager. at holds at most one optional position.
func (e *Engine) play(op string, id intsfx.ID, at []Point) {
	defer e.guard(op)
	if err := e.ready(); err != nil {
		e.warn(op, err)
		return
	}
	e.refreshState()
	if !e.running() {
		e.warn(op, ErrSuspended)
		return
	}
	var pt *Point
	if len(at) > 0 {
		p := at[0]
		pt = &p
	}
	e.sfx.Play(id, pt)
}

func (e *Engine) Click(at ...Point)           { e.play("Click", intsfx.Click, at) }
func (e *Engine) Laser(at ...Point)           { e.play("Laser", intsfx.Laser, at) }
func (e *Engine) Alarm(at ...Point)           { e.play("Alarm", intsfx.Alarm, at) }
func (e *Engine) LegendaryPickup(at ...Point) { e.play("LegendaryPickup", intsfx.LegendaryPickup, at) }
func (e *Engine) BossHit(at ...Point)         { e.play("BossHit", intsfx.BossHit, at) }
func (e *Engine) Explosion(at ...Point)       { e.play("Explosion", intsfx.Explosion, at) }
func (e *Engine) Fusion(at ...Point)          { e.play("Fusion", intsfx.Fusion, at) }
func (e *Engine) Error(at ...Point)           { e.play("Error", intsfx.Error, at) }
func (e *Engine) Achievement(at ...Point)     { e.play("Achievement", intsfx.Achievement, at) }

// Pickup plays the collect sound for rarity r.
func (e *Engine) Pickup(r Rarity, at ...Point) { e.play("Pickup", intsfx.PickupID(r), at) }

// Hazard plays the warning for hazard k. Unknown kinds are ignored.
func (e *Engine) Hazard(k HazardKind, at ...Point) {
	id, err := intsfx.HazardID(k)
	if err != nil {
		e.warn("Hazard", err)
		return
	}
	e.play("Hazard", id, at)
}

func (e *Engine) CombatStart(at ...Point) { e.play("CombatStart", intsfx.CombatStart, at) }
func (e *Engine) CombatEnd(at ...Point)   { e.play("CombatEnd", intsfx.CombatEnd, at) }
func (e *Engine) PlayerHit(at ...Point)   { e.play("PlayerHit", intsfx.PlayerHit, at) }
func (e *Engine) Evade(at ...Point)       { e.play("Evade", intsfx.Evade, at) }
func (e *Engine) Block(at ...Point)       { e.play("Block", intsfx.Block, at) }

// Ability plays the activation sound for ability k. Unknown kinds are ignored.
func (e *Engine) Ability(k AbilityKind, at ...Point) {
	id, err := intsfx.AbilityID(k)
	if err != nil {
		e.warn("Ability", err)
		return
	}
	e.play("Ability", id, at)
}

func (e *Engine) LevelUp(at ...Point) { e.play("LevelUp", intsfx.LevelUp, at) }

// MarketTrade plays the buy or sell sound.
func (e *Engine) MarketTrade(buy bool, at ...Point) {
	e.play("MarketTrade", intsfx.MarketID(buy), at)
}

func (e *Engine) CaravanSend(at ...Point)   { e.play("CaravanSend", intsfx.CaravanSend, at) }
func (e *Engine) CaravanReturn(at ...Point) { e.play("CaravanReturn", intsfx.CaravanReturn, at) }
func (e *Engine) RaidAlarm(at ...Point)     { e.play("RaidAlarm", intsfx.RaidAlarm, at) }
func (e *Engine) RaidRepelled(at ...Point)  { e.play("RaidRepelled", intsfx.RaidRepelled, at) }
func (e *Engine) RaidBreached(at ...Point)  { e.play("RaidBreached", intsfx.RaidBreached, at) }
func (e *Engine) UIClick(at ...Point)       { e.play("UIClick", intsfx.UIClick, at) }
func (e *Engine) UIOpen(at ...Point)        { e.play("UIOpen", intsfx.UIOpen, at) }
func (e *Engine) UIClose(at ...Point)       { e.play("UIClose", intsfx.UIClose, at) }
func (e *Engine) UIError(at ...Point)       { e.play("UIError", intsfx.UIError, at) }
func (e *Engine) UITabSwitch(at ...Point)   { e.play("UITabSwitch", intsfx.UITabSwitch, at) }
func (e *Engine) BaseBuild(at ...Point)     { e.play("BaseBuild", intsfx.BaseBuild, at) }
