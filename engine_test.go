package drillsynth

import (
	"bytes"
	"log"
	"strings"
	"testing"

	intmix "github.com/cbegin/drillsynth-go/internal/mixer"
	intsfx "github.com/cbegin/drillsynth-go/internal/sfx"
)

const testRate = 8000

func headless(t *testing.T, suspended bool) *Engine {
	t.Helper()
	e := New(WithHeadless(suspended), WithLogger(nil), WithSeed(42), WithSampleRate(testRate))
	e.Init(DefaultSettings())
	t.Cleanup(e.Close)
	return e
}

func advance(e *Engine, seconds float64) {
	buf := make([]float32, 2*int(seconds*float64(e.SampleRate())))
	e.Render(buf)
}

func TestUninitializedCallsAreNoops(t *testing.T) {
	e := New(WithLogger(nil))
	e.Update(Telemetry{Heat: 50, Depth: 100})
	e.SetMusicVolume(0.5, false)
	e.SetSFXVolume(0.5, true)
	e.SetDrillVolume(2, false)
	e.TryResume()
	e.Click(Point{X: 10, Y: 10})
	e.Explosion()
	e.Pickup(RarityEpic)
	e.Hazard(HazardKind(99))
	e.Ability(AbilityScan)
	e.MarketTrade(true)

	if e.State() != StateUninitialized {
		t.Fatalf("State() = %v, want uninitialized", e.State())
	}
	if st := e.Stats(); st.LiveNodes != 0 || st.SoundsPlayed != 0 {
		t.Fatalf("Stats() = %+v, want zero", st)
	}
	buf := []float32{1, 1, 1, 1}
	e.Render(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Render()[%d] = %v before Init, want 0", i, v)
		}
	}
}

func TestSuspendedUntilResume(t *testing.T) {
	e := headless(t, true)
	if e.State() != StateSuspended {
		t.Fatalf("State() = %v, want suspended", e.State())
	}
	e.Click()
	if st := e.Stats(); st.SoundsPlayed != 0 {
		t.Fatalf("played %d sounds while suspended", st.SoundsPlayed)
	}
	e.TryResume()
	if e.State() != StateRunning {
		t.Fatalf("State() after TryResume = %v, want running", e.State())
	}
	e.TryResume()
	if e.State() != StateRunning {
		t.Fatalf("State() after second TryResume = %v", e.State())
	}
	e.Click()
	if st := e.Stats(); st.SoundsPlayed != 1 {
		t.Fatalf("SoundsPlayed = %d, want 1", st.SoundsPlayed)
	}
}

func TestOverheatRaisesSteamAndIntensity(t *testing.T) {
	e := headless(t, false)
	e.Update(Telemetry{Heat: 0, IsDrilling: true})
	advance(e, 0.1)
	e.Update(Telemetry{Heat: 96, Overheated: true, IsDrilling: true})

	if got := e.steam.Target(); got <= 0 {
		t.Fatalf("steam target = %v, want > 0", got)
	}
	if _, in, _ := e.comp.State(); in < intmix.Medium {
		t.Fatalf("intensity = %v, want at least MEDIUM", in)
	}
	if got := e.mix.Layer(intmix.Melody).Gain().Target(); got != 0.7 {
		t.Fatalf("melody target = %v, want 0.7", got)
	}
	if got := e.mix.Layer(intmix.Tension).Gain().Target(); got != 0.8 {
		t.Fatalf("tension target = %v, want 0.8", got)
	}
	if got := e.drill.FrictionGain().Target(); got != 0 {
		t.Fatalf("friction while overheated = %v, want 0", got)
	}
}

func TestDepthJumpResetsVariation(t *testing.T) {
	e := headless(t, false)
	e.Update(Telemetry{Depth: 4000})
	e.comp.Rotate()
	if mode, _, idx := e.comp.State(); mode.String() != "SURFACE" || idx == 0 {
		t.Fatalf("before jump: %v index %d", mode, idx)
	}
	e.Update(Telemetry{Depth: 40000})
	mode, _, idx := e.comp.State()
	if mode.String() != "DEEP" || idx != 0 {
		t.Fatalf("after jump: %v index %d, want DEEP 0", mode, idx)
	}
	if st := e.Stats(); st.MusicMode != "DEEP" {
		t.Fatalf("Stats().MusicMode = %q", st.MusicMode)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	e := headless(t, false)
	g := e.g
	nodes := e.Stats().LiveNodes
	e.Init(Settings{Music: Channel{Volume: 0.2}, SFX: Channel{Volume: 1, Muted: true}, Drill: Channel{Volume: 0.4}})
	if e.g != g {
		t.Fatal("second Init rebuilt the graph")
	}
	if n := e.Stats().LiveNodes; n != nodes {
		t.Fatalf("LiveNodes() = %d after re-Init, want %d", n, nodes)
	}
	if lv := e.mix.Level(intmix.SFX); !lv.Muted || lv.Volume != 1 {
		t.Fatalf("sfx level = %+v, want muted", lv)
	}
	b := e.mix.Bus(intmix.SFX)
	if b.Dry().Gain().Target() != 0 || b.Wet().Gain().Target() != 0 {
		t.Fatal("muted sfx bus still heading above zero")
	}
	if got := e.mix.Bus(intmix.Music).Wet().Gain().Target(); got != 0.2 {
		t.Fatalf("music wet target = %v, want 0.2", got)
	}
}

func TestVolumeSettersMirrorWet(t *testing.T) {
	e := headless(t, false)
	e.SetDrillVolume(0.3, false)
	b := e.mix.Bus(intmix.Drill)
	if b.Dry().Gain().Target() != 0.3 || b.Wet().Gain().Target() != 0.3 {
		t.Fatalf("drill dry/wet = %v/%v, want 0.3", b.Dry().Gain().Target(), b.Wet().Gain().Target())
	}
	e.SetMusicVolume(0.9, true)
	advance(e, 1.5)
	m := e.mix.Bus(intmix.Music)
	if d, w := m.Dry().Gain().Value(), m.Wet().Gain().Value(); d > 1e-4 || w > 1e-4 {
		t.Fatalf("muted music dry/wet = %v/%v", d, w)
	}
}

func TestTriggersTearDown(t *testing.T) {
	e := headless(t, false)
	e.comp.Stop()
	advance(e, 4.5)
	base := e.Stats().LiveNodes

	e.Click()
	e.Laser(Point{X: 80, Y: 20})
	e.Alarm()
	e.LegendaryPickup(Point{X: 5, Y: 95})
	e.BossHit()
	e.Explosion(Point{X: 30, Y: 60})
	e.Fusion()
	e.Error()
	e.Achievement()
	e.Pickup(RarityRare)
	e.Hazard(HazardMagma)
	e.CombatStart()
	e.CombatEnd()
	e.PlayerHit()
	e.Evade()
	e.Block()
	e.Ability(AbilityShield)
	e.LevelUp()
	e.MarketTrade(false)
	e.CaravanSend()
	e.CaravanReturn()
	e.RaidAlarm()
	e.RaidRepelled()
	e.RaidBreached()
	e.UIClick()
	e.UIOpen()
	e.UIClose()
	e.UIError()
	e.UITabSwitch()
	e.BaseBuild()

	st := e.Stats()
	if st.SoundsPlayed != 30 {
		t.Fatalf("SoundsPlayed = %d, want 30", st.SoundsPlayed)
	}
	if st.LiveNodes <= base {
		t.Fatal("triggers allocated no nodes")
	}
	longest := 0.0
	for _, r := range intsfx.Recipes {
		longest = max(longest, r.Length())
	}
	advance(e, longest+0.2)
	st = e.Stats()
	if st.LiveNodes != base || st.ActiveVoices != 0 {
		t.Fatalf("LiveNodes %d (want %d), ActiveVoices %d", st.LiveNodes, base, st.ActiveVoices)
	}
}

func TestCooldownFollowsClock(t *testing.T) {
	e := headless(t, false)
	e.Alarm()
	e.Alarm()
	if st := e.Stats(); st.SoundsPlayed != 1 || st.SoundsDropped != 1 {
		t.Fatalf("Stats() = %+v, want 1 played 1 dropped", st)
	}
}

func TestUnavailableHostIsNoop(t *testing.T) {
	var logs bytes.Buffer
	e := New(WithBackend("alsa"), WithLogger(log.New(&logs, "", 0)))
	e.Init(DefaultSettings())
	if e.State() != StateUnavailable {
		t.Fatalf("State() = %v, want unavailable", e.State())
	}
	if !strings.Contains(logs.String(), ErrHostUnavailable.Error()) {
		t.Fatalf("log %q does not mention host unavailable", logs.String())
	}
	e.Init(DefaultSettings())
	e.Update(Telemetry{Heat: 99})
	e.Click()
	e.TryResume()
	e.Close()
	if e.State() != StateUnavailable {
		t.Fatalf("State() = %v, want unavailable", e.State())
	}
}

func TestVerboseLogsIgnoredCallsOnce(t *testing.T) {
	var logs bytes.Buffer
	e := New(WithLogger(log.New(&logs, "", 0)), WithVerbose(true))
	e.Update(Telemetry{})
	e.Update(Telemetry{})
	if n := strings.Count(logs.String(), "Update ignored"); n != 1 {
		t.Fatalf("logged %d times, want once: %q", n, logs.String())
	}
}

func TestCloseIsFinal(t *testing.T) {
	e := headless(t, false)
	e.Close()
	e.Close()
	e.Click()
	e.Update(Telemetry{Heat: 20})
	e.Init(DefaultSettings())
	buf := []float32{1, 1}
	e.Render(buf)
	if buf[0] != 0 || buf[1] != 0 {
		t.Fatalf("Render after Close = %v, want silence", buf)
	}
	if !e.Finished() {
		t.Fatal("Finished() = false after Close")
	}
}

func TestEngineStateString(t *testing.T) {
	tests := map[EngineState]string{
		StateUninitialized: "uninitialized",
		StateInitializing:  "initializing",
		StateSuspended:     "suspended",
		StateRunning:       "running",
		StateUnavailable:   "unavailable",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Fatalf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
