package sfx

import (
	"math"
	"testing"
	"time"

	"github.com/cbegin/drillsynth-go/internal/graph"
)

const testRate = 8000

func TestPan(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, -1},
		{25, -0.5},
		{50, 0},
		{100, 1},
		{-40, -1},
		{180, 1},
	}
	for _, tt := range tests {
		if got := Pan(tt.x); got != tt.want {
			t.Fatalf("Pan(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestDistanceGain(t *testing.T) {
	if g := DistanceGain(Listener); g != 1 {
		t.Fatalf("at listener = %v, want 1", g)
	}
	prev := 1.0
	for d := 10.0; d <= 1000; d += 10 {
		g := DistanceGain(Point{X: 50 + d, Y: 50})
		if g > prev {
			t.Fatalf("gain rose with distance at %v: %v > %v", d, g, prev)
		}
		if g < 0.3 || g > 1 {
			t.Fatalf("gain %v out of [0.3, 1] at %v", g, d)
		}
		prev = g
	}
	if g := DistanceGain(Point{X: 150, Y: 50}); math.Abs(g-0.5) > 1e-9 {
		t.Fatalf("at distance 100 = %v, want 0.5", g)
	}
	if prev != 0.3 {
		t.Fatalf("far gain = %v, want floor 0.3", prev)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCooldownDropsRepeats(t *testing.T) {
	g := graph.New(testRate, 1)
	clk := &fakeClock{t: time.Unix(100, 0)}
	m := NewManager(g, g.Destination(), nil, clk.now)

	if m.Play(Click, nil) == nil {
		t.Fatal("first click dropped")
	}
	clk.advance(20 * time.Millisecond)
	if m.Play(Click, nil) != nil {
		t.Fatal("click inside 40ms window played")
	}
	if m.Play(Fusion, nil) == nil {
		t.Fatal("sound without cooldown dropped")
	}
	clk.advance(25 * time.Millisecond)
	if m.Play(Click, nil) == nil {
		t.Fatal("click after window dropped")
	}
	st := m.Stats()
	if st.Played != 3 || st.Dropped != 1 {
		t.Fatalf("Stats() = %+v, want 3 played, 1 dropped", st)
	}
}

func TestUnknownID(t *testing.T) {
	g := graph.New(testRate, 1)
	m := NewManager(g, g.Destination(), nil, nil)
	if m.Play(ID("kazoo"), nil) != nil {
		t.Fatal("unknown id played")
	}
	if st := m.Stats(); st.Unknown != 1 || st.Played != 0 {
		t.Fatalf("Stats() = %+v", st)
	}
}

func TestSpatialPlayAllocatesPanner(t *testing.T) {
	g := graph.New(testRate, 1)
	m := NewManager(g, g.Destination(), nil, nil)
	m.Play(UITabSwitch, &Point{X: 50, Y: 90})
	if n := g.LiveKinds()["panner"]; n != 0 {
		t.Fatalf("centred sound allocated %d panners", n)
	}
	m.Play(PickupCommon, &Point{X: 90, Y: 10})
	if n := g.LiveKinds()["panner"]; n == 0 {
		t.Fatal("panned sound allocated no panner")
	}
}

func TestEveryRecipeTearsDown(t *testing.T) {
	g := graph.New(testRate, 1)
	wet := g.NewGain(0.5)
	wet.Connect(g.Destination())
	base := g.LiveNodes()
	m := NewManager(g, g.Destination(), wet, nil)

	longest := 0.0
	for id, r := range Recipes {
		if r.Name != string(id) {
			t.Fatalf("recipe %q named %q", id, r.Name)
		}
		if len(r.Layers) == 0 {
			t.Fatalf("recipe %q has no layers", id)
		}
		if m.Play(id, &Point{X: 20, Y: 70}) == nil {
			t.Fatalf("%q did not play", id)
		}
		longest = math.Max(longest, r.Length())
	}
	g.Advance(longest + 0.1)
	if n := g.LiveNodes(); n != base {
		t.Fatalf("LiveNodes() = %d, want %d: %v", n, base, g.LiveKinds())
	}
	if st := m.Stats(); st.Active != 0 || st.Played != len(Recipes) {
		t.Fatalf("Stats() = %+v", st)
	}
}

func TestIDHelpers(t *testing.T) {
	if PickupID(Legendary) != LegendaryPickup || PickupID(Rare) != PickupRare || PickupID(Rarity(42)) != PickupCommon {
		t.Fatal("PickupID mapping")
	}
	if id, err := HazardID(Magma); err != nil || id != HazardMagma {
		t.Fatalf("HazardID(Magma) = %q, %v", id, err)
	}
	if _, err := HazardID(HazardKind(9)); err == nil {
		t.Fatal("HazardID(9) returned no error")
	}
	if id, err := AbilityID(Scan); err != nil || id != AbilityScan {
		t.Fatalf("AbilityID(Scan) = %q, %v", id, err)
	}
	if _, err := AbilityID(AbilityKind(-1)); err == nil {
		t.Fatal("AbilityID(-1) returned no error")
	}
	if MarketID(true) != MarketBuy || MarketID(false) != MarketSell {
		t.Fatal("MarketID mapping")
	}
	for id := range Cooldowns {
		if _, ok := Recipes[id]; !ok {
			t.Fatalf("cooldown for %q without a recipe", id)
		}
	}
}
