package main

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	drillsynth "github.com/cbegin/drillsynth-go"
)

// quitOnInit is a simulation screen that queues an Escape as soon as it is
// initialised.
type quitOnInit struct {
	tcell.SimulationScreen
}

func (s quitOnInit) Init() error {
	if err := s.SimulationScreen.Init(); err != nil {
		return err
	}
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	return nil
}

func headlessEngine(t *testing.T) *drillsynth.Engine {
	t.Helper()
	e := drillsynth.New(drillsynth.WithHeadless(false), drillsynth.WithLogger(nil), drillsynth.WithSeed(1))
	e.Init(drillsynth.DefaultSettings())
	t.Cleanup(e.Close)
	return e
}

func TestServeReturnsScreenError(t *testing.T) {
	e := headlessEngine(t)
	errNoTTY := errors.New("no tty")
	err := serve(e, func() (tcell.Screen, error) { return nil, errNoTTY })
	if !errors.Is(err, errNoTTY) {
		t.Fatalf("serve() = %v, want %v", err, errNoTTY)
	}
	if e.State() != drillsynth.StateRunning {
		t.Fatalf("State() = %v, want running until the caller closes", e.State())
	}
}

func TestServeQuitsOnEscape(t *testing.T) {
	e := headlessEngine(t)
	err := serve(e, func() (tcell.Screen, error) {
		return quitOnInit{tcell.NewSimulationScreen("UTF-8")}, nil
	})
	if err != nil {
		t.Fatalf("serve() = %v, want nil", err)
	}
}

func TestStepOverheatHysteresis(t *testing.T) {
	b := &bench{t: drillsynth.Telemetry{Heat: 99, IsDrilling: true}}
	b.step(1)
	if b.t.Heat != 100 || !b.t.Overheated {
		t.Fatalf("heat %v overheated %v, want 100 true", b.t.Heat, b.t.Overheated)
	}
	b.step(2)
	if !b.t.Overheated {
		t.Fatal("recovered above the recovery heat")
	}
	b.step(2)
	if b.t.Overheated || b.t.Heat != 28 {
		t.Fatalf("heat %v overheated %v, want 28 false", b.t.Heat, b.t.Overheated)
	}
}
