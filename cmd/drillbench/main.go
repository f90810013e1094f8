package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	drillsynth "github.com/cbegin/drillsynth-go"
)

const (
	frameInterval = 16 * time.Millisecond
	heatRate      = 12.0 // per second while drilling
	coolRate      = 18.0
	recoverHeat   = 30.0
)

// bench is a stand-in for the game loop: it simulates drill heat and
// forwards telemetry every frame.
type bench struct {
	screen tcell.Screen
	eng    *drillsynth.Engine
	t      drillsynth.Telemetry
	last   string
}

var triggers = map[rune]struct {
	name string
	fire func(*drillsynth.Engine)
}{
	'1': {"click", func(e *drillsynth.Engine) { e.Click() }},
	'2': {"laser", func(e *drillsynth.Engine) { e.Laser(drillsynth.Point{X: 85, Y: 50}) }},
	'3': {"alarm", func(e *drillsynth.Engine) { e.Alarm() }},
	'4': {"explosion", func(e *drillsynth.Engine) { e.Explosion(drillsynth.Point{X: 15, Y: 50}) }},
	'5': {"pickup epic", func(e *drillsynth.Engine) { e.Pickup(drillsynth.RarityEpic) }},
	'6': {"hazard gas", func(e *drillsynth.Engine) { e.Hazard(drillsynth.HazardGas) }},
	'7': {"level up", func(e *drillsynth.Engine) { e.LevelUp() }},
	'8': {"achievement", func(e *drillsynth.Engine) { e.Achievement() }},
	'9': {"boss hit", func(e *drillsynth.Engine) { e.BossHit() }},
	'0': {"fusion", func(e *drillsynth.Engine) { e.Fusion() }},
}

func main() {
	var (
		backend = flag.String("backend", "", "host output: ebiten|oto|beep (default from DRILLSYNTH_BACKEND or ebiten)")
		logPath = flag.String("log", "drillbench.log", "log file; the terminal is taken by the UI")
		verbose = flag.Bool("verbose", false, "log ignored engine calls")
	)
	flag.Parse()

	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal(err)
	}
	logger := log.New(f, "drillbench: ", log.LstdFlags)

	opts := append(drillsynth.OptionsFromEnv(), drillsynth.WithLogger(logger), drillsynth.WithVerbose(*verbose))
	if *backend != "" {
		opts = append(opts, drillsynth.WithBackend(*backend))
	}
	eng := drillsynth.New(opts...)
	eng.Init(drillsynth.SettingsFromEnv())

	err = serve(eng, tcell.NewScreen)
	eng.Close()
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "drillbench: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the bench UI on a fresh screen until the user quits.
func serve(eng *drillsynth.Engine, newScreen func() (tcell.Screen, error)) error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	b := &bench{screen: screen, eng: eng, t: drillsynth.Telemetry{Depth: 500}}
	b.run()
	return nil
}

func (b *bench) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := b.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	prev := time.Now()
	for {
		select {
		case ev := <-events:
			if !b.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			b.step(now.Sub(prev).Seconds())
			prev = now
			b.eng.Update(b.t)
			b.draw()
		}
	}
}

func (b *bench) step(dt float64) {
	if b.t.IsDrilling && !b.t.Overheated && !b.t.Broken {
		b.t.Heat += heatRate * dt
		b.t.Depth += 40 * dt
	} else {
		b.t.Heat -= coolRate * dt
	}
	b.t.Heat = max(0, min(100, b.t.Heat))
	if b.t.Heat >= 100 {
		b.t.Overheated = true
	}
	if b.t.Overheated && b.t.Heat <= recoverHeat {
		b.t.Overheated = false
	}
}

func (b *bench) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			b.t.Heat = min(100, b.t.Heat+10)
		case tcell.KeyDown:
			b.t.Heat = max(0, b.t.Heat-10)
		case tcell.KeyRight:
			b.t.Depth += 5000
		case tcell.KeyLeft:
			b.t.Depth = max(0, b.t.Depth-5000)
		case tcell.KeyRune:
			b.handleRune(ev.Rune())
		}
		// Every key press counts as a user gesture.
		b.eng.TryResume()
	case *tcell.EventResize:
		b.screen.Sync()
	}
	return true
}

func (b *bench) handleRune(r rune) {
	if t, ok := triggers[r]; ok {
		t.fire(b.eng)
		b.last = t.name
		return
	}
	switch r {
	case ' ':
		b.t.IsDrilling = !b.t.IsDrilling
	case 'm':
		b.t.Material = (b.t.Material + 1) % 3
	case 'c':
		b.t.Combat = !b.t.Combat
		if b.t.Combat {
			b.eng.CombatStart()
		} else {
			b.eng.CombatEnd()
		}
	case 'x':
		b.t.Broken = !b.t.Broken
	case 'o':
		b.t.Heat, b.t.Overheated = 100, true
	}
}

func (b *bench) draw() {
	b.screen.Clear()
	st := b.eng.Stats()
	lines := []string{
		"drillbench   esc quit   space drill   arrows heat/depth   m material   c combat   x break   o overheat",
		"sounds: 1 click 2 laser 3 alarm 4 explosion 5 pickup 6 hazard 7 level 8 achievement 9 boss 0 fusion",
		"",
		fmt.Sprintf("engine    %-12s clock %v", st.State, st.Clock.Truncate(time.Millisecond)),
		fmt.Sprintf("drill     drilling=%-5v heat=%5.1f overheated=%-5v broken=%v", b.t.IsDrilling, b.t.Heat, b.t.Overheated, b.t.Broken),
		fmt.Sprintf("ground    depth=%-8.0f material=%s combat=%v", b.t.Depth, b.t.Material, b.t.Combat),
		fmt.Sprintf("music     %s / %s   notes=%d", st.MusicMode, st.MusicIntensity, st.MusicNotes),
		fmt.Sprintf("voices    active=%d played=%d dropped=%d nodes=%d", st.ActiveVoices, st.SoundsPlayed, st.SoundsDropped, st.LiveNodes),
		fmt.Sprintf("master    gain reduction %.2f", st.GainReduction),
		fmt.Sprintf("last      %s", b.last),
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y, line := range lines {
		if y == 3 && st.State != drillsynth.StateRunning {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		for x, r := range []rune(line) {
			b.screen.SetContent(x, y, r, nil, style)
		}
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
	if b.t.Overheated {
		bar := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for x, r := range []rune("OVERHEATED") {
			b.screen.SetContent(x, len(lines)+1, r, nil, bar)
		}
	}
	b.screen.Show()
}
