/*
Softkeypad is a terminal playground for the soft keyboard decoder.

It shows a keyboard at the bottom of the terminal and feeds mouse input
into a softkey.Pipeline: click to tap, hold to long-press, drag a key to
swipe, drag the space bar to move the cursor. A toy engine offers pinyin
syllables as candidates.

Usage:

	softkeypad [-config keyboards.yaml] [-tuning tuning.toml] [-trace trace.log]

Keys: ESC quits, Ctrl-A toggles latin input, Ctrl-R resets.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/softkey"
	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/npillmayer/softkey/keyconfig"
	"github.com/npillmayer/softkey/syllable"
	"github.com/npillmayer/softkey/tuning"
)

func main() {
	configPath := flag.String("config", "", "keyboard configuration (YAML), reloaded on change")
	tuningPath := flag.String("tuning", "", "timing and threshold settings (TOML)")
	tracePath := flag.String("trace", "", "write debug trace to this file")
	flag.Parse()
	if err := run(*configPath, *tuningPath, *tracePath); err != nil {
		fmt.Fprintf(os.Stderr, "softkeypad: %v\n", err)
		os.Exit(1)
	}
}

// app is the state of the playground. It is only touched from the event
// loop.
type app struct {
	pipeline *softkey.Pipeline
	config   *keyconfig.Snapshot
	view     *view
	doc      document
	status   string
	pressed  *keyBox // key under the mouse button, if any
	ascii    bool
}

func run(configPath, tuningPath, tracePath string) error {
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		t := gologadapter.New()
		t.SetOutput(f)
		t.SetTraceLevel(tracing.LevelDebug)
		tracing.SetTraceSelector(sharedTrace{t})
	}
	config := keyconfig.Default()
	var watcher *keyconfig.Watcher
	if configPath != "" {
		var err error
		if watcher, err = keyconfig.NewWatcher(configPath); err != nil {
			return err
		}
		defer watcher.Close()
		config = watcher.Snapshot()
	}
	tun := tuning.Default()
	if tuningPath != "" {
		var err error
		if tun, err = tuning.LoadFile(tuningPath); err != nil {
			return err
		}
	}
	trie, err := syllable.Default()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	a := &app{config: config, view: &view{screen: screen}}
	a.pipeline = softkey.New(newToyEngine(trie), trie,
		softkey.WithGestureConfig(tun.GestureConfig()),
		softkey.WithDragConfig(tun.DragConfig()),
		softkey.WithOverrides(config.Overrides),
		softkey.WithKeyboardType(firstType(config)),
		softkey.WithTimerOutcomes(func(out []action.Outcome) {
			screen.PostEvent(tcell.NewEventInterrupt(out))
		}),
	)
	if watcher != nil {
		watcher.OnChange(func(s *keyconfig.Snapshot) {
			screen.PostEvent(tcell.NewEventInterrupt(s))
		})
		if err := watcher.Watch(); err != nil {
			return err
		}
	}
	a.selectLayout()
	a.redraw()
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			a.view.arrange(a.view.layout)
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyCtrlA:
				a.ascii = !a.ascii
				a.pipeline.SetASCIIMode(a.ascii)
				a.status = fmt.Sprintf("latin input %v", a.ascii)
			case tcell.KeyCtrlR:
				a.pressed = nil
				a.pipeline.Reset()
				a.status = "reset"
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			a.mouse(x, y, ev.Buttons()&tcell.Button1 != 0)
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case []action.Outcome:
				a.apply(data)
			case *keyconfig.Snapshot:
				a.config = data
				a.pipeline.SetOverrides(data.Overrides)
				a.selectLayout()
				a.status = "configuration reloaded"
			}
		}
		a.redraw()
	}
}

// sharedTrace hands out one trace for every key, so that all packages
// write to the same file.
type sharedTrace struct {
	t tracing.Trace
}

func (s sharedTrace) Select(string) tracing.Trace { return s.t }

func firstType(config *keyconfig.Snapshot) keyboard.TypeID {
	if l, ok := config.LayoutFor(keyboard.Chinese); ok {
		return l.Type
	}
	if len(config.Keyboards) > 0 {
		return config.Keyboards[0].Type
	}
	return keyboard.Chinese
}

// mouse turns mouse button state into touch phases.
func (a *app) mouse(x, y int, down bool) {
	switch {
	case down && a.pressed == nil:
		b, ok := a.view.hit(x, y)
		if !ok {
			return
		}
		a.pressed = &b
		a.touch(gesture.PhaseDown, x, y)
	case down:
		a.touch(gesture.PhaseMove, x, y)
	case a.pressed != nil:
		a.touch(gesture.PhaseUp, x, y)
		a.pressed = nil
	}
}

func (a *app) touch(phase gesture.Phase, x, y int) {
	out := a.pipeline.HandleTouch(gesture.PointerEvent{
		Phase:    phase,
		Location: cellToPoint(x, y),
		Bounds:   a.pressed.bounds(),
	}, a.pressed.key)
	a.apply(out)
}

func (a *app) apply(out []action.Outcome) {
	for _, o := range out {
		if s := a.doc.apply(o); s != "" {
			a.status = s
		}
		if o.Kind == action.SwitchKeyboard {
			a.selectLayout()
		}
	}
}

// selectLayout shows the layout for the pipeline's keyboard type.
func (a *app) selectLayout() {
	id := a.pipeline.KeyboardType()
	l, ok := a.config.LayoutFor(id)
	if !ok {
		if a.view.layout.Name != "" {
			a.status = fmt.Sprintf("no layout for %s", id)
			a.pipeline.SetKeyboardType(a.view.layout.Type)
			return
		}
		if len(a.config.Keyboards) == 0 {
			a.status = "configuration has no keyboards"
			return
		}
		l = a.config.Keyboards[0]
	}
	a.view.arrange(l)
}

func (a *app) redraw() {
	var candidates []string
	for _, c := range a.pipeline.Candidates(0, 8) {
		candidates = append(candidates, c.Text)
	}
	syllables := a.pipeline.SwipeCandidates(0)
	if len(syllables) == 0 && a.view.layout.Type == keyboard.ChineseNineGrid {
		syllables = a.pipeline.SyllableCandidates()
	}
	if len(syllables) > 0 {
		candidates = candidates[:0]
		for _, s := range syllables {
			candidates = append(candidates, string(s))
		}
	}
	a.view.draw(&a.doc, a.pipeline.Preedit(), candidates, a.status, a.pressed)
}
