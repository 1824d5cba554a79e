package softkey

import (
	"sync"

	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/composition"
	"github.com/npillmayer/softkey/drag"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/npillmayer/softkey/syllable"
)

// Pipeline decodes touch events into outcomes. All state transitions of a
// pipeline are serialized by one mutex, including those triggered by
// long-press and repeat timers.
type Pipeline struct {
	mu          sync.Mutex
	engine      Engine
	trie        *syllable.Trie
	clock       gesture.Clock
	gconf       gesture.Config
	decoder     *drag.Decoder
	dconf       drag.Config
	resolver    *action.Resolver
	buffer      composition.Buffer
	mode        action.Mode
	keyboard    keyboard.TypeID
	classifiers map[string]*gesture.Classifier // by key ID
	touches     map[int]*touch                 // by pointer
	onTimer     func([]action.Outcome)
}

// touch is one active touch sequence.
type touch struct {
	keyID      string
	classifier *gesture.Classifier
	generation uint64
	session    *drag.Session
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock driving long-press and repeat timers.
func WithClock(clock gesture.Clock) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithGestureConfig sets the gesture thresholds.
func WithGestureConfig(conf gesture.Config) Option {
	return func(p *Pipeline) { p.gconf = conf }
}

// WithDragConfig sets the drag thresholds.
func WithDragConfig(conf drag.Config) Option {
	return func(p *Pipeline) { p.dconf = conf }
}

// WithOverrides sets per-key overrides.
func WithOverrides(overrides action.Overrides) Option {
	return func(p *Pipeline) { p.resolver = action.NewResolver(overrides) }
}

// WithTimerOutcomes registers a callback for outcomes of timer-driven
// gestures (long press, auto-repeat). It is called without the pipeline
// lock held, from the clock's timer goroutine.
func WithTimerOutcomes(f func([]action.Outcome)) Option {
	return func(p *Pipeline) { p.onTimer = f }
}

// WithKeyboardType sets the initial keyboard type.
func WithKeyboardType(id keyboard.TypeID) Option {
	return func(p *Pipeline) { p.keyboard = id }
}

// New creates a pipeline for an engine. trie is used for T9 syllable
// candidates and may be nil.
func New(engine Engine, trie *syllable.Trie, opts ...Option) *Pipeline {
	assertThat(engine != nil, "pipeline needs an engine")
	p := &Pipeline{
		engine:      engine,
		trie:        trie,
		clock:       gesture.SystemClock{},
		gconf:       gesture.DefaultConfig(),
		dconf:       drag.DefaultConfig(),
		resolver:    action.NewResolver(nil),
		keyboard:    keyboard.Chinese,
		classifiers: make(map[string]*gesture.Classifier),
		touches:     make(map[int]*touch),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.decoder = drag.NewDecoder(p.dconf, trie)
	return p
}

// HandleTouch processes a raw pointer event on key and returns the
// resulting outcomes, in order. Noop outcomes are left out.
// key is only consulted on touch-down; later events of the same pointer
// belong to the key the touch started on.
func (p *Pipeline) HandleTouch(ev gesture.PointerEvent, key keyboard.Key) []action.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.Phase == gesture.PhaseDown {
		if old := p.touches[ev.Pointer]; old != nil {
			p.cancel(old)
		}
		c := p.classifierFor(key)
		events := c.Handle(ev, key)
		t := &touch{
			keyID:      key.ID(),
			classifier: c,
			generation: c.Generation(),
			session:    p.decoder.Begin(key, ev.Location),
		}
		p.touches[ev.Pointer] = t
		return p.dispatch(t, events)
	}
	t := p.touches[ev.Pointer]
	if t == nil {
		return nil
	}
	if ev.Phase == gesture.PhaseUp || ev.Phase == gesture.PhaseCancel {
		delete(p.touches, ev.Pointer)
	}
	if t.classifier.Generation() != t.generation {
		// another pointer took over the key
		return nil
	}
	return p.dispatch(t, t.classifier.Handle(ev, key))
}

// CurrentComposition returns the raw input keys of the composition in
// progress, or "".
func (p *Pipeline) CurrentComposition() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.RawInputKeys()
}

// Preedit returns the engine's composing text for display.
func (p *Pipeline) Preedit() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buffer.IsEmpty() {
		return ""
	}
	return p.engine.ComposingText()
}

// Candidates returns conversion candidates from the engine.
func (p *Pipeline) Candidates(index, count int) []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Candidates(index, count)
}

// SyllableCandidates returns the syllables matching the longest complete
// digit code at the start of the composition. It is meant for nine-grid
// keyboards, where the composition consists of T9 digits.
func (p *Pipeline) SyllableCandidates() []syllable.Syllable {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw := p.buffer.RawInputKeys()
	n := 0
	for n < len(raw) && raw[n] >= '2' && raw[n] <= '9' {
		n++
	}
	if n == 0 || p.trie == nil {
		return nil
	}
	_, syllables := p.trie.LongestPrefix(raw[:n])
	return syllables
}

// SwipeCandidates returns the syllables matching the T9 digits swiped so
// far by the touch of pointer, or nil if the pointer is not down.
func (p *Pipeline) SwipeCandidates(pointer int) []syllable.Syllable {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.touches[pointer]
	if t == nil {
		return nil
	}
	return p.decoder.Candidates(t.session)
}

// SetASCIIMode switches between phonetic and latin pass-through input.
// A composition in progress is dropped.
func (p *Pipeline) SetASCIIMode(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearComposition()
	p.engine.SetOption(OptionASCIIMode, on)
	if on {
		p.mode = action.ASCII
	} else {
		p.mode = action.Phonetic
	}
	tracer().Infof("softkey: ascii mode %v", on)
}

// ASCIIMode reports whether latin pass-through is active.
func (p *Pipeline) ASCIIMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode == action.ASCII
}

// SetOverrides replaces the per-key overrides, e.g. after a configuration
// reload.
func (p *Pipeline) SetOverrides(overrides action.Overrides) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolver = action.NewResolver(overrides)
}

// SetKeyboardType records the keyboard shown by the host.
func (p *Pipeline) SetKeyboardType(id keyboard.TypeID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyboard = id
}

// KeyboardType returns the current keyboard type. Resolved keyboard
// switches update it.
func (p *Pipeline) KeyboardType() keyboard.TypeID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keyboard
}

// Reset cancels all touches and drops the composition.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ptr, t := range p.touches {
		p.cancel(t)
		delete(p.touches, ptr)
	}
	p.clearComposition()
}

func (p *Pipeline) classifierFor(key keyboard.Key) *gesture.Classifier {
	id := key.ID()
	c := p.classifiers[id]
	if c == nil {
		c = gesture.NewClassifier(p.gconf, p.clock, func(t gesture.Tick) {
			p.fire(id, t)
		})
		p.classifiers[id] = c
	}
	return c
}

func (p *Pipeline) cancel(t *touch) {
	if t.classifier.Generation() == t.generation {
		t.classifier.Handle(gesture.PointerEvent{Phase: gesture.PhaseCancel}, keyboard.Key{})
	}
}

// fire is called from a timer goroutine.
func (p *Pipeline) fire(keyID string, tick gesture.Tick) {
	p.mu.Lock()
	var out []action.Outcome
	if c := p.classifiers[keyID]; c != nil {
		out = p.dispatch(nil, c.Fire(tick))
	}
	callback := p.onTimer
	p.mu.Unlock()
	if len(out) > 0 && callback != nil {
		callback(out)
	}
}

// dispatch resolves gesture events. t is nil for timer events. p.mu must
// be held.
func (p *Pipeline) dispatch(t *touch, events []gesture.Event) []action.Outcome {
	var out []action.Outcome
	for _, e := range events {
		if e.Kind == gesture.DragUpdate {
			if t == nil {
				continue
			}
			code, ok := p.decoder.Update(t.session, e)
			if !ok {
				continue
			}
			switch code.Kind {
			case drag.CursorDelta:
				out = append(out, action.Move(code.Delta))
			case drag.SwipeCode:
				trigger, _ := action.SwipeTrigger(code.Direction)
				out = append(out, p.resolve(action.Input{
					Trigger: trigger,
					Key:     code.Origin,
					Swipe:   code.Swipe,
				})...)
			}
			continue
		}
		trigger, ok := action.TriggerFor(e.Kind)
		if !ok {
			continue
		}
		out = append(out, p.resolve(action.Input{Trigger: trigger, Key: e.Key})...)
	}
	return out
}

// resolve runs the resolver and talks to the engine. p.mu must be held.
func (p *Pipeline) resolve(in action.Input) []action.Outcome {
	before := p.buffer.Snapshot()
	o := p.resolver.Resolve(in, p.mode, &p.buffer)
	switch o.Kind {
	case action.Noop:
		return nil
	case action.ForwardCode:
		return p.forward(o, before)
	case action.Commit, action.ClearComposition:
		p.engine.CleanComposition()
	case action.SwitchKeyboard:
		if before.State == composition.Composing {
			p.engine.CleanComposition()
		}
		p.keyboard = o.Keyboard
	}
	return []action.Outcome{o}
}

// forward sends a code to the engine and brings the buffer in line with
// the engine's state.
func (p *Pipeline) forward(o action.Outcome, before composition.Snapshot) []action.Outcome {
	if !p.engine.ProcessKey(o.Text) {
		tracer().Errorf("softkey: engine did not accept %q", o.Text)
		p.buffer.Restore(before)
		if action.IsNamedCode(o.Text) {
			return nil
		}
		return []action.Outcome{action.Insert(o.Text)}
	}
	out := []action.Outcome{o}
	if text := p.engine.CommitText(); text != "" {
		out = append(out, action.Committed(p.buffer.Commit(text)))
		p.engine.CleanComposition()
		return out
	}
	if !p.engine.IsComposing() {
		p.buffer.Clear()
	}
	return out
}

// clearComposition drops the composition in buffer and engine. p.mu must
// be held.
func (p *Pipeline) clearComposition() {
	if !p.buffer.IsEmpty() {
		p.buffer.Clear()
		p.engine.CleanComposition()
	}
}
