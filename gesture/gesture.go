/*
Package gesture classifies the raw pointer events of one key into discrete
gestures.

A Classifier is a small state machine:

	Idle → Down → {Tap, LongPressed, Dragging} → Idle

It emits Press on touch-down and Release when a tap completes. Holding the
key emits LongPress after Config.LongPressDelay, followed by RepeatTick every
Config.RepeatDelay until release; moving a long-pressed key does not stop
the repeat. Moving beyond the dead zone before the long press turns the
sequence into a drag and emits a DragUpdate for every move, measured from the touch-down
location. Two taps on the same key within Config.DoubleTapTimeout emit
DoubleTap after the second Release.

Timers are the only asynchronous element. Every touch sequence carries a
generation number; a timer tick from an earlier generation is dropped.
Timer callbacks never touch classifier state directly: they hand a Tick to
the sink given to NewClassifier, and the owner feeds it back through
Classifier.Fire while holding whatever lock serializes its event stream.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/softkey/keyboard"
)

// tracer writes to trace with key 'softkey.gesture'
func tracer() tracing.Trace {
	return tracing.Select("softkey.gesture")
}

// Point is a location in screen coordinates; Y grows downwards.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle. The zero Rect is empty.
type Rect struct {
	Min, Max Point
}

// Empty is true for rectangles without area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Grow enlarges r on every side by factor times its width or height.
func (r Rect) Grow(factor float64) Rect {
	dx := (r.Max.X - r.Min.X) * factor
	dy := (r.Max.Y - r.Min.Y) * factor
	return Rect{
		Min: Point{X: r.Min.X - dx, Y: r.Min.Y - dy},
		Max: Point{X: r.Max.X + dx, Y: r.Max.Y + dy},
	}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Phase of a raw pointer event.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel // system interruption, or the pointer left the key
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// PointerEvent is a raw touch event as delivered by the host UI.
type PointerEvent struct {
	Pointer  int // identifies the touch across its events
	Phase    Phase
	Location Point
	Time     time.Time // zero means "now" according to the classifier's clock
	Bounds   Rect      // optional bounds of the key hit-test area
}

// Kind is the type of a gesture event.
type Kind uint8

const (
	Press Kind = iota
	Release
	LongPress
	RepeatTick
	DoubleTap
	DragUpdate
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case LongPress:
		return "longPress"
	case RepeatTick:
		return "repeatTick"
	case DoubleTap:
		return "doubleTap"
	case DragUpdate:
		return "dragUpdate"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Event is a classified gesture.
type Event struct {
	Kind  Kind
	Key   keyboard.Key // key the touch sequence started on
	Time  time.Time
	Start Point   // touch-down location
	DX    float64 // drag offset from Start, DragUpdate only
	DY    float64
}

func (e Event) String() string {
	if e.Kind == DragUpdate {
		return fmt.Sprintf("%s(%.1f,%.1f)@%s", e.Kind, e.DX, e.DY, e.Key.ID())
	}
	return fmt.Sprintf("%s@%s", e.Kind, e.Key.ID())
}

// State of a Classifier.
type State uint8

const (
	Idle State = iota
	Down
	LongPressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Down:
		return "down"
	case LongPressed:
		return "longPressed"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Config holds the timing and distance thresholds of a Classifier.
type Config struct {
	LongPressDelay   time.Duration
	RepeatDelay      time.Duration
	DoubleTapTimeout time.Duration
	DeadZone         float64 // movement in points before a touch becomes a drag
	// ReleaseOutside enlarges the key bounds for release detection, as a
	// fraction of the key size. Releasing outside cancels the tap.
	ReleaseOutside float64
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		LongPressDelay:   500 * time.Millisecond,
		RepeatDelay:      100 * time.Millisecond,
		DoubleTapTimeout: 200 * time.Millisecond,
		DeadZone:         8,
		ReleaseOutside:   0.75,
	}
}

// TickKind tells which timer produced a Tick.
type TickKind uint8

const (
	LongPressTick TickKind = iota
	RepeatTimerTick
)

// Tick is a timer expiry, tagged with the generation of the touch sequence
// which scheduled it.
type Tick struct {
	Generation uint64
	Kind       TickKind
}

// Classifier is the gesture state machine for one key.
type Classifier struct {
	conf       Config
	clock      Clock
	sink       func(Tick)
	state      State
	generation uint64
	key        keyboard.Key
	start      Point
	startTime  time.Time
	timer      Timer
	lastTapKey string
	lastTapAt  time.Time
}

// NewClassifier creates a classifier. Timer ticks are passed to sink, from
// the clock's timer goroutine; sink is expected to serialize them with the
// pointer event stream and call Fire.
func NewClassifier(conf Config, clock Clock, sink func(Tick)) *Classifier {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Classifier{conf: conf, clock: clock, sink: sink}
}

// State returns the current state.
func (c *Classifier) State() State { return c.state }

// Generation returns the number of the current touch sequence. It changes
// on touch-down and when a sequence ends.
func (c *Classifier) Generation() uint64 { return c.generation }

// Handle processes a raw pointer event. key is the key under the pointer;
// it is only used on touch-down and stays locked for the rest of the
// sequence.
func (c *Classifier) Handle(ev PointerEvent, key keyboard.Key) []Event {
	now := ev.Time
	if now.IsZero() {
		now = c.clock.Now()
	}
	switch ev.Phase {
	case PhaseDown:
		if c.state != Idle {
			c.cancel()
		}
		return c.down(ev, key, now)
	case PhaseMove:
		return c.move(ev, now)
	case PhaseUp:
		return c.up(ev, now)
	case PhaseCancel:
		c.cancel()
	}
	return nil
}

// Fire processes a timer tick. Ticks of an earlier generation are dropped.
func (c *Classifier) Fire(t Tick) []Event {
	if t.Generation != c.generation {
		return nil
	}
	now := c.clock.Now()
	switch {
	case t.Kind == LongPressTick && c.state == Down:
		c.state = LongPressed
		c.schedule(c.conf.RepeatDelay, RepeatTimerTick)
		tracer().Debugf("gesture: long press on %s", c.key.ID())
		return []Event{c.event(LongPress, now)}
	case t.Kind == RepeatTimerTick && c.state == LongPressed:
		c.schedule(c.conf.RepeatDelay, RepeatTimerTick)
		return []Event{c.event(RepeatTick, now)}
	}
	return nil
}

// Reset cancels any touch sequence in progress and forgets tap history.
func (c *Classifier) Reset() {
	c.cancel()
	c.lastTapKey = ""
	c.lastTapAt = time.Time{}
}

func (c *Classifier) down(ev PointerEvent, key keyboard.Key, now time.Time) []Event {
	c.generation++
	c.state = Down
	c.key = key
	c.start = ev.Location
	c.startTime = now
	c.schedule(c.conf.LongPressDelay, LongPressTick)
	return []Event{c.event(Press, now)}
}

func (c *Classifier) move(ev PointerEvent, now time.Time) []Event {
	d := ev.Location.Sub(c.start)
	switch c.state {
	case Down:
		if math.Hypot(d.X, d.Y) <= c.conf.DeadZone {
			return nil
		}
		c.stopTimer() // a tick already in flight finds state Dragging and is ignored
		c.state = Dragging
		tracer().Debugf("gesture: drag starts on %s", c.key.ID())
		fallthrough
	case Dragging:
		e := c.event(DragUpdate, now)
		e.DX, e.DY = d.X, d.Y
		return []Event{e}
	}
	return nil
}

func (c *Classifier) up(ev PointerEvent, now time.Time) []Event {
	state := c.state
	c.finish()
	if state != Down {
		return nil
	}
	if !ev.Bounds.Empty() && !ev.Bounds.Grow(c.conf.ReleaseOutside).Contains(ev.Location) {
		tracer().Debugf("gesture: release outside of %s", c.key.ID())
		return nil
	}
	if now.Sub(c.startTime) >= c.conf.LongPressDelay {
		// timer has not been delivered yet
		return []Event{c.event(LongPress, now)}
	}
	events := []Event{c.event(Release, now)}
	id := c.key.ID()
	if c.lastTapKey == id && now.Sub(c.lastTapAt) <= c.conf.DoubleTapTimeout {
		events = append(events, c.event(DoubleTap, now))
		c.lastTapKey = ""
		return events
	}
	c.lastTapKey, c.lastTapAt = id, now
	return events
}

func (c *Classifier) cancel() {
	if c.state != Idle {
		tracer().Debugf("gesture: sequence on %s cancelled", c.key.ID())
	}
	c.finish()
}

// finish ends the current sequence; pending ticks become stale.
func (c *Classifier) finish() {
	c.stopTimer()
	c.generation++
	c.state = Idle
}

func (c *Classifier) schedule(d time.Duration, kind TickKind) {
	c.stopTimer()
	if c.sink == nil {
		return
	}
	tick := Tick{Generation: c.generation, Kind: kind}
	sink := c.sink
	c.timer = c.clock.AfterFunc(d, func() { sink(tick) })
}

func (c *Classifier) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Classifier) event(k Kind, now time.Time) Event {
	return Event{Kind: k, Key: c.key, Time: now, Start: c.start}
}
