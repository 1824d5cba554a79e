/*
Package drag decodes the drag stream of a single touch sequence.

Dragging the space bar moves the text cursor: the horizontal distance from
the touch-down location is quantized into cursor steps, and every change of
the step count is reported once. Dragging a character key is a swipe: the
first direction the drag settles on selects an entry of the key's swipe
table. The direction is reported even if the key has no entry for it.

A Session holds the per-drag state. It is created on touch-down and thrown
away on touch-up or cancellation; a session never outlives its touch
sequence.
*/
package drag

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/npillmayer/softkey/syllable"
)

// tracer writes to trace with key 'softkey.drag'
func tracer() tracing.Trace {
	return tracing.Select("softkey.drag")
}

// Sensitivity is the drag distance in points per cursor step.
type Sensitivity float64

const (
	Low    Sensitivity = 10
	Medium Sensitivity = 5
	High   Sensitivity = 2
)

// ParseSensitivity accepts "low", "medium", "high" or a positive number
// of points.
func ParseSensitivity(s string) (Sensitivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid drag sensitivity %q", s)
	}
	return Sensitivity(v), nil
}

// Config holds the thresholds of a Decoder.
type Config struct {
	Sensitivity       Sensitivity
	VerticalThreshold float64 // cursor drags deviating further are ignored
	SwipeDistance     float64 // minimum distance before a swipe direction is resolved
	TangentThreshold  float64 // max. minor/major axis ratio of a straight swipe
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		Sensitivity:       Medium,
		VerticalThreshold: 50,
		SwipeDistance:     20,
		TangentThreshold:  0.268, // tan 15°
	}
}

// CodeKind tells what a Code carries.
type CodeKind uint8

const (
	CursorDelta CodeKind = iota
	SwipeCode
)

// Code is a decoded drag result.
type Code struct {
	Kind      CodeKind
	Delta     int                // cursor steps, CursorDelta only; negative moves left
	Direction keyboard.Direction // SwipeCode only
	Origin    keyboard.Key
	Swipe     keyboard.Swipe // the matching swipe entry, SwipeCode only; zero if the key has none
}

func (c Code) String() string {
	if c.Kind == CursorDelta {
		return fmt.Sprintf("CursorDelta(%d)", c.Delta)
	}
	return fmt.Sprintf("SwipeCode(%s,%s)", c.Direction, c.Origin.ID())
}

// Session is the state of one drag.
type Session struct {
	Start      gesture.Point
	Key        keyboard.Key
	lastOffset int
	abandoned  bool
	resolved   bool
	direction  keyboard.Direction
	digits     []byte
}

// Digits returns the T9 digits accumulated by character swipes.
func (s *Session) Digits() string { return string(s.digits) }

// Direction returns the resolved swipe direction, or NoDirection.
func (s *Session) Direction() keyboard.Direction { return s.direction }

// Decoder turns drag updates into cursor deltas or swipe codes.
// A Decoder holds no per-drag state and may be shared.
type Decoder struct {
	conf Config
	trie *syllable.Trie
}

// NewDecoder creates a decoder. trie may be nil if T9 candidates are not
// needed.
func NewDecoder(conf Config, trie *syllable.Trie) *Decoder {
	if conf.Sensitivity <= 0 {
		conf.Sensitivity = Medium
	}
	return &Decoder{conf: conf, trie: trie}
}

// Begin starts a session for a touch-down on key at start.
func (d *Decoder) Begin(key keyboard.Key, start gesture.Point) *Session {
	return &Session{Start: start, Key: key}
}

// Update feeds one gesture event into a session. Events other than
// DragUpdate are ignored. It returns a code when the drag produced one.
func (d *Decoder) Update(s *Session, ev gesture.Event) (Code, bool) {
	if s == nil || ev.Kind != gesture.DragUpdate {
		return Code{}, false
	}
	if s.Key.IsSpace() {
		return d.cursor(s, ev.DX, ev.DY)
	}
	return d.swipe(s, ev.DX, ev.DY)
}

func (d *Decoder) cursor(s *Session, dx, dy float64) (Code, bool) {
	if s.abandoned {
		return Code{}, false
	}
	if math.Abs(dy) > d.conf.VerticalThreshold {
		tracer().Debugf("drag: vertical deviation %.1f, cursor drag ignored", dy)
		s.abandoned = true
		return Code{}, false
	}
	offset := int(dx / float64(d.conf.Sensitivity))
	if offset == s.lastOffset {
		return Code{}, false
	}
	delta := offset - s.lastOffset
	s.lastOffset = offset
	return Code{Kind: CursorDelta, Delta: delta, Origin: s.Key}, true
}

func (d *Decoder) swipe(s *Session, dx, dy float64) (Code, bool) {
	if s.resolved {
		return Code{}, false
	}
	dir := Bucket(dx, dy, d.conf.SwipeDistance, d.conf.TangentThreshold)
	if dir == keyboard.NoDirection {
		return Code{}, false
	}
	s.resolved = true
	s.direction = dir
	entry, ok := s.Key.Swipe(dir)
	if !ok {
		// overrides may still bind the direction
		tracer().Debugf("drag: no swipe %s on %s", dir, s.Key.ID())
		return Code{Kind: SwipeCode, Direction: dir, Origin: s.Key}, true
	}
	if entry.Action.IsCharacter() {
		if digit, ok := t9Digit(entry.Action.Code()); ok {
			s.digits = append(s.digits, digit)
		}
	}
	return Code{Kind: SwipeCode, Direction: dir, Origin: s.Key, Swipe: entry}, true
}

// Candidates returns the syllables matching the digits accumulated in s.
func (d *Decoder) Candidates(s *Session) []syllable.Syllable {
	if s == nil || len(s.digits) == 0 || d.trie == nil {
		return nil
	}
	return d.trie.PrefixSearch(s.Digits())
}

// Bucket resolves a drag offset into a cardinal direction. Screen
// coordinates grow downwards. It returns NoDirection while the drag is
// shorter than distance or too diagonal.
func Bucket(dx, dy, distance, tangent float64) keyboard.Direction {
	if math.Hypot(dx, dy) < distance {
		return keyboard.NoDirection
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ax > 0 && ay/ax <= tangent:
		if dx > 0 {
			return keyboard.Right
		}
		return keyboard.Left
	case ay > 0 && ax/ay <= tangent:
		if dy > 0 {
			return keyboard.Down
		}
		return keyboard.Up
	}
	return keyboard.NoDirection
}

// t9Digit returns the digit for a single-character code: digits stand
// for themselves, letters are mapped through the T9 table.
func t9Digit(code string) (byte, bool) {
	if len(code) != 1 {
		return 0, false
	}
	c := code[0]
	if c >= '2' && c <= '9' {
		return c, true
	}
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return syllable.Digit(c)
}
