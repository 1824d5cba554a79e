package keyboard

import (
	"errors"
	"fmt"
)

// Direction of a swipe.
type Direction uint8

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection parses "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		if d.String() == s {
			return d, nil
		}
	}
	return NoDirection, fmt.Errorf("unknown swipe direction %q", s)
}

// TypeID identifies a keyboard type, e.g. "chinese", "chineseNineGrid",
// "alphabetic(uppercased)" or "custom(name)".
type TypeID string

const (
	Alphabetic          TypeID = "alphabetic"
	AlphabeticUppercase TypeID = "alphabetic(uppercased)"
	AlphabeticCapsLock  TypeID = "alphabetic(capsLocked)"
	Chinese             TypeID = "chinese"
	ChineseNineGrid     TypeID = "chineseNineGrid"
	Numeric             TypeID = "numeric"
	Symbolic            TypeID = "symbolic"
)

// Swipe is a directional alternative action of a key.
type Swipe struct {
	Direction       Direction
	Action          Action
	Label           string // shown on the key face
	Display         bool   // whether Label is shown at all
	ProcessByEngine bool   // route through the conversion engine
}

// Key is one button of a keyboard.
type Key struct {
	Name            string // optional, identifies the key if set
	Action          Action // default, gesture-independent meaning
	Label           string
	ProcessByEngine bool    // route character input through the conversion engine
	Swipes          []Swipe // at most one per direction
}

// NewKey creates a key for an action, routed through the engine.
func NewKey(a Action, swipes ...Swipe) Key {
	return Key{Action: a, ProcessByEngine: true, Swipes: swipes}
}

// ID identifies k: its Name if set, else the textual form of its action.
func (k Key) ID() string {
	if k.Name != "" {
		return k.Name
	}
	return k.Action.String()
}

// Swipe returns the swipe entry for direction d.
func (k Key) Swipe(d Direction) (Swipe, bool) {
	for _, s := range k.Swipes {
		if s.Direction == d {
			return s, true
		}
	}
	return Swipe{}, false
}

// IsSpace is true for the space bar.
func (k Key) IsSpace() bool { return k.Action.Kind == ActionSpace }

// ErrDuplicateSwipe is returned by Validate if a key has more than one swipe
// for a direction.
var ErrDuplicateSwipe = errors.New("duplicate swipe direction")

// Validate checks the swipe table of k.
func (k Key) Validate() error {
	var seen [5]bool
	for _, s := range k.Swipes {
		if s.Direction == NoDirection || s.Direction > Right {
			return fmt.Errorf("key %s: swipe without direction", k.ID())
		}
		if seen[s.Direction] {
			return fmt.Errorf("key %s: %w %s", k.ID(), ErrDuplicateSwipe, s.Direction)
		}
		seen[s.Direction] = true
	}
	return nil
}

// Layout is a keyboard: rows of keys.
type Layout struct {
	Name string
	Type TypeID
	Rows [][]Key
}

// Validate checks every key of the layout.
func (l Layout) Validate() error {
	for _, row := range l.Rows {
		for _, k := range row {
			if err := k.Validate(); err != nil {
				return fmt.Errorf("keyboard %s: %w", l.Name, err)
			}
		}
	}
	return nil
}

// Find returns the first key of the layout with the given ID.
func (l Layout) Find(id string) (Key, bool) {
	for _, row := range l.Rows {
		for _, k := range row {
			if k.ID() == id {
				return k, true
			}
		}
	}
	return Key{}, false
}
