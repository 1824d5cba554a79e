/*
Package action resolves gestures on keys into editing outcomes.

Resolution looks at the trigger (the classified gesture or swipe), the key,
the input mode and the composition buffer. Rules are tried in order and the
first match wins:

 1. a configured override for (key, trigger)
 2. release on a character key while composing or in phonetic mode:
    forward the code to the engine and append it to the buffer
 3. release on a character key in ASCII mode: insert it literally
 4. press and repeat ticks on backspace: drop one code from the buffer,
    or delete a character from the document if the buffer is empty
 5. long press and double tap on shift or keyboard-type keys: switch
    keyboards
 6. release on other keys: their own action (space, enter, cursor keys, …)
 7. anything else: noop

Swipe triggers resolve the action of the swipe entry like a release.
The Resolver keeps no state between calls; its only side effects are the
transitions of the buffer passed in.
*/
package action

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/softkey/composition"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
)

// tracer writes to trace with key 'softkey.action'
func tracer() tracing.Trace {
	return tracing.Select("softkey.action")
}

// Trigger is what happened on a key: a discrete gesture or a swipe.
type Trigger uint8

const (
	Press Trigger = iota
	Release
	LongPress
	RepeatTick
	DoubleTap
	SwipeUp
	SwipeDown
	SwipeLeft
	SwipeRight
)

var triggerNames = [...]string{
	Press:      "press",
	Release:    "release",
	LongPress:  "longPress",
	RepeatTick: "repeatTick",
	DoubleTap:  "doubleTap",
	SwipeUp:    "swipeUp",
	SwipeDown:  "swipeDown",
	SwipeLeft:  "swipeLeft",
	SwipeRight: "swipeRight",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("Trigger(%d)", t)
}

// ParseTrigger parses the textual form of a trigger, e.g. "longPress".
func ParseTrigger(s string) (Trigger, error) {
	for i, name := range triggerNames {
		if name == s {
			return Trigger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger %q", s)
}

// IsSwipe is true for the swipe triggers.
func (t Trigger) IsSwipe() bool { return t >= SwipeUp && t <= SwipeRight }

// TriggerFor maps a discrete gesture to its trigger. Drag updates have no
// trigger of their own.
func TriggerFor(k gesture.Kind) (Trigger, bool) {
	switch k {
	case gesture.Press:
		return Press, true
	case gesture.Release:
		return Release, true
	case gesture.LongPress:
		return LongPress, true
	case gesture.RepeatTick:
		return RepeatTick, true
	case gesture.DoubleTap:
		return DoubleTap, true
	}
	return 0, false
}

// SwipeTrigger maps a swipe direction to its trigger.
func SwipeTrigger(d keyboard.Direction) (Trigger, bool) {
	switch d {
	case keyboard.Up:
		return SwipeUp, true
	case keyboard.Down:
		return SwipeDown, true
	case keyboard.Left:
		return SwipeLeft, true
	case keyboard.Right:
		return SwipeRight, true
	}
	return 0, false
}

// Mode is the input mode of the keyboard.
type Mode uint8

const (
	Phonetic Mode = iota // characters go through the conversion engine
	ASCII                // latin pass-through
)

// OverrideKey selects an override: a key ID (see keyboard.Key.ID) and a
// trigger.
type OverrideKey struct {
	Key     string
	Trigger Trigger
}

// Overrides replace the default behaviour of keys. The replacement action
// is performed like a release of a key with that action.
type Overrides map[OverrideKey]keyboard.Action

// Input is one resolution request.
type Input struct {
	Trigger Trigger
	Key     keyboard.Key
	Swipe   keyboard.Swipe // swipe entry, swipe triggers only; zero if the key has none
}

// Resolver maps gestures to outcomes.
type Resolver struct {
	overrides Overrides
}

// NewResolver creates a resolver with a set of overrides, which may be nil.
// The map must not be modified afterwards.
func NewResolver(overrides Overrides) *Resolver {
	return &Resolver{overrides: overrides}
}

// Resolve returns the outcome of in and applies the resulting transition
// to buf.
func (r *Resolver) Resolve(in Input, mode Mode, buf *composition.Buffer) Outcome {
	o := r.resolve(in, mode, buf)
	tracer().Debugf("action: %s on %s → %s", in.Trigger, in.Key.ID(), o)
	return o
}

func (r *Resolver) resolve(in Input, mode Mode, buf *composition.Buffer) Outcome {
	hasSwipe := in.Trigger.IsSwipe() && in.Swipe.Direction != keyboard.NoDirection
	if a, ok := r.overrides[OverrideKey{Key: in.Key.ID(), Trigger: in.Trigger}]; ok {
		if hasSwipe {
			return perform(a, in.Swipe.ProcessByEngine, mode, buf)
		}
		return perform(a, in.Key.ProcessByEngine, mode, buf)
	}
	if in.Trigger.IsSwipe() {
		if !hasSwipe {
			return Outcome{} // no swipe entry for this direction
		}
		return perform(in.Swipe.Action, in.Swipe.ProcessByEngine, mode, buf)
	}
	kind := in.Key.Action.Kind
	switch in.Trigger {
	case Release:
		if kind == keyboard.ActionBackspace {
			return Outcome{} // handled on press
		}
		return perform(in.Key.Action, in.Key.ProcessByEngine, mode, buf)
	case Press, RepeatTick:
		if kind == keyboard.ActionBackspace {
			return backspace(buf)
		}
	case LongPress, DoubleTap:
		switch kind {
		case keyboard.ActionShift:
			return switchKeyboard(keyboard.AlphabeticCapsLock, buf)
		case keyboard.ActionKeyboardType:
			return switchKeyboard(keyboard.TypeID(in.Key.Action.Value), buf)
		}
	}
	return Outcome{}
}

// perform applies an action with release semantics.
func perform(a keyboard.Action, viaEngine bool, mode Mode, buf *composition.Buffer) Outcome {
	composing := !buf.IsEmpty()
	switch a.Kind {
	case keyboard.ActionCharacter, keyboard.ActionCharacterMargin, keyboard.ActionNineGrid:
		code := a.Code()
		if viaEngine && (composing || mode == Phonetic) {
			buf.Append(code)
			return Forward(code)
		}
		return Insert(code)
	case keyboard.ActionSymbol:
		return Insert(a.Value)
	case keyboard.ActionBackspace:
		return backspace(buf)
	case keyboard.ActionSpace:
		if composing {
			return Forward(CodeSpace)
		}
		return Insert(" ")
	case keyboard.ActionEnter:
		if composing {
			return Committed(buf.Commit(buf.RawInputKeys()))
		}
		return Insert("\n")
	case keyboard.ActionTab:
		return Insert("\t")
	case keyboard.ActionShift:
		return switchKeyboard(keyboard.AlphabeticUppercase, buf)
	case keyboard.ActionKeyboardType:
		return switchKeyboard(keyboard.TypeID(a.Value), buf)
	case keyboard.ActionMoveCursorBackward:
		return Move(-1)
	case keyboard.ActionMoveCursorForward:
		return Move(1)
	case keyboard.ActionDelimiter:
		if composing {
			buf.Append(keyboard.Delimiter)
			return Forward(keyboard.Delimiter)
		}
		return Insert(keyboard.Delimiter)
	case keyboard.ActionCleanSpellingArea:
		buf.Clear()
		return Outcome{Kind: ClearComposition}
	case keyboard.ActionCustom:
		return Custom(a.Value)
	}
	return Outcome{}
}

func backspace(buf *composition.Buffer) Outcome {
	if buf.BackspaceOneCode() {
		return Forward(CodeBackSpace)
	}
	return Outcome{Kind: DeleteBackward}
}

// switchKeyboard leaves any composition behind.
func switchKeyboard(id keyboard.TypeID, buf *composition.Buffer) Outcome {
	buf.Clear()
	return Switch(id)
}
