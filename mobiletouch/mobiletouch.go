/*
Package mobiletouch translates golang.org/x/mobile input events into
pointer events for the gesture classifier.

Hosts built on x/mobile receive touch.Event values from their app's event
loop and mouse.Event values on desktop builds. Both report pixel
coordinates; the gesture thresholds are measured in points, so an Adapter
divides by the screen's pixels per point (see size.Event.PixelsPerPt).
*/
package mobiletouch

import (
	"time"

	"github.com/npillmayer/softkey/gesture"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// MousePointer is the pointer number assigned to mouse events.
const MousePointer = -1

// Adapter converts x/mobile events.
type Adapter struct {
	PixelsPerPt float32 // zero is treated as 1
	Clock       gesture.Clock
}

func (a Adapter) point(x, y float32) gesture.Point {
	scale := a.PixelsPerPt
	if scale <= 0 {
		scale = 1
	}
	return gesture.Point{X: float64(x / scale), Y: float64(y / scale)}
}

func (a Adapter) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

// Touch converts a touch event. Every finger keeps its touch sequence
// number as pointer.
func (a Adapter) Touch(e touch.Event) gesture.PointerEvent {
	ev := gesture.PointerEvent{
		Pointer:  int(e.Sequence),
		Location: a.point(e.X, e.Y),
		Time:     a.now(),
	}
	switch e.Type {
	case touch.TypeBegin:
		ev.Phase = gesture.PhaseDown
	case touch.TypeMove:
		ev.Phase = gesture.PhaseMove
	case touch.TypeEnd:
		ev.Phase = gesture.PhaseUp
	default:
		ev.Phase = gesture.PhaseCancel
	}
	return ev
}

// Mouse converts a mouse event. Only the primary button produces touch
// sequences; ok is false for everything else, including scroll steps.
func (a Adapter) Mouse(e mouse.Event) (ev gesture.PointerEvent, ok bool) {
	if e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonNone {
		return ev, false
	}
	ev = gesture.PointerEvent{
		Pointer:  MousePointer,
		Location: a.point(e.X, e.Y),
		Time:     a.now(),
	}
	switch e.Direction {
	case mouse.DirPress:
		ev.Phase = gesture.PhaseDown
	case mouse.DirRelease:
		ev.Phase = gesture.PhaseUp
	case mouse.DirNone:
		ev.Phase = gesture.PhaseMove
	default:
		return ev, false
	}
	if e.Button == mouse.ButtonNone && ev.Phase != gesture.PhaseMove {
		return ev, false
	}
	return ev, true
}
