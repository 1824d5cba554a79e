package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
)

// Terminal cells are mapped to points, so that the gesture thresholds keep
// their meaning.
const (
	cellWidth  = 8
	cellHeight = 16
	keyHeight  = 3
)

func cellToPoint(x, y int) gesture.Point {
	return gesture.Point{X: float64(x*cellWidth + cellWidth/2), Y: float64(y*cellHeight + cellHeight/2)}
}

// document is the text being edited.
type document struct {
	text   []rune
	cursor int
}

func (d *document) insert(s string) {
	r := []rune(s)
	d.text = append(d.text[:d.cursor], append(r, d.text[d.cursor:]...)...)
	d.cursor += len(r)
}

// apply performs the editing part of an outcome and returns a status
// message, if any.
func (d *document) apply(o action.Outcome) string {
	switch o.Kind {
	case action.InsertLiteral, action.Commit:
		d.insert(o.Text)
	case action.MoveCursor:
		d.cursor = max(0, min(len(d.text), d.cursor+o.Offset))
	case action.DeleteBackward:
		if d.cursor > 0 {
			d.text = append(d.text[:d.cursor-1], d.text[d.cursor:]...)
			d.cursor--
		}
	case action.SwitchKeyboard:
		return fmt.Sprintf("keyboard %s", o.Keyboard)
	case action.CustomAction:
		return fmt.Sprintf("custom action %q", o.Text)
	}
	return ""
}

// keyBox is the screen area of a key.
type keyBox struct {
	key        keyboard.Key
	x, y, w, h int
}

func (b keyBox) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

func (b keyBox) bounds() gesture.Rect {
	return gesture.Rect{
		Min: gesture.Point{X: float64(b.x * cellWidth), Y: float64(b.y * cellHeight)},
		Max: gesture.Point{X: float64((b.x + b.w) * cellWidth), Y: float64((b.y + b.h) * cellHeight)},
	}
}

// view draws the document, the composition and a keyboard.
type view struct {
	screen tcell.Screen
	layout keyboard.Layout
	boxes  []keyBox
}

// arrange lays out the keyboard rows at the bottom of the screen.
func (v *view) arrange(layout keyboard.Layout) {
	v.layout = layout
	v.boxes = v.boxes[:0]
	width, height := v.screen.Size()
	top := height - len(layout.Rows)*keyHeight
	for r, row := range layout.Rows {
		if len(row) == 0 {
			continue
		}
		w := max(4, width/len(row))
		for c, k := range row {
			v.boxes = append(v.boxes, keyBox{key: k, x: c * w, y: top + r*keyHeight, w: w, h: keyHeight})
		}
	}
}

func (v *view) hit(x, y int) (keyBox, bool) {
	for _, b := range v.boxes {
		if b.contains(x, y) {
			return b, true
		}
	}
	return keyBox{}, false
}

func label(k keyboard.Key) string {
	if k.Label != "" {
		return k.Label
	}
	if k.Action.Value != "" {
		return k.Action.Value
	}
	return k.Action.Kind.String()
}

var (
	styleText    = tcell.StyleDefault
	stylePreedit = tcell.StyleDefault.Underline(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleKey     = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleSwipe   = styleKey.Foreground(tcell.ColorSilver)
	styleActive  = tcell.StyleDefault.Background(tcell.ColorSteelBlue).Foreground(tcell.ColorWhite)
)

func (v *view) puts(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// draw renders everything. active is the key currently touched, or nil.
func (v *view) draw(doc *document, preedit string, candidates []string, status string, active *keyBox) {
	v.screen.Clear()
	x := v.puts(0, 0, string(doc.text[:doc.cursor]), styleText)
	x = v.puts(x, 0, preedit, stylePreedit)
	v.screen.ShowCursor(x, 0)
	v.puts(x, 0, string(doc.text[doc.cursor:]), styleText)
	v.puts(0, 2, strings.Join(candidates, " "), styleText)
	v.puts(0, 3, status, styleStatus)
	for _, b := range v.boxes {
		style := styleKey
		if active != nil && b.x == active.x && b.y == active.y {
			style = styleActive
		}
		for dy := 0; dy < b.h; dy++ {
			for dx := 1; dx < b.w; dx++ {
				v.screen.SetContent(b.x+dx, b.y+dy, ' ', nil, style)
			}
		}
		l := label(b.key)
		v.puts(b.x+max(1, (b.w-len([]rune(l)))/2), b.y+1, l, style)
		if s, ok := b.key.Swipe(keyboard.Up); ok && s.Display {
			v.puts(b.x+b.w-1-len([]rune(s.Label)), b.y, s.Label, styleSwipe)
		}
	}
	v.screen.Show()
}
