/*
Package composition tracks the raw input keys of a composition in progress.

A Buffer is Empty or Composing. It is Composing exactly when it holds raw
input keys; this equivalence is what decides whether the next keystroke
continues a composition or is inserted literally.
*/
package composition

import "strings"

// State of a Buffer.
type State uint8

const (
	Empty State = iota
	Composing
)

func (s State) String() string {
	if s == Composing {
		return "composing"
	}
	return "empty"
}

// Buffer holds the raw input keys sent towards the conversion engine.
// The zero Buffer is empty and ready to use. A Buffer is not safe for
// concurrent use.
type Buffer struct {
	units         []string // appended codes, in order
	pendingCommit string
	hasCommit     bool
}

// Snapshot is an immutable copy of a buffer's observable state.
type Snapshot struct {
	RawInputKeys string
	State        State
	units        []string
}

// State returns Composing if the buffer holds raw input keys.
func (b *Buffer) State() State {
	if len(b.units) == 0 {
		return Empty
	}
	return Composing
}

// IsEmpty is true in state Empty.
func (b *Buffer) IsEmpty() bool { return len(b.units) == 0 }

// RawInputKeys returns the concatenation of all appended codes.
func (b *Buffer) RawInputKeys() string { return strings.Join(b.units, "") }

// Snapshot returns the current state.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		RawInputKeys: b.RawInputKeys(),
		State:        b.State(),
		units:        append([]string(nil), b.units...),
	}
}

// Append adds a code. An empty code is ignored, as it would leave the
// buffer Composing without content.
func (b *Buffer) Append(code string) {
	if code == "" {
		return
	}
	b.units = append(b.units, code)
}

// BackspaceOneCode removes the most recently appended code. It reports
// whether a code was removed; on an empty buffer it does nothing.
func (b *Buffer) BackspaceOneCode() bool {
	if len(b.units) == 0 {
		return false
	}
	b.units = b.units[:len(b.units)-1]
	return true
}

// Commit ends the composition, whatever its state, and returns text
// unchanged. text is kept as pending commit until TakeCommit.
func (b *Buffer) Commit(text string) string {
	b.units = b.units[:0]
	b.pendingCommit, b.hasCommit = text, true
	return text
}

// TakeCommit returns and forgets the text of the last Commit.
func (b *Buffer) TakeCommit() (string, bool) {
	text, ok := b.pendingCommit, b.hasCommit
	b.pendingCommit, b.hasCommit = "", false
	return text, ok
}

// Clear ends the composition without output.
func (b *Buffer) Clear() {
	b.units = b.units[:0]
}

// Restore resets the buffer to a snapshot taken earlier. For snapshots
// built by hand, every character of RawInputKeys becomes one code unit.
func (b *Buffer) Restore(s Snapshot) {
	b.units = b.units[:0]
	if s.units != nil || s.RawInputKeys == "" {
		b.units = append(b.units, s.units...)
		return
	}
	for _, r := range s.RawInputKeys {
		b.units = append(b.units, string(r))
	}
}
