package dat

// DAT is a frozen double-array trie over a small byte alphabet, used for
// T9 digit sequences.
// - Nodes/states are indices into Base/Check (0 is unused; Root is typically 1).
// - Transition: t := Base[s] + c; valid if Check[t] == s; next state is t.
// - c is a dense alphabet ID in [1..Sigma]. c==0 means "not in alphabet".
//
// Terminal information (which syllables end at a state) is not part of the
// DAT. Clients keep it in a side table indexed by state.
type DAT struct {
	// Root state index (commonly 1).
	Root uint32

	// Sigma is the size of the dense alphabet (maximum dense ID).
	Sigma uint16

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// Alphabet maps input symbols to dense IDs [0..Sigma].
	Alphabet Alphabet
}

// New creates an empty DAT for the given alphabet. Arrays are grown
// while states are placed.
func New(alphabet Alphabet) *DAT {
	return &DAT{
		Root:     1,
		Sigma:    alphabet.Size(),
		Alphabet: alphabet,
	}
}

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok). dense must be in [1..Sigma].
func (d *DAT) Transition(state uint32, dense uint16) (uint32, bool) {
	if dense == 0 || int(state) >= len(d.Base) || int(state) >= len(d.Check) {
		return 0, false
	}
	t := d.Base[state] + int32(dense)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// Walk follows the symbols of key starting at the root. It returns the
// state reached after the last symbol, or false if some symbol has no edge.
func (d *DAT) Walk(key string) (uint32, bool) {
	state := d.Root
	for i := 0; i < len(key); i++ {
		next, ok := d.Transition(state, d.Dense(key[i]))
		if !ok {
			return 0, false
		}
		state = next
	}
	return state, true
}

// Children calls f for every outgoing edge of state, in ascending order of
// dense labels.
func (d *DAT) Children(state uint32, f func(dense uint16, child uint32)) {
	for c := uint16(1); c <= d.Sigma; c++ {
		if next, ok := d.Transition(state, c); ok {
			f(c, next)
		}
	}
}

// Dense maps an input symbol to a dense alphabet ID.
// Returns 0 if the symbol is not in the alphabet.
func (d *DAT) Dense(b byte) uint16 { return d.Alphabet.Dense(b) }

// Place assigns slots to the children of state. labels must be sorted
// ascending and non-empty. It returns the base chosen for state; the
// child for labels[i] lives at base+labels[i].
func (d *DAT) Place(state uint32, labels []uint16) int {
	base := d.findBase(labels)
	d.ensureIndex(base + int(labels[len(labels)-1]))
	d.Base[state] = int32(base)
	for _, label := range labels {
		d.Check[base+int(label)] = int32(state)
	}
	return base
}

// Reset prepares the arrays for a fresh placement run.
func (d *DAT) Reset() {
	d.Base = make([]int32, int(d.Root)+1)
	d.Check = make([]int32, int(d.Root)+1)
}

func (d *DAT) findBase(labels []uint16) int {
	for base := 1; ; base++ {
		ok := true
		for _, label := range labels {
			t := base + int(label)
			if t == int(d.Root) || (t < len(d.Check) && d.Check[t] != 0) {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
}

func (d *DAT) ensureIndex(idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
}
