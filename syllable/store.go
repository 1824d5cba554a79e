package syllable

import "fmt"

// terminalStore keeps the IDs of syllables ending at a trie state,
// directly indexed by state. Storage is a compressed row layout: the IDs for
// state s are ids[offsets[s]:offsets[s+1]].
type terminalStore struct {
	offsets []uint32
	ids     []uint32
}

type terminalEntry struct {
	state uint32
	id    uint32
}

// newTerminalStore packs entries for a trie with nstates states. Entries
// for the same state keep their relative order.
func newTerminalStore(nstates int, entries []terminalEntry) (*terminalStore, error) {
	s := &terminalStore{
		offsets: make([]uint32, nstates+1),
		ids:     make([]uint32, len(entries)),
	}
	for _, e := range entries {
		if e.state == 0 || int(e.state) >= nstates {
			return nil, fmt.Errorf("trie state out of range: %d", e.state)
		}
		s.offsets[e.state+1]++
	}
	for i := 1; i < len(s.offsets); i++ {
		s.offsets[i] += s.offsets[i-1]
	}
	fill := make([]uint32, nstates)
	for _, e := range entries {
		at := s.offsets[e.state] + fill[e.state]
		s.ids[at] = e.id
		fill[e.state]++
	}
	return s, nil
}

// At returns the syllable IDs terminating at state. The result must not be
// modified.
func (s *terminalStore) At(state uint32) []uint32 {
	if int(state)+1 >= len(s.offsets) {
		return nil
	}
	return s.ids[s.offsets[state]:s.offsets[state+1]]
}

// Count returns the number of stored IDs.
func (s *terminalStore) Count() int { return len(s.ids) }
