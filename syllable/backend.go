package syllable

type digitTrieStats struct {
	Backend    string
	UsedSlots  int
	TotalSlots int
	MaxStateID int
}

func (s digitTrieStats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

// digitTrie is the internal backend abstraction for digit-code storage.
//
// Positions handed out before Freeze are temporary. ResolvePosition maps
// them to the final state IDs of the frozen trie.
type digitTrie interface {
	AllocPosition(code string) int
	ResolvePosition(pos int) uint32
	Freeze()
	Walk(code string) (uint32, bool)
	Children(state uint32, f func(digit byte, child uint32))
	Stats() digitTrieStats
}
