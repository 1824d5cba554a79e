package syllable

import (
	"fmt"
	"sort"

	"github.com/npillmayer/softkey/dat"
)

type datBuildNode struct {
	tmpID    int
	state    uint32
	children map[uint16]*datBuildNode
}

type datBackend struct {
	frozen     bool
	root       *datBuildNode
	nextNodeID int
	tmpToState []uint32 // filled by Freeze
	compiled   *dat.DAT
}

func newDATBackend() *datBackend {
	return &datBackend{
		root:       &datBuildNode{tmpID: 1, children: make(map[uint16]*datBuildNode)},
		nextNodeID: 2,
		compiled:   dat.New(dat.Digits),
	}
}

// AllocPosition inserts a digit code during construction and returns its
// temporary position. It returns 0 for an empty code, for codes with
// symbols outside '2'..'9', and for any call after Freeze.
func (db *datBackend) AllocPosition(code string) int {
	if db.frozen || code == "" {
		return 0
	}
	n := db.root
	for i := 0; i < len(code); i++ {
		c := db.compiled.Dense(code[i])
		if c == 0 {
			return 0
		}
		child := n.children[c]
		if child == nil {
			child = &datBuildNode{
				tmpID:    db.nextNodeID,
				children: make(map[uint16]*datBuildNode),
			}
			db.nextNodeID++
			n.children[c] = child
		}
		n = child
	}
	return n.tmpID
}

func (db *datBackend) ResolvePosition(pos int) uint32 {
	if !db.frozen || pos <= 0 || pos >= len(db.tmpToState) {
		return 0
	}
	return db.tmpToState[pos]
}

func (db *datBackend) Freeze() {
	if db.frozen {
		return
	}
	db.compiled.Reset()
	db.tmpToState = make([]uint32, db.nextNodeID)
	db.root.state = db.compiled.Root
	queue := []*datBuildNode{db.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		db.tmpToState[n.tmpID] = n.state
		if len(n.children) == 0 {
			continue
		}
		labels := sortedLabels(n.children)
		base := db.compiled.Place(n.state, labels)
		for _, label := range labels {
			child := n.children[label]
			child.state = uint32(base + int(label))
			queue = append(queue, child)
		}
	}
	db.root = nil
	db.frozen = true
}

func (db *datBackend) Walk(code string) (uint32, bool) {
	assert(db.frozen, "digit trie must be frozen before walking it")
	return db.compiled.Walk(code)
}

func (db *datBackend) Children(state uint32, f func(digit byte, child uint32)) {
	alphabet := db.compiled.Alphabet
	db.compiled.Children(state, func(dense uint16, child uint32) {
		f(alphabet.Symbol(dense), child)
	})
}

func sortedLabels(children map[uint16]*datBuildNode) []uint16 {
	labels := make([]uint16, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i] < labels[j]
	})
	return labels
}

func (db *datBackend) String() string {
	return fmt.Sprintf("DAT(states=%d,sigma=%d,frozen=%v)", db.compiled.NStates(), db.compiled.Sigma, db.frozen)
}

func (db *datBackend) Stats() digitTrieStats {
	stats := digitTrieStats{
		Backend:    "dat",
		TotalSlots: db.compiled.NStates(),
		MaxStateID: int(db.compiled.Root),
	}
	if stats.TotalSlots == 0 {
		return stats
	}
	used := 0
	maxID := int(db.compiled.Root)
	for i := range db.compiled.Check {
		if i == int(db.compiled.Root) || db.compiled.Check[i] != 0 {
			used++
			if i > maxID {
				maxID = i
			}
		}
	}
	stats.UsedSlots = used
	stats.MaxStateID = maxID
	return stats
}
