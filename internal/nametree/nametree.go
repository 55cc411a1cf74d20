// Package nametree implements the ordered name-component trie that backs
// the FIB, PIT, and Content Store: a single index from encoded name
// prefixes to the slot ids of whichever tables have an entry there.
package nametree

import (
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// Invalid is the sentinel slot id meaning "no entry in that table".
const Invalid uint32 = 0xFFFFFFFF

// Kind selects which table's slot to look up during longest-prefix match.
type Kind int

const (
	KindFIB Kind = iota
	KindPIT
	KindCS
)

// Entry is one node of the trie, keyed by the name component leading to
// it from its parent. It holds the back-references into FIB/PIT/CS that
// the forwarder installs and clears as table entries come and go.
type Entry struct {
	component ndn.Component
	parent    *Entry
	children  map[string]*Entry

	FIBID uint32
	PITID uint32
	CSID  uint32
}

func newEntry(c ndn.Component, parent *Entry) *Entry {
	return &Entry{component: c, parent: parent, FIBID: Invalid, PITID: Invalid, CSID: Invalid}
}

// Component returns the name component this entry is keyed by.
func (e *Entry) Component() ndn.Component { return e.component }

// Name reconstructs the full name leading to e by walking up to the root.
func (e *Entry) Name() ndn.Name {
	var components []ndn.Component
	for node := e; node.parent != nil; node = node.parent {
		components = append(components, node.component)
	}
	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}
	return ndn.Name{Components: components}
}

// empty reports whether e has no table slots and no children, i.e. it can
// be reclaimed.
func (e *Entry) empty() bool {
	return e.FIBID == Invalid && e.PITID == Invalid && e.CSID == Invalid && len(e.children) == 0
}

func (e *Entry) slot(k Kind) uint32 {
	switch k {
	case KindFIB:
		return e.FIBID
	case KindPIT:
		return e.PITID
	default:
		return e.CSID
	}
}

// Tree is the ordered trie over sequences of name components.
type Tree struct {
	root     *Entry
	capacity int
	count    int
}

// New returns an empty Tree with the given entry capacity (0 means unbounded).
func New(capacity int) *Tree {
	return &Tree{root: newEntry(ndn.Component{}, nil), capacity: capacity}
}

func componentKey(c ndn.Component) string {
	return string(c.Encode(nil))
}

// FindOrInsert walks/creates the path for name, returning its terminal entry.
func (t *Tree) FindOrInsert(name ndn.Name) (*Entry, error) {
	node := t.root
	for _, c := range name.Components {
		key := componentKey(c)
		if node.children == nil {
			node.children = make(map[string]*Entry)
		}
		child, ok := node.children[key]
		if !ok {
			if t.capacity > 0 && t.count >= t.capacity {
				return nil, ndnerr.New(ndnerr.KindNameTreeFull, "name tree at capacity %d", t.capacity)
			}
			child = newEntry(c, node)
			node.children[key] = child
			t.count++
		}
		node = child
	}
	return node, nil
}

// Find looks up the entry for name without creating it.
func (t *Tree) Find(name ndn.Name) (*Entry, bool) {
	node := t.root
	for _, c := range name.Components {
		if node.children == nil {
			return nil, false
		}
		child, ok := node.children[componentKey(c)]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// LongestPrefixMatch returns the deepest entry along name's path that has
// a non-empty slot of the given kind.
func (t *Tree) LongestPrefixMatch(name ndn.Name, kind Kind) (*Entry, bool) {
	node := t.root
	var best *Entry
	if node.slot(kind) != Invalid {
		best = node
	}
	for _, c := range name.Components {
		if node.children == nil {
			break
		}
		child, ok := node.children[componentKey(c)]
		if !ok {
			break
		}
		node = child
		if node.slot(kind) != Invalid {
			best = node
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// MatchingAncestors returns every entry along name's path (root-to-leaf,
// inclusive of name's own node if present) that has a non-empty slot of
// the given kind. Used for PIT lookup on incoming Data, where a
// CanBePrefix Interest's entry can sit at any ancestor of the Data name.
func (t *Tree) MatchingAncestors(name ndn.Name, kind Kind) []*Entry {
	var out []*Entry
	node := t.root
	if node.slot(kind) != Invalid {
		out = append(out, node)
	}
	for _, c := range name.Components {
		if node.children == nil {
			break
		}
		child, ok := node.children[componentKey(c)]
		if !ok {
			break
		}
		node = child
		if node.slot(kind) != Invalid {
			out = append(out, node)
		}
	}
	return out
}

// DescendantsWithSlot returns every entry in the subtree rooted at name
// (including name's own node) that has a non-empty slot of the given
// kind. Used for Content Store lookup under CanBePrefix, where a cached
// Data name can be any descendant of the Interest's name.
func (t *Tree) DescendantsWithSlot(name ndn.Name, kind Kind) []*Entry {
	node, ok := t.Find(name)
	if !ok {
		return nil
	}
	var out []*Entry
	var walk func(*Entry)
	walk = func(e *Entry) {
		if e.slot(kind) != Invalid {
			out = append(out, e)
		}
		for _, child := range e.children {
			walk(child)
		}
	}
	walk(node)
	return out
}

// ClearSlot clears the given kind's back-reference on e, and reclaims e
// (and any now-empty ancestors) if it has become empty.
func (t *Tree) ClearSlot(e *Entry, kind Kind) {
	switch kind {
	case KindFIB:
		e.FIBID = Invalid
	case KindPIT:
		e.PITID = Invalid
	case KindCS:
		e.CSID = Invalid
	}
	t.reclaim(e)
}

// SetSlot installs the slot id for kind on e.
func (t *Tree) SetSlot(e *Entry, kind Kind, id uint32) {
	switch kind {
	case KindFIB:
		e.FIBID = id
	case KindPIT:
		e.PITID = id
	case KindCS:
		e.CSID = id
	}
}

func (t *Tree) reclaim(e *Entry) {
	for e != nil && e.parent != nil && e.empty() {
		parent := e.parent
		delete(parent.children, componentKey(e.component))
		t.count--
		e = parent
	}
}

// Len returns the number of entries (excluding the synthetic root).
func (t *Tree) Len() int { return t.count }
