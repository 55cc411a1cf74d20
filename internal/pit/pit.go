// Package pit implements the Pending Interest Table: per-name records of
// which faces are awaiting Data, with dead-nonce loop suppression and
// timeout sweeping.
package pit

import (
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/nametree"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// DefaultCapacity matches the reference implementation's NDN_PIT_MAX_SIZE.
const DefaultCapacity = 32

// DefaultNonceCapacity bounds how many distinct nonces a single entry
// remembers; once full, the oldest remembered nonce is dropped first.
const DefaultNonceCapacity = 4

// OnTimeoutFunc is invoked once, at most, when an application-expressed
// Interest's entry goes unsatisfied past its lifetime.
type OnTimeoutFunc func(e *Entry)

// Entry is one pending Interest record.
type Entry struct {
	id   uint32
	nt   *nametree.Entry
	pit  *PIT

	Name        ndn.Name
	CanBePrefix bool
	MustBeFresh bool

	Incoming face.Bitset
	Outgoing face.Bitset

	nonces []uint32

	ExpressTime time.Time
	LastTime    time.Time
	Lifetime    time.Duration

	OnTimeout OnTimeoutFunc
	notified  bool
}

func (e *Entry) hasNonce(nonce uint32) bool {
	for _, n := range e.nonces {
		if n == nonce {
			return true
		}
	}
	return false
}

func (e *Entry) rememberNonce(nonce uint32) {
	if len(e.nonces) >= DefaultNonceCapacity {
		e.nonces = e.nonces[1:]
	}
	e.nonces = append(e.nonces, nonce)
}

// PIT is the Pending Interest Table.
type PIT struct {
	tree     *nametree.Tree
	entries  map[uint32]*Entry
	capacity int
	nextID   uint32
}

// New returns an empty PIT bound to tree, bounded at capacity entries.
func New(tree *nametree.Tree, capacity int) *PIT {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &PIT{tree: tree, entries: make(map[uint32]*Entry), capacity: capacity}
}

// FindOrInsert records an incoming Interest. If an entry for name already
// exists, its nonce is checked for a loop: if the nonce was already seen
// on this entry, duplicate is true and no other state changes. Otherwise
// the incoming face is recorded, the nonce remembered, and the entry's
// lifetime extended to cover at least now+lifetime.
func (p *PIT) FindOrInsert(name ndn.Name, canBePrefix, mustBeFresh bool, nonce uint32, lifetime time.Duration, incomingFace uint16, now time.Time) (entry *Entry, isNew bool, duplicate bool, err error) {
	nte, err := p.tree.FindOrInsert(name)
	if err != nil {
		return nil, false, false, err
	}

	if nte.PITID != nametree.Invalid {
		e := p.entries[nte.PITID]
		if nonce != 0 {
			if e.hasNonce(nonce) {
				return e, false, true, nil
			}
			e.rememberNonce(nonce)
		}
		e.Incoming = e.Incoming.Set(incomingFace)
		e.LastTime = now
		if wantExpiry := now.Add(lifetime); wantExpiry.After(e.ExpressTime.Add(e.Lifetime)) {
			e.Lifetime = wantExpiry.Sub(e.ExpressTime)
		}
		e.CanBePrefix = e.CanBePrefix || canBePrefix
		e.MustBeFresh = e.MustBeFresh || mustBeFresh
		return e, false, false, nil
	}

	if len(p.entries) >= p.capacity {
		p.tree.ClearSlot(nte, nametree.KindPIT) // no-op reclaim if now-empty
		return nil, false, false, ndnerr.New(ndnerr.KindPITFull, "PIT at capacity %d", p.capacity)
	}
	p.nextID++
	id := p.nextID
	e := &Entry{
		id: id, nt: nte, pit: p,
		Name: name, CanBePrefix: canBePrefix, MustBeFresh: mustBeFresh,
		ExpressTime: now, LastTime: now, Lifetime: lifetime,
	}
	if nonce != 0 {
		e.rememberNonce(nonce)
	}
	e.Incoming = e.Incoming.Set(incomingFace)
	p.entries[id] = e
	p.tree.SetSlot(nte, nametree.KindPIT, id)
	return e, true, false, nil
}

// Remove deletes a PIT entry, e.g. once satisfied by Data.
func (p *PIT) Remove(e *Entry) {
	if e == nil {
		return
	}
	delete(p.entries, e.id)
	p.tree.ClearSlot(e.nt, nametree.KindPIT)
}

// Match returns every PIT entry that the Data named dataName satisfies:
// an exact-name entry, plus any CanBePrefix entry registered at an
// ancestor prefix of dataName.
func (p *PIT) Match(dataName ndn.Name) []*Entry {
	candidates := p.tree.MatchingAncestors(dataName, nametree.KindPIT)
	out := make([]*Entry, 0, len(candidates))
	for _, nte := range candidates {
		e := p.entries[nte.PITID]
		if e.Name.Len() == dataName.Len() || e.CanBePrefix {
			out = append(out, e)
		}
	}
	return out
}

// Sweep walks every entry, firing OnTimeout once for application-owned
// entries whose lifetime has elapsed since first expression, and fully
// removing any entry that has gone unrefreshed past its lifetime.
func (p *PIT) Sweep(now time.Time) {
	for _, e := range p.entries {
		if !e.notified && e.OnTimeout != nil && now.Sub(e.ExpressTime) > e.Lifetime {
			e.notified = true
			e.OnTimeout(e)
		}
	}
	for _, e := range p.entries {
		if now.Sub(e.LastTime) > e.Lifetime {
			p.Remove(e)
		}
	}
}

// Len returns the number of PIT entries.
func (p *PIT) Len() int { return len(p.entries) }

// Entries returns every pending entry, for diagnostics; order is unspecified.
func (p *PIT) Entries() []*Entry {
	out := make([]*Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	return out
}
