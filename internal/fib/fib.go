// Package fib implements the Forwarding Information Base: per-prefix
// nexthop face sets and optional application on_interest callbacks,
// indexed through the shared NameTree for longest-prefix match.
package fib

import (
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/nametree"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// DefaultCapacity matches the reference implementation's NDN_FIB_MAX_SIZE.
const DefaultCapacity = 20

// Strategy is the forwarding decision returned by an application's
// on_interest callback.
type Strategy int

const (
	StrategyMulticast Strategy = iota
	StrategySuppress
)

// OnInterestFunc is invoked when an Interest matches a registered prefix.
type OnInterestFunc func(interest *ndn.Interest, incomingFace uint16, userData any) Strategy

// Entry is one FIB entry: a nexthop face set and/or an application callback.
type Entry struct {
	id       uint32
	nt       *nametree.Entry
	Nexthop  face.Bitset
	OnInterest OnInterestFunc
	UserData   any
}

func (e *Entry) empty() bool {
	return e.Nexthop.Empty() && e.OnInterest == nil
}

// Name returns the prefix this entry is registered under.
func (e *Entry) Name() ndn.Name { return e.nt.Name() }

// FIB is the Forwarding Information Base.
type FIB struct {
	tree     *nametree.Tree
	entries  map[uint32]*Entry
	capacity int
	nextID   uint32
}

// New returns an empty FIB bound to tree, bounded at capacity entries.
func New(tree *nametree.Tree, capacity int) *FIB {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIB{tree: tree, entries: make(map[uint32]*Entry), capacity: capacity}
}

func (f *FIB) entryFor(prefix ndn.Name, create bool) (*Entry, error) {
	var nte *nametree.Entry
	var err error
	if create {
		nte, err = f.tree.FindOrInsert(prefix)
	} else {
		var ok bool
		nte, ok = f.tree.Find(prefix)
		if !ok {
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}
	if nte.FIBID != nametree.Invalid {
		return f.entries[nte.FIBID], nil
	}
	if !create {
		return nil, nil
	}
	if len(f.entries) >= f.capacity {
		return nil, ndnerr.New(ndnerr.KindFIBFull, "FIB at capacity %d", f.capacity)
	}
	f.nextID++
	id := f.nextID
	e := &Entry{id: id, nt: nte}
	f.entries[id] = e
	f.tree.SetSlot(nte, nametree.KindFIB, id)
	return e, nil
}

func (f *FIB) reclaimIfEmpty(e *Entry) {
	if e.empty() {
		delete(f.entries, e.id)
		f.tree.ClearSlot(e.nt, nametree.KindFIB)
	}
}

// AddRoute ORs faceID into prefix's nexthop bitset, creating the entry if needed.
func (f *FIB) AddRoute(prefix ndn.Name, faceID uint16) error {
	e, err := f.entryFor(prefix, true)
	if err != nil {
		return err
	}
	e.Nexthop = e.Nexthop.Set(faceID)
	return nil
}

// RemoveRoute clears faceID from prefix's nexthop bitset, deleting the
// entry if it becomes empty and has no registered callback.
func (f *FIB) RemoveRoute(prefix ndn.Name, faceID uint16) error {
	e, err := f.entryFor(prefix, false)
	if err != nil {
		return err
	}
	if e == nil {
		return ndnerr.New(ndnerr.KindNoEffect, "no FIB entry for %s", prefix)
	}
	e.Nexthop = e.Nexthop.Clear(faceID)
	f.reclaimIfEmpty(e)
	return nil
}

// RegisterPrefix installs an application on_interest callback for prefix.
func (f *FIB) RegisterPrefix(prefix ndn.Name, cb OnInterestFunc, userData any) error {
	e, err := f.entryFor(prefix, true)
	if err != nil {
		return err
	}
	e.OnInterest = cb
	e.UserData = userData
	return nil
}

// UnregisterPrefix clears the application callback for prefix.
func (f *FIB) UnregisterPrefix(prefix ndn.Name) error {
	e, err := f.entryFor(prefix, false)
	if err != nil {
		return err
	}
	if e == nil {
		return ndnerr.New(ndnerr.KindNoEffect, "no FIB entry for %s", prefix)
	}
	e.OnInterest = nil
	e.UserData = nil
	f.reclaimIfEmpty(e)
	return nil
}

// LongestPrefixMatch returns the deepest FIB entry along name's path.
func (f *FIB) LongestPrefixMatch(name ndn.Name) (*Entry, error) {
	nte, ok := f.tree.LongestPrefixMatch(name, nametree.KindFIB)
	if !ok {
		return nil, ndnerr.New(ndnerr.KindNoRoute, "no route for %s", name)
	}
	return f.entries[nte.FIBID], nil
}

// Len returns the number of FIB entries.
func (f *FIB) Len() int { return len(f.entries) }

// Entries returns every FIB entry, for diagnostics; order is unspecified.
func (f *FIB) Entries() []*Entry {
	out := make([]*Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out
}
