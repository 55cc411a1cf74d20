// Package cs implements the Content Store: a bounded cache of Data
// packets indexed by name, evicted stale-entries-first and then by
// least-recent use.
package cs

import (
	"container/list"
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/nametree"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
)

// DefaultCapacity matches the reference implementation's NDN_CS_MAX_SIZE.
const DefaultCapacity = 10

// Entry is one cached Data packet.
type Entry struct {
	id   uint32
	nt   *nametree.Entry
	elem *list.Element

	Data       *ndn.Data
	CachedAt   time.Time
	FreshUntil time.Time // zero if the Data carries no FreshnessPeriod
}

// Fresh reports whether the entry is still within its freshness period at now.
func (e *Entry) Fresh(now time.Time) bool {
	return !e.FreshUntil.IsZero() && now.Before(e.FreshUntil)
}

// CS is the Content Store.
type CS struct {
	tree     *nametree.Tree
	entries  map[uint32]*Entry
	capacity int
	nextID   uint32
	lru      *list.List // front = most recently used, back = least
}

// New returns an empty CS bound to tree, bounded at capacity entries.
func New(tree *nametree.Tree, capacity int) *CS {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &CS{tree: tree, entries: make(map[uint32]*Entry), capacity: capacity, lru: list.New()}
}

func (c *CS) touch(e *Entry) {
	c.lru.MoveToFront(e.elem)
}

// PutData inserts or refreshes the cache entry for data.Name.
func (c *CS) PutData(data *ndn.Data, now time.Time) error {
	nte, err := c.tree.FindOrInsert(data.Name)
	if err != nil {
		return err
	}
	if nte.CSID != nametree.Invalid {
		e := c.entries[nte.CSID]
		e.Data = data
		c.setFreshness(e, data, now)
		c.touch(e)
		return nil
	}
	if len(c.entries) >= c.capacity {
		c.evictOne(now)
	}
	c.nextID++
	id := c.nextID
	e := &Entry{id: id, nt: nte, Data: data, CachedAt: now}
	c.setFreshness(e, data, now)
	e.elem = c.lru.PushFront(e)
	c.entries[id] = e
	c.tree.SetSlot(nte, nametree.KindCS, id)
	return nil
}

func (c *CS) setFreshness(e *Entry, data *ndn.Data, now time.Time) {
	e.CachedAt = now
	if data.MetaInfo.FreshnessPeriod > 0 {
		e.FreshUntil = now.Add(time.Duration(data.MetaInfo.FreshnessPeriod) * time.Millisecond)
	} else {
		e.FreshUntil = time.Time{}
	}
}

// evictOne removes the oldest stale entry if one exists, otherwise the
// overall least-recently-used entry, judging freshness at now.
func (c *CS) evictOne(now time.Time) {
	for el := c.lru.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*Entry)
		if !e.Fresh(now) {
			c.remove(e)
			return
		}
	}
	if el := c.lru.Back(); el != nil {
		c.remove(el.Value.(*Entry))
	}
}

func (c *CS) remove(e *Entry) {
	c.lru.Remove(e.elem)
	delete(c.entries, e.id)
	c.tree.ClearSlot(e.nt, nametree.KindCS)
}

// Lookup finds a cached Data satisfying an Interest for name. If
// canBePrefix, any descendant of name may match; otherwise name must
// match exactly. If mustBeFresh, only entries still within their
// freshness period are considered.
func (c *CS) Lookup(name ndn.Name, canBePrefix, mustBeFresh bool, now time.Time) (*Entry, bool) {
	var candidates []*nametree.Entry
	if canBePrefix {
		candidates = c.tree.DescendantsWithSlot(name, nametree.KindCS)
	} else if nte, ok := c.tree.Find(name); ok && nte.CSID != nametree.Invalid {
		candidates = []*nametree.Entry{nte}
	}
	for _, nte := range candidates {
		e := c.entries[nte.CSID]
		if mustBeFresh && !e.Fresh(now) {
			continue
		}
		c.touch(e)
		return e, true
	}
	return nil, false
}

// Len returns the number of cached entries.
func (c *CS) Len() int { return len(c.entries) }

// Entries returns every cached entry, for diagnostics; order is unspecified.
func (c *CS) Entries() []*Entry {
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}
