package face

import (
	"sync"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// DefaultCapacity matches the reference implementation's NDN_FACE_TABLE_MAX_SIZE.
const DefaultCapacity = 10

// Table is the registry mapping face-id to Face.
type Table struct {
	mu       sync.RWMutex
	faces    map[uint16]Face
	capacity int
	nextID   uint16
}

// NewTable returns an empty Table bounded at capacity faces.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{faces: make(map[uint16]Face), capacity: capacity, nextID: 1}
}

// Add assigns the next free face id to f and registers it.
func (t *Table) Add(f Face) (uint16, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.faces) >= t.capacity {
		return 0, ndnerr.New(ndnerr.KindFaceTableFull, "face table at capacity %d", t.capacity)
	}
	for {
		id := t.nextID
		t.nextID++
		if t.nextID == 0 {
			t.nextID = 1
		}
		if _, taken := t.faces[id]; !taken {
			f.SetID(id)
			t.faces[id] = f
			return id, nil
		}
	}
}

// Get returns the face registered under id.
func (t *Table) Get(id uint16) (Face, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.faces[id]
	return f, ok
}

// Remove destroys and unregisters the face with id, if present.
func (t *Table) Remove(id uint16) {
	t.mu.Lock()
	f, ok := t.faces[id]
	if ok {
		delete(t.faces, id)
	}
	t.mu.Unlock()
	if ok {
		_ = f.Destroy()
	}
}

// Len returns the number of registered faces.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.faces)
}

// Entries returns every registered face, for diagnostics; order is unspecified.
func (t *Table) Entries() []Face {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Face, 0, len(t.faces))
	for _, f := range t.faces {
		out = append(out, f)
	}
	return out
}

// Multicast sends pkt to every face id set in bits except skip, popping
// least-significant bit first (ascending face-id order), and returns the
// set of faces it actually reached.
func (t *Table) Multicast(bits Bitset, skip uint16, pkt []byte) Bitset {
	var sent Bitset
	bits.Each(func(id uint16) {
		if id == skip {
			return
		}
		f, ok := t.Get(id)
		if !ok {
			return
		}
		if err := Send(f, pkt); err == nil {
			sent = sent.Set(id)
		}
	})
	return sent
}
