package face

// Bitset is a set of face ids, 0-63, stored as a single uint64. Iteration
// order pops the least-significant set bit first, preserving the
// ascending face-id multicast order the spec's ordering guarantees require.
type Bitset uint64

// Set returns a copy of b with bit id set.
func (b Bitset) Set(id uint16) Bitset { return b | (1 << uint(id)) }

// Clear returns a copy of b with bit id cleared.
func (b Bitset) Clear(id uint16) Bitset { return b &^ (1 << uint(id)) }

// Has reports whether bit id is set.
func (b Bitset) Has(id uint16) bool { return b&(1<<uint(id)) != 0 }

// Empty reports whether no bits are set.
func (b Bitset) Empty() bool { return b == 0 }

// Union returns b | o.
func (b Bitset) Union(o Bitset) Bitset { return b | o }

// Except returns b with every bit in o cleared.
func (b Bitset) Except(o Bitset) Bitset { return b &^ o }

// PopLSB returns the least-significant set face id and the remaining
// bitset with that bit cleared. ok is false if b is empty.
func (b Bitset) PopLSB() (id uint16, rest Bitset, ok bool) {
	if b == 0 {
		return 0, b, false
	}
	lsb := b & (-b)
	id = uint16(bitsetTrailingZeros(uint64(lsb)))
	return id, b &^ lsb, true
}

func bitsetTrailingZeros(v uint64) int {
	if v == 0 {
		return 64
	}
	n := 0
	for v&1 == 0 {
		v >>= 1
		n++
	}
	return n
}

// Each calls fn for every set bit in ascending face-id order.
func (b Bitset) Each(fn func(id uint16)) {
	for {
		id, rest, ok := b.PopLSB()
		if !ok {
			return
		}
		fn(id)
		b = rest
	}
}
