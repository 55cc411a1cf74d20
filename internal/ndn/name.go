package ndn

import (
	"strings"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// Name is an ordered sequence of up to MaxNameComponents components.
// It is treated as immutable once installed as a table key.
type Name struct {
	Components []Component
}

// ParseURI parses a slash-separated URI into a Name of generic components,
// e.g. "/a/b/c". A leading/trailing slash is optional; empty segments are
// skipped so "//a//b/" behaves like "/a/b".
func ParseURI(uri string) (Name, error) {
	parts := strings.Split(uri, "/")
	var n Name
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(n.Components) >= MaxNameComponents {
			return Name{}, ndnerr.New(ndnerr.KindInvalidName, "more than %d components in %q", MaxNameComponents, uri)
		}
		n.Components = append(n.Components, GenericComponent(p))
	}
	if n.EncodedSize() > MaxNameEncodedSize {
		return Name{}, ndnerr.New(ndnerr.KindOversizeBuffer, "name %q exceeds %d encoded bytes", uri, MaxNameEncodedSize)
	}
	return n, nil
}

// MustParseURI is ParseURI but panics on error; for use with constant literals.
func MustParseURI(uri string) Name {
	n, err := ParseURI(uri)
	if err != nil {
		panic(err)
	}
	return n
}

// Append returns a new Name with c appended, validating the result still
// respects the component-count and encoded-size invariants.
func (n Name) Append(c Component) (Name, error) {
	if len(n.Components) >= MaxNameComponents {
		return Name{}, ndnerr.New(ndnerr.KindInvalidName, "name already has %d components", MaxNameComponents)
	}
	out := Name{Components: make([]Component, len(n.Components)+1)}
	copy(out.Components, n.Components)
	out.Components[len(n.Components)] = c
	if out.EncodedSize() > MaxNameEncodedSize {
		return Name{}, ndnerr.New(ndnerr.KindOversizeBuffer, "appending component exceeds %d encoded bytes", MaxNameEncodedSize)
	}
	return out, nil
}

// String renders the Name as a URI.
func (n Name) String() string {
	if len(n.Components) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n.Components {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// ValueSize returns the sum of the encoded sizes of all components,
// i.e. the TLV-LENGTH of the Name block.
func (n Name) ValueSize() int {
	size := 0
	for _, c := range n.Components {
		size += c.ProbeSize()
	}
	return size
}

// EncodedSize returns the total encoded size of the Name TLV block,
// including its own T and L fields.
func (n Name) EncodedSize() int {
	vs := n.ValueSize()
	return tlv.ProbeBlockSize(TLVName, vs)
}

// Encode appends the Name's TLV encoding (including the outer Name T/L) to dst.
func (n Name) Encode(dst []byte) []byte {
	vs := n.ValueSize()
	dst = tlv.AppendTL(dst, TLVName, vs)
	for _, c := range n.Components {
		dst = c.Encode(dst)
	}
	return dst
}

// EncodeComponentsOnly appends just the component TLV blocks, without the
// outer Name T/L wrapper — used when hashing Name value bytes for digest
// components.
func (n Name) EncodeComponentsOnly(dst []byte) []byte {
	for _, c := range n.Components {
		dst = c.Encode(dst)
	}
	return dst
}

// DecodeName reads a Name TLV block (type 7) from d.
func DecodeName(d *tlv.Decoder) (Name, error) {
	_, value, err := d.ReadBlock(TLVName)
	if err != nil {
		return Name{}, err
	}
	return DecodeNameValue(value)
}

// DecodeNameValue decodes a Name's components from a raw value buffer
// (the bytes inside the Name TLV, without its own T/L).
func DecodeNameValue(value []byte) (Name, error) {
	inner := tlv.NewDecoder(value)
	var n Name
	for !inner.Empty() {
		c, err := DecodeComponent(inner)
		if err != nil {
			return Name{}, err
		}
		if len(n.Components) >= MaxNameComponents {
			return Name{}, ndnerr.New(ndnerr.KindInvalidName, "decoded name exceeds %d components", MaxNameComponents)
		}
		n.Components = append(n.Components, c)
	}
	return n, nil
}

// Compare orders two names lexicographically over their components.
func (n Name) Compare(o Name) int {
	for i := 0; i < len(n.Components) && i < len(o.Components); i++ {
		if c := n.Components[i].Compare(o.Components[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n.Components) < len(o.Components):
		return -1
	case len(n.Components) > len(o.Components):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two names have identical components.
func (n Name) Equal(o Name) bool { return n.Compare(o) == 0 }

// IsPrefixOf reports whether n's components are a prefix of o's components.
func (n Name) IsPrefixOf(o Name) bool {
	if len(n.Components) > len(o.Components) {
		return false
	}
	for i := range n.Components {
		if !n.Components[i].Equal(o.Components[i]) {
			return false
		}
	}
	return true
}

// Prefix returns the first k components of n. k must be <= len(n.Components).
func (n Name) Prefix(k int) Name {
	return Name{Components: append([]Component(nil), n.Components[:k]...)}
}

// At returns the component at index i, or false if i is out of range.
// This bounds-checked accessor is how component access stays safe in Go
// where the C source's fixed-offset reads could run past the array.
func (n Name) At(i int) (Component, bool) {
	if i < 0 || i >= len(n.Components) {
		return Component{}, false
	}
	return n.Components[i], true
}

// Len returns the number of components.
func (n Name) Len() int { return len(n.Components) }
