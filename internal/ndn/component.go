package ndn

import (
	"bytes"
	"fmt"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// Component is a typed byte string: a TLV type code plus up to
// MaxComponentValue bytes of value. Segment/version/timestamp/sequence
// components encode a non-negative integer in the minimum width that fits.
type Component struct {
	Type  uint64
	Value []byte
}

// NewComponent builds a Component from a type code and raw value,
// rejecting values larger than MaxComponentValue.
func NewComponent(typ uint64, value []byte) (Component, error) {
	if len(value) > MaxComponentValue {
		return Component{}, ndnerr.New(ndnerr.KindOversizeBuffer, "component value %d bytes exceeds max %d", len(value), MaxComponentValue)
	}
	v := make([]byte, len(value))
	copy(v, value)
	return Component{Type: typ, Value: v}, nil
}

// GenericComponent builds a GenericNameComponent from a string.
func GenericComponent(s string) Component {
	c, _ := NewComponent(TLVGenericNameComponent, []byte(s))
	return c
}

// componentFromUint builds a typed component encoding v at minimum width.
func componentFromUint(typ uint64, v uint64) Component {
	c, _ := NewComponent(typ, tlv.AppendUint(nil, v))
	return c
}

// SegmentComponent builds a SegmentNameComponent for segment number v.
func SegmentComponent(v uint64) Component { return componentFromUint(TLVSegmentNameComponent, v) }

// VersionComponent builds a VersionNameComponent for version v.
func VersionComponent(v uint64) Component { return componentFromUint(TLVVersionNameComponent, v) }

// TimestampComponent builds a TimestampNameComponent for timestamp v (microseconds).
func TimestampComponent(v uint64) Component { return componentFromUint(TLVTimestampNameComponent, v) }

// SequenceNumComponent builds a SequenceNumNameComponent for sequence v.
func SequenceNumComponent(v uint64) Component {
	return componentFromUint(TLVSequenceNumNameComponent, v)
}

// ToUint decodes a component's value as a minimum-width non-negative integer.
func (c Component) ToUint() (uint64, error) {
	return tlv.DecodeUint(c.Value)
}

// IsGeneric reports whether this is a GenericNameComponent.
func (c Component) IsGeneric() bool { return c.Type == TLVGenericNameComponent }

// String renders the component the way it would appear in a name URI.
func (c Component) String() string {
	if c.Type == TLVGenericNameComponent && isPrintable(c.Value) {
		return string(c.Value)
	}
	return fmt.Sprintf("%d=%s", c.Type, hexString(c.Value))
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e || c == '/' {
			return false
		}
	}
	return true
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}

// Compare orders components by type, then lexicographically by value.
func (c Component) Compare(o Component) int {
	if c.Type != o.Type {
		if c.Type < o.Type {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Value, o.Value)
}

// Equal reports whether two components have the same type and value.
func (c Component) Equal(o Component) bool { return c.Compare(o) == 0 }

// ProbeSize returns the encoded TLV block size of this component.
func (c Component) ProbeSize() int {
	return tlv.ProbeBlockSize(c.Type, len(c.Value))
}

// Encode appends this component's TLV encoding to dst.
func (c Component) Encode(dst []byte) []byte {
	return tlv.AppendBlock(dst, c.Type, c.Value)
}

// DecodeComponent reads one NameComponent TLV block from d.
func DecodeComponent(d *tlv.Decoder) (Component, error) {
	typ, value, err := d.ReadBlock(0)
	if err != nil {
		return Component{}, err
	}
	return NewComponent(typ, value)
}
