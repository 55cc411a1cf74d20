// Package tlv implements the NDN Packet Format 0.3 variable-length
// Type-Length-Value codec: varint encode/decode and a cursor-based
// decoder for walking nested TLV blocks.
package tlv

import (
	"encoding/binary"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// VarSize returns the number of bytes needed to encode v as an NDN varint:
// 1 byte if v < 253, 3 bytes (0xFD marker) if v <= 0xFFFF, 5 bytes (0xFE
// marker) if v <= 0xFFFFFFFF.
func VarSize(v uint64) int {
	switch {
	case v < 253:
		return 1
	case v <= 0xFFFF:
		return 3
	default:
		return 5
	}
}

// ProbeBlockSize returns the total encoded size of a TLV block with the
// given type and payload length, including its own T and L fields.
func ProbeBlockSize(typ uint64, length int) int {
	return VarSize(typ) + VarSize(uint64(length)) + length
}

// AppendVar appends v to dst using the NDN varint encoding.
func AppendVar(dst []byte, v uint64) []byte {
	switch {
	case v < 253:
		return append(dst, byte(v))
	case v <= 0xFFFF:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(v))
		return append(append(dst, 0xFD), buf[:]...)
	default:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(v))
		return append(append(dst, 0xFE), buf[:]...)
	}
}

// AppendTL appends the type and length fields of a TLV block.
func AppendTL(dst []byte, typ uint64, length int) []byte {
	dst = AppendVar(dst, typ)
	dst = AppendVar(dst, uint64(length))
	return dst
}

// AppendBlock appends a complete TLV block (T, L, and value bytes).
func AppendBlock(dst []byte, typ uint64, value []byte) []byte {
	dst = AppendTL(dst, typ, len(value))
	return append(dst, value...)
}

// AppendUint appends value using the minimum width of 1/2/4/8 bytes, per
// the NDN rule that non-negative integer TLV-VALUEs use the shortest of
// those four widths that fits.
func AppendUint(dst []byte, value uint64) []byte {
	switch {
	case value <= 0xFF:
		return append(dst, byte(value))
	case value <= 0xFFFF:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(value))
		return append(dst, buf[:]...)
	case value <= 0xFFFFFFFF:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(value))
		return append(dst, buf[:]...)
	default:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], value)
		return append(dst, buf[:]...)
	}
}

// DecodeUint decodes a non-negative integer TLV-VALUE of width 1, 2, 4, or 8.
func DecodeUint(v []byte) (uint64, error) {
	switch len(v) {
	case 1:
		return uint64(v[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(v)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(v)), nil
	case 8:
		return binary.BigEndian.Uint64(v), nil
	default:
		return 0, ndnerr.New(ndnerr.KindWrongTLVLength, "invalid uint TLV width %d", len(v))
	}
}

// Decoder walks a byte slice as a sequence of TLV blocks, tracking an
// internal read offset. It never copies the underlying buffer.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the current read offset.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

// Empty reports whether the decoder has consumed the whole buffer.
func (d *Decoder) Empty() bool { return d.Remaining() == 0 }

func (d *Decoder) readVar() (uint64, error) {
	if d.Remaining() < 1 {
		return 0, ndnerr.New(ndnerr.KindTruncatedTLV, "truncated varint")
	}
	first := d.buf[d.off]
	switch {
	case first < 253:
		d.off++
		return uint64(first), nil
	case first == 0xFD:
		if d.Remaining() < 3 {
			return 0, ndnerr.New(ndnerr.KindTruncatedTLV, "truncated 3-byte varint")
		}
		v := binary.BigEndian.Uint16(d.buf[d.off+1 : d.off+3])
		d.off += 3
		return uint64(v), nil
	case first == 0xFE:
		if d.Remaining() < 5 {
			return 0, ndnerr.New(ndnerr.KindTruncatedTLV, "truncated 5-byte varint")
		}
		v := binary.BigEndian.Uint32(d.buf[d.off+1 : d.off+5])
		d.off += 5
		return uint64(v), nil
	default:
		return 0, ndnerr.New(ndnerr.KindTruncatedTLV, "oversize varint marker 0x%02x", first)
	}
}

// PeekType reads the next TLV's type without consuming it.
func (d *Decoder) PeekType() (uint64, error) {
	save := d.off
	typ, err := d.readVar()
	d.off = save
	return typ, err
}

// ReadBlock reads one TLV block and returns its type and value bytes
// (a sub-slice of the original buffer, not copied). wantType, if nonzero,
// is checked against the decoded type and yields KindWrongTLVType on
// mismatch.
func (d *Decoder) ReadBlock(wantType uint64) (typ uint64, value []byte, err error) {
	start := d.off
	typ, err = d.readVar()
	if err != nil {
		return 0, nil, err
	}
	if wantType != 0 && typ != wantType {
		d.off = start
		return 0, nil, ndnerr.New(ndnerr.KindWrongTLVType, "want type %d, got %d", wantType, typ)
	}
	length, err := d.readVar()
	if err != nil {
		return 0, nil, err
	}
	if uint64(d.Remaining()) < length {
		return 0, nil, ndnerr.New(ndnerr.KindWrongTLVLength, "TLV length %d exceeds remaining %d", length, d.Remaining())
	}
	value = d.buf[d.off : d.off+int(length)]
	d.off += int(length)
	return typ, value, nil
}

// SkipBlock reads and discards one TLV block of any type, used to
// forward-compatibly skip unknown fields inside Interest/Data.
func (d *Decoder) SkipBlock() error {
	_, _, err := d.ReadBlock(0)
	return err
}
