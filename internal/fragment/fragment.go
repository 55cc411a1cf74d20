// Package fragment implements the NDN-lite link-layer fragmentation
// header (spec §6): a 3-byte header prepended to each fragment of a
// packet too large for the underlying transport's MTU.
package fragment

import "github.com/ndn-lite/ndnlite-go/internal/ndnerr"

const (
	HeaderLen = 3

	hbMask  = 0x80 // header marker, always 1
	mfMask  = 0x20 // more-fragments flag
	seqMask = 0x1F // 5-bit sequence number

	// MaxSeqNum is the largest representable sequence number, giving at
	// most MaxSeqNum+1 fragments per packet.
	MaxSeqNum = 30
	MaxFragments = MaxSeqNum + 1

	// BufferMax bounds a reassembled packet, matching NDN_FRAG_BUFFER_MAX.
	BufferMax = 512
)

// Header is the parsed form of the 3-byte fragmentation header.
type Header struct {
	MoreFragments bool
	Seq           uint8 // 0..MaxSeqNum
	ID            uint16
}

// Encode writes the header as 3 bytes.
func (h Header) Encode() [HeaderLen]byte {
	var out [HeaderLen]byte
	b0 := byte(hbMask)
	if h.MoreFragments {
		b0 |= mfMask
	}
	b0 |= h.Seq & seqMask
	out[0] = b0
	out[1] = byte(h.ID >> 8)
	out[2] = byte(h.ID)
	return out
}

// DecodeHeader parses the first 3 bytes of buf as a fragmentation header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ndnerr.New(ndnerr.KindTruncatedTLV, "fragment header needs %d bytes, got %d", HeaderLen, len(buf))
	}
	if buf[0]&hbMask == 0 {
		return Header{}, ndnerr.New(ndnerr.KindInvalidArgument, "missing fragmentation header marker bit")
	}
	return Header{
		MoreFragments: buf[0]&mfMask != 0,
		Seq:           buf[0] & seqMask,
		ID:            uint16(buf[1])<<8 | uint16(buf[2]),
	}, nil
}

// Fragment splits packet into MTU-sized chunks (each including the 3-byte
// header) under fragmentation id, returning them in sequence order.
func Fragment(packet []byte, mtu int, id uint16) ([][]byte, error) {
	payloadPerFrag := mtu - HeaderLen
	if payloadPerFrag <= 0 {
		return nil, ndnerr.New(ndnerr.KindInvalidArgument, "mtu %d too small for fragmentation header", mtu)
	}
	n := (len(packet) + payloadPerFrag - 1) / payloadPerFrag
	if n == 0 {
		n = 1
	}
	if n > MaxFragments {
		return nil, ndnerr.New(ndnerr.KindOversizeBuffer, "packet needs %d fragments, max is %d", n, MaxFragments)
	}

	frags := make([][]byte, 0, n)
	off := 0
	for seq := 0; seq < n; seq++ {
		end := off + payloadPerFrag
		if end > len(packet) {
			end = len(packet)
		}
		h := Header{MoreFragments: seq < n-1, Seq: uint8(seq), ID: id}
		hdr := h.Encode()
		frag := make([]byte, 0, HeaderLen+end-off)
		frag = append(frag, hdr[:]...)
		frag = append(frag, packet[off:end]...)
		frags = append(frags, frag)
		off = end
	}
	return frags, nil
}

// Assembler reconstructs a packet from fragments arriving in order, for a
// single fragmentation id at a time.
type Assembler struct {
	id      uint16
	started bool
	nextSeq uint8
	buf     []byte
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Reset discards any partially assembled packet.
func (a *Assembler) Reset() {
	a.started = false
	a.nextSeq = 0
	a.buf = a.buf[:0]
}

// Add feeds one fragment (including its 3-byte header) to the assembler.
// It returns (packet, true, nil) when the fragment completes the packet,
// (nil, false, nil) when more fragments are expected, or an error on
// out-of-order sequence, mismatched fragmentation id, or buffer overflow.
func (a *Assembler) Add(frag []byte) ([]byte, bool, error) {
	h, err := DecodeHeader(frag)
	if err != nil {
		return nil, false, err
	}
	payload := frag[HeaderLen:]

	if !a.started {
		if h.Seq != 0 {
			return nil, false, ndnerr.New(ndnerr.KindOutOfOrderFragment, "first fragment has seq %d, want 0", h.Seq)
		}
		a.started = true
		a.id = h.ID
		a.nextSeq = 0
		a.buf = a.buf[:0]
	} else {
		if h.ID != a.id {
			return nil, false, ndnerr.New(ndnerr.KindWrongFragmentIdentifier, "fragment id %d does not match in-progress %d", h.ID, a.id)
		}
		if h.Seq != a.nextSeq {
			return nil, false, ndnerr.New(ndnerr.KindOutOfOrderFragment, "fragment seq %d, want %d", h.Seq, a.nextSeq)
		}
	}

	if len(a.buf)+len(payload) > BufferMax {
		a.Reset()
		return nil, false, ndnerr.New(ndnerr.KindOversizeBuffer, "reassembly exceeds %d bytes", BufferMax)
	}
	a.buf = append(a.buf, payload...)
	a.nextSeq++

	if !h.MoreFragments {
		out := append([]byte(nil), a.buf...)
		a.Reset()
		return out, true, nil
	}
	return nil, false, nil
}
