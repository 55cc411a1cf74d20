package ndn

import (
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// SignatureInfo carries the metadata describing how a packet is signed:
// algorithm, key locator, and (for signed Interests) replay-protection
// fields. It is shared by Interest and Data, which place it under
// different outer TLV types (InterestSignatureInfo vs SignatureInfo).
type SignatureInfo struct {
	Type          uint8  // SignatureDigestSha256 / SignatureEcdsaSha256 / SignatureHmacSha256
	KeyLocator    *Name  // optional, a Name identifying the verifying key
	KeyDigest     []byte // optional, alternative to KeyLocator
	ValidityNotBefore string // optional, 15-byte ISO-8601 string
	ValidityNotAfter  string
	Nonce     *uint32 // signed-Interest replay nonce
	Timestamp *uint64
	SeqNum    *uint64
}

func (s *SignatureInfo) valueSize() int {
	size := tlv.ProbeBlockSize(TLVSignatureType, 1)
	if s.KeyLocator != nil {
		kl := s.KeyLocator.EncodedSize()
		size += tlv.ProbeBlockSize(TLVKeyLocator, kl)
	}
	if len(s.KeyDigest) > 0 {
		size += tlv.ProbeBlockSize(TLVKeyDigest, len(s.KeyDigest))
	}
	if s.ValidityNotBefore != "" {
		vpInner := tlv.ProbeBlockSize(TLVNotBefore, len(s.ValidityNotBefore)) +
			tlv.ProbeBlockSize(TLVNotAfter, len(s.ValidityNotAfter))
		size += tlv.ProbeBlockSize(TLVValidityPeriod, vpInner)
	}
	if s.Nonce != nil {
		size += tlv.ProbeBlockSize(TLVSignatureNonce, len(tlv.AppendUint(nil, uint64(*s.Nonce))))
	}
	if s.Timestamp != nil {
		size += tlv.ProbeBlockSize(TLVTimestamp, len(tlv.AppendUint(nil, *s.Timestamp)))
	}
	if s.SeqNum != nil {
		size += tlv.ProbeBlockSize(TLVSeqNum, len(tlv.AppendUint(nil, *s.SeqNum)))
	}
	return size
}

// encode appends the SignatureInfo TLV block using outerType (TLVSignatureInfo
// or TLVInterestSignatureInfo).
func (s *SignatureInfo) encode(dst []byte, outerType uint64) []byte {
	vs := s.valueSize()
	dst = tlv.AppendTL(dst, outerType, vs)
	dst = tlv.AppendBlock(dst, TLVSignatureType, []byte{s.Type})
	if s.KeyLocator != nil {
		klSize := s.KeyLocator.EncodedSize()
		dst = tlv.AppendTL(dst, TLVKeyLocator, klSize)
		dst = s.KeyLocator.Encode(dst)
	}
	if len(s.KeyDigest) > 0 {
		dst = tlv.AppendBlock(dst, TLVKeyDigest, s.KeyDigest)
	}
	if s.ValidityNotBefore != "" {
		inner := tlv.AppendBlock(nil, TLVNotBefore, []byte(s.ValidityNotBefore))
		inner = tlv.AppendBlock(inner, TLVNotAfter, []byte(s.ValidityNotAfter))
		dst = tlv.AppendBlock(dst, TLVValidityPeriod, inner)
	}
	if s.Nonce != nil {
		dst = tlv.AppendBlock(dst, TLVSignatureNonce, tlv.AppendUint(nil, uint64(*s.Nonce)))
	}
	if s.Timestamp != nil {
		dst = tlv.AppendBlock(dst, TLVTimestamp, tlv.AppendUint(nil, *s.Timestamp))
	}
	if s.SeqNum != nil {
		dst = tlv.AppendBlock(dst, TLVSeqNum, tlv.AppendUint(nil, *s.SeqNum))
	}
	return dst
}

func decodeSignatureInfo(d *tlv.Decoder, outerType uint64) (*SignatureInfo, error) {
	_, value, err := d.ReadBlock(outerType)
	if err != nil {
		return nil, err
	}
	inner := tlv.NewDecoder(value)
	s := &SignatureInfo{}
	_, tv, err := inner.ReadBlock(TLVSignatureType)
	if err != nil {
		return nil, err
	}
	if len(tv) != 1 {
		return nil, ndnerr.New(ndnerr.KindWrongTLVLength, "SignatureType must be 1 byte")
	}
	s.Type = tv[0]

	for !inner.Empty() {
		typ, err := inner.PeekType()
		if err != nil {
			return nil, err
		}
		switch typ {
		case TLVKeyLocator:
			_, klVal, err := inner.ReadBlock(TLVKeyLocator)
			if err != nil {
				return nil, err
			}
			n, err := DecodeNameValue(stripNameTL(klVal))
			if err != nil {
				return nil, err
			}
			s.KeyLocator = &n
		case TLVKeyDigest:
			_, v, err := inner.ReadBlock(TLVKeyDigest)
			if err != nil {
				return nil, err
			}
			s.KeyDigest = append([]byte(nil), v...)
		case TLVValidityPeriod:
			_, v, err := inner.ReadBlock(TLVValidityPeriod)
			if err != nil {
				return nil, err
			}
			vd := tlv.NewDecoder(v)
			_, nb, err := vd.ReadBlock(TLVNotBefore)
			if err != nil {
				return nil, err
			}
			_, na, err := vd.ReadBlock(TLVNotAfter)
			if err != nil {
				return nil, err
			}
			s.ValidityNotBefore = string(nb)
			s.ValidityNotAfter = string(na)
		case TLVSignatureNonce:
			_, v, err := inner.ReadBlock(TLVSignatureNonce)
			if err != nil {
				return nil, err
			}
			u, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			n := uint32(u)
			s.Nonce = &n
		case TLVTimestamp:
			_, v, err := inner.ReadBlock(TLVTimestamp)
			if err != nil {
				return nil, err
			}
			u, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			s.Timestamp = &u
		case TLVSeqNum:
			_, v, err := inner.ReadBlock(TLVSeqNum)
			if err != nil {
				return nil, err
			}
			u, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			s.SeqNum = &u
		default:
			if err := inner.SkipBlock(); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// stripNameTL returns the value of the Name TLV block that a KeyLocator's
// value holds (the components without the Name T/L), or v unchanged if v
// does not start with a well-formed Name block.
func stripNameTL(v []byte) []byte {
	d := tlv.NewDecoder(v)
	_, val, err := d.ReadBlock(TLVName)
	if err != nil {
		return v
	}
	return val
}
