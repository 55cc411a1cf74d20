package ndn

import (
	"crypto/sha256"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// Interest requests named content from the network.
type Interest struct {
	Name         Name
	CanBePrefix  bool
	MustBeFresh  bool
	Nonce        uint32
	Lifetime     uint32 // milliseconds, default DefaultInterestLifetimeMs
	HopLimit     *uint8
	Parameters   []byte // application parameters, <= MaxInterestParams
	SigInfo      *SignatureInfo
	SigValue     []byte
}

// NewInterest builds an Interest with the default lifetime and no flags set.
func NewInterest(name Name) *Interest {
	return &Interest{Name: name, Lifetime: DefaultInterestLifetimeMs}
}

// ApplicationParametersDigest computes the SHA-256 digest that must be
// appended as a ParametersSha256DigestComponent when Parameters are
// present on an unsigned Interest (spec §3, §4.2).
func ApplicationParametersDigest(encodedParamsTLV []byte) [32]byte {
	return sha256.Sum256(encodedParamsTLV)
}

// WithParametersDigest returns a copy of the Interest's name with a
// ParametersSha256DigestComponent appended, computed over the encoded
// ApplicationParameters TLV. Call this before signing/sending an Interest
// that carries Parameters.
func (i *Interest) WithParametersDigest() (Name, error) {
	paramsTLV := tlv.AppendBlock(nil, TLVApplicationParameters, i.Parameters)
	digest := ApplicationParametersDigest(paramsTLV)
	c, err := NewComponent(TLVParametersSha256DigestComponent, digest[:])
	if err != nil {
		return Name{}, err
	}
	return i.Name.Append(c)
}

// SignedPortion returns the bytes a signature covers: Name, selectors,
// Nonce, Lifetime, HopLimit, ApplicationParameters, and
// InterestSignatureInfo (if present), excluding the SignatureValue itself.
func (i *Interest) SignedPortion() []byte {
	dst := i.Name.Encode(nil)
	if i.CanBePrefix {
		dst = tlv.AppendTL(dst, TLVCanBePrefix, 0)
	}
	if i.MustBeFresh {
		dst = tlv.AppendTL(dst, TLVMustBeFresh, 0)
	}
	dst = tlv.AppendBlock(dst, TLVNonce, tlv.AppendUint(nil, uint64(i.Nonce)))
	dst = tlv.AppendBlock(dst, TLVInterestLifetime, tlv.AppendUint(nil, uint64(i.Lifetime)))
	if i.HopLimit != nil {
		dst = tlv.AppendBlock(dst, TLVHopLimit, []byte{*i.HopLimit})
	}
	if i.Parameters != nil {
		dst = tlv.AppendBlock(dst, TLVApplicationParameters, i.Parameters)
	}
	if i.SigInfo != nil {
		dst = i.SigInfo.encode(dst, TLVInterestSignatureInfo)
	}
	return dst
}

func (i *Interest) valueSize() int {
	size := i.Name.EncodedSize()
	if i.CanBePrefix {
		size += tlv.ProbeBlockSize(TLVCanBePrefix, 0)
	}
	if i.MustBeFresh {
		size += tlv.ProbeBlockSize(TLVMustBeFresh, 0)
	}
	size += tlv.ProbeBlockSize(TLVNonce, len(tlv.AppendUint(nil, uint64(i.Nonce))))
	size += tlv.ProbeBlockSize(TLVInterestLifetime, len(tlv.AppendUint(nil, uint64(i.Lifetime))))
	if i.HopLimit != nil {
		size += tlv.ProbeBlockSize(TLVHopLimit, 1)
	}
	if i.Parameters != nil {
		size += tlv.ProbeBlockSize(TLVApplicationParameters, len(i.Parameters))
	}
	if i.SigInfo != nil {
		size += tlv.ProbeBlockSize(TLVInterestSignatureInfo, i.SigInfo.valueSize())
	}
	if len(i.SigValue) > 0 {
		size += tlv.ProbeBlockSize(TLVInterestSignatureValue, len(i.SigValue))
	}
	return size
}

// Encode serializes the Interest to wire format (TLV type 5).
func (i *Interest) Encode() ([]byte, error) {
	if len(i.Parameters) > MaxInterestParams {
		return nil, ndnerr.New(ndnerr.KindOversizeBuffer, "parameters %d bytes exceeds max %d", len(i.Parameters), MaxInterestParams)
	}
	if len(i.SigValue) > MaxSignatureValue {
		return nil, ndnerr.New(ndnerr.KindWrongSignatureSize, "signature value %d bytes exceeds max %d", len(i.SigValue), MaxSignatureValue)
	}
	vs := i.valueSize()
	dst := tlv.AppendTL(nil, TLVInterest, vs)
	dst = i.Name.Encode(dst)
	if i.CanBePrefix {
		dst = tlv.AppendTL(dst, TLVCanBePrefix, 0)
	}
	if i.MustBeFresh {
		dst = tlv.AppendTL(dst, TLVMustBeFresh, 0)
	}
	dst = tlv.AppendBlock(dst, TLVNonce, tlv.AppendUint(nil, uint64(i.Nonce)))
	dst = tlv.AppendBlock(dst, TLVInterestLifetime, tlv.AppendUint(nil, uint64(i.Lifetime)))
	if i.HopLimit != nil {
		dst = tlv.AppendBlock(dst, TLVHopLimit, []byte{*i.HopLimit})
	}
	if i.Parameters != nil {
		dst = tlv.AppendBlock(dst, TLVApplicationParameters, i.Parameters)
	}
	if i.SigInfo != nil {
		dst = i.SigInfo.encode(dst, TLVInterestSignatureInfo)
	}
	if len(i.SigValue) > 0 {
		dst = tlv.AppendBlock(dst, TLVInterestSignatureValue, i.SigValue)
	}
	return dst, nil
}

// DecodeInterest parses an Interest packet (TLV type 5) from buf.
func DecodeInterest(buf []byte) (*Interest, error) {
	d := tlv.NewDecoder(buf)
	_, value, err := d.ReadBlock(TLVInterest)
	if err != nil {
		return nil, err
	}
	inner := tlv.NewDecoder(value)

	name, err := DecodeName(inner)
	if err != nil {
		return nil, err
	}
	out := &Interest{Name: name}
	sawLifetime := false

	for !inner.Empty() {
		typ, err := inner.PeekType()
		if err != nil {
			return nil, err
		}
		switch typ {
		case TLVCanBePrefix:
			if _, _, err := inner.ReadBlock(TLVCanBePrefix); err != nil {
				return nil, err
			}
			out.CanBePrefix = true
		case TLVMustBeFresh:
			if _, _, err := inner.ReadBlock(TLVMustBeFresh); err != nil {
				return nil, err
			}
			out.MustBeFresh = true
		case TLVNonce:
			_, v, err := inner.ReadBlock(TLVNonce)
			if err != nil {
				return nil, err
			}
			u, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			out.Nonce = uint32(u)
		case TLVInterestLifetime:
			_, v, err := inner.ReadBlock(TLVInterestLifetime)
			if err != nil {
				return nil, err
			}
			u, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			out.Lifetime = uint32(u)
			sawLifetime = true
		case TLVHopLimit:
			_, v, err := inner.ReadBlock(TLVHopLimit)
			if err != nil {
				return nil, err
			}
			if len(v) != 1 {
				return nil, ndnerr.New(ndnerr.KindWrongTLVLength, "HopLimit must be 1 byte")
			}
			hl := v[0]
			out.HopLimit = &hl
		case TLVApplicationParameters:
			_, v, err := inner.ReadBlock(TLVApplicationParameters)
			if err != nil {
				return nil, err
			}
			out.Parameters = append([]byte(nil), v...)
		case TLVInterestSignatureInfo:
			si, err := decodeSignatureInfo(inner, TLVInterestSignatureInfo)
			if err != nil {
				return nil, err
			}
			out.SigInfo = si
		case TLVInterestSignatureValue:
			_, v, err := inner.ReadBlock(TLVInterestSignatureValue)
			if err != nil {
				return nil, err
			}
			out.SigValue = append([]byte(nil), v...)
		default:
			if err := inner.SkipBlock(); err != nil {
				return nil, err
			}
		}
	}
	if !sawLifetime {
		out.Lifetime = DefaultInterestLifetimeMs
	}
	return out, nil
}
