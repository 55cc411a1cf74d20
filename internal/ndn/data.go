package ndn

import (
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// Data is a named, signed content packet of up to MaxDataContent bytes.
type Data struct {
	Name      Name
	MetaInfo  MetaInfo
	Content   []byte
	SigInfo   *SignatureInfo
	SigValue  []byte
}

// signedPortion appends the Name, MetaInfo, and Content blocks
// (everything a signature covers, but not the signature fields themselves).
func (d *Data) signedPortion(dst []byte) []byte {
	dst = d.Name.Encode(dst)
	dst = d.MetaInfo.encode(dst)
	dst = tlv.AppendBlock(dst, TLVContent, d.Content)
	return dst
}

// SignedPortion returns the bytes a signature covers: Name, MetaInfo,
// Content, and SignatureInfo (if present), in wire order, excluding the
// SignatureValue itself.
func (d *Data) SignedPortion() []byte {
	dst := d.signedPortion(nil)
	if d.SigInfo != nil {
		dst = d.SigInfo.encode(dst, TLVSignatureInfo)
	}
	return dst
}

func (d *Data) valueSize() int {
	size := d.Name.EncodedSize()
	size += tlv.ProbeBlockSize(TLVMetaInfo, d.MetaInfo.valueSize())
	size += tlv.ProbeBlockSize(TLVContent, len(d.Content))
	if d.SigInfo != nil {
		size += tlv.ProbeBlockSize(TLVSignatureInfo, d.SigInfo.valueSize())
	}
	if len(d.SigValue) > 0 {
		size += tlv.ProbeBlockSize(TLVSignatureValue, len(d.SigValue))
	}
	return size
}

// Encode serializes the Data packet to wire format (TLV type 6).
func (d *Data) Encode() ([]byte, error) {
	if len(d.Content) > MaxDataContent {
		return nil, ndnerr.New(ndnerr.KindOversizeBuffer, "content %d bytes exceeds max %d", len(d.Content), MaxDataContent)
	}
	if len(d.SigValue) > MaxSignatureValue {
		return nil, ndnerr.New(ndnerr.KindWrongSignatureSize, "signature value %d bytes exceeds max %d", len(d.SigValue), MaxSignatureValue)
	}
	vs := d.valueSize()
	dst := tlv.AppendTL(nil, TLVData, vs)
	dst = d.signedPortion(dst)
	if d.SigInfo != nil {
		dst = d.SigInfo.encode(dst, TLVSignatureInfo)
	}
	if len(d.SigValue) > 0 {
		dst = tlv.AppendBlock(dst, TLVSignatureValue, d.SigValue)
	}
	return dst, nil
}

// DecodeData parses a Data packet (TLV type 6) from buf.
func DecodeData(buf []byte) (*Data, error) {
	d := tlv.NewDecoder(buf)
	_, value, err := d.ReadBlock(TLVData)
	if err != nil {
		return nil, err
	}
	inner := tlv.NewDecoder(value)

	name, err := DecodeName(inner)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetaInfo(inner)
	if err != nil {
		return nil, err
	}
	_, content, err := inner.ReadBlock(TLVContent)
	if err != nil {
		return nil, err
	}

	out := &Data{Name: name, MetaInfo: *meta, Content: append([]byte(nil), content...)}

	for !inner.Empty() {
		typ, err := inner.PeekType()
		if err != nil {
			return nil, err
		}
		switch typ {
		case TLVSignatureInfo:
			si, err := decodeSignatureInfo(inner, TLVSignatureInfo)
			if err != nil {
				return nil, err
			}
			out.SigInfo = si
		case TLVSignatureValue:
			_, v, err := inner.ReadBlock(TLVSignatureValue)
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
	return out, nil
}
