package ndn

import "github.com/ndn-lite/ndnlite-go/internal/tlv"

// MetaInfo carries a Data packet's content type, cache freshness, and
// optional final-segment marker.
type MetaInfo struct {
	ContentType     uint64
	FreshnessPeriod uint32 // milliseconds
	FinalBlockId    *Component
}

func (m *MetaInfo) valueSize() int {
	size := tlv.ProbeBlockSize(TLVContentType, len(tlv.AppendUint(nil, m.ContentType)))
	if m.FreshnessPeriod != 0 {
		size += tlv.ProbeBlockSize(TLVFreshnessPeriod, len(tlv.AppendUint(nil, uint64(m.FreshnessPeriod))))
	}
	if m.FinalBlockId != nil {
		size += tlv.ProbeBlockSize(TLVFinalBlockId, m.FinalBlockId.ProbeSize())
	}
	return size
}

func (m *MetaInfo) encode(dst []byte) []byte {
	dst = tlv.AppendTL(dst, TLVMetaInfo, m.valueSize())
	dst = tlv.AppendBlock(dst, TLVContentType, tlv.AppendUint(nil, m.ContentType))
	if m.FreshnessPeriod != 0 {
		dst = tlv.AppendBlock(dst, TLVFreshnessPeriod, tlv.AppendUint(nil, uint64(m.FreshnessPeriod)))
	}
	if m.FinalBlockId != nil {
		inner := m.FinalBlockId.Encode(nil)
		dst = tlv.AppendBlock(dst, TLVFinalBlockId, inner)
	}
	return dst
}

func decodeMetaInfo(d *tlv.Decoder) (*MetaInfo, error) {
	_, value, err := d.ReadBlock(TLVMetaInfo)
	if err != nil {
		return nil, err
	}
	inner := tlv.NewDecoder(value)
	m := &MetaInfo{}
	for !inner.Empty() {
		typ, err := inner.PeekType()
		if err != nil {
			return nil, err
		}
		switch typ {
		case TLVContentType:
			_, v, err := inner.ReadBlock(TLVContentType)
			if err != nil {
				return nil, err
			}
			ct, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			m.ContentType = ct
		case TLVFreshnessPeriod:
			_, v, err := inner.ReadBlock(TLVFreshnessPeriod)
			if err != nil {
				return nil, err
			}
			fp, err := tlv.DecodeUint(v)
			if err != nil {
				return nil, err
			}
			m.FreshnessPeriod = uint32(fp)
		case TLVFinalBlockId:
			_, v, err := inner.ReadBlock(TLVFinalBlockId)
			if err != nil {
				return nil, err
			}
			fbd := tlv.NewDecoder(v)
			c, err := DecodeComponent(fbd)
			if err != nil {
				return nil, err
			}
			m.FinalBlockId = &c
		default:
			if err := inner.SkipBlock(); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
