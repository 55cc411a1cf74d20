// Package ndn implements the NDN Packet Format 0.3 data model: names,
// name components, Interest and Data packets, and their TLV encodings.
package ndn

// TLV type numbers, NDN Packet Format 0.3. Mirrors the constants
// enumerated in the reference C implementation's encode/tlv.h.
const (
	TLVInterest = 5
	TLVData     = 6

	TLVName                              = 7
	TLVGenericNameComponent              = 8
	TLVImplicitSha256DigestComponent      = 1
	TLVParametersSha256DigestComponent    = 2
	TLVKeywordNameComponent               = 32
	TLVSegmentNameComponent               = 33
	TLVByteOffsetNameComponent            = 34
	TLVVersionNameComponent               = 35
	TLVTimestampNameComponent             = 36
	TLVSequenceNumNameComponent           = 37

	TLVCanBePrefix             = 33
	TLVMustBeFresh             = 18
	TLVForwardingHint          = 30
	TLVNonce                   = 10
	TLVInterestLifetime        = 12
	TLVHopLimit                = 34
	TLVApplicationParameters   = 36
	TLVInterestSignatureInfo   = 44
	TLVInterestSignatureValue  = 46

	TLVMetaInfo      = 20
	TLVContent       = 21
	TLVSignatureInfo = 22
	TLVSignatureValue = 23

	TLVContentType    = 24
	TLVFreshnessPeriod = 25
	TLVFinalBlockId   = 26

	TLVSignatureType  = 27
	TLVKeyLocator     = 28
	TLVKeyDigest      = 29
	TLVSignatureNonce = 38
	TLVTimestamp      = 40
	TLVSeqNum         = 42

	TLVValidityPeriod = 253
	TLVNotBefore      = 254
	TLVNotAfter       = 255
)

// Signature type codes (spec §4.10).
const (
	SignatureDigestSha256 = 0
	SignatureEcdsaSha256  = 3
	SignatureHmacSha256   = 4
)

// Size limits, spec §3 and §6 (Configuration and limits).
const (
	MaxNameComponents    = 10
	MaxComponentValue    = 36
	MaxNameEncodedSize   = 384
	MaxInterestParams    = 248
	MaxDataContent       = 256
	MaxSignatureValue    = 128
	DefaultInterestLifetimeMs = 4000
)
