package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the forwarder, faces,
// tables, and security engine. Use these keys consistently so log lines can
// be aggregated and queried regardless of which package emitted them.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// ========================================================================
	// Packet identity
	// ========================================================================
	KeyName      = "name"       // NDN name in URI form
	KeyPipeline  = "pipeline"   // IncomingInterest, OutgoingInterest, IncomingData
	KeyNonce     = "nonce"      // Interest nonce
	KeyHopLimit  = "hop_limit"  // remaining HopLimit
	KeyLifetime  = "lifetime_ms"
	KeyPacketLen = "packet_len"

	// ========================================================================
	// Faces
	// ========================================================================
	KeyFaceID     = "face_id"
	KeyFaceType   = "face_type"  // app, net
	KeyFaceState  = "face_state" // down, up, destroyed
	KeyNexthops   = "nexthops"   // bitset of nexthop face ids
	KeyIncoming   = "incoming_faces"

	// ========================================================================
	// Tables
	// ========================================================================
	KeyTable      = "table" // fib, pit, cs, nametree
	KeyEntryID    = "entry_id"
	KeyOccupancy  = "occupancy"
	KeyCapacity   = "capacity"
	KeyEvicted    = "evicted"
	KeyFreshUntil = "fresh_until"
	KeyCacheHit   = "cache_hit"

	// ========================================================================
	// Drop / error reasons
	// ========================================================================
	KeyReason    = "reason"
	KeyErrorCode = "error_code"
	KeyError     = "error"

	// ========================================================================
	// Security
	// ========================================================================
	KeyKeyID        = "key_id"
	KeySigType      = "sig_type"
	KeyKeyLocator   = "key_locator"
	KeyVerifyResult = "verify_result"

	// ========================================================================
	// Trust schema
	// ========================================================================
	KeyRule     = "rule"
	KeyDataName = "data_name"
	KeyKeyName  = "key_name"

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
)

// TraceID returns a slog.Attr for a correlation id
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for a pipeline sub-span id
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Name returns a slog.Attr for an NDN name
func Name(uri string) slog.Attr {
	return slog.String(KeyName, uri)
}

// Pipeline returns a slog.Attr for the forwarder pipeline stage
func Pipeline(stage string) slog.Attr {
	return slog.String(KeyPipeline, stage)
}

// Nonce returns a slog.Attr for an Interest nonce
func Nonce(n uint32) slog.Attr {
	return slog.Uint64(KeyNonce, uint64(n))
}

// HopLimit returns a slog.Attr for a remaining HopLimit value
func HopLimit(n uint8) slog.Attr {
	return slog.Int(KeyHopLimit, int(n))
}

// LifetimeMs returns a slog.Attr for an Interest lifetime in milliseconds
func LifetimeMs(ms uint32) slog.Attr {
	return slog.Uint64(KeyLifetime, uint64(ms))
}

// PacketLen returns a slog.Attr for the encoded packet length
func PacketLen(n int) slog.Attr {
	return slog.Int(KeyPacketLen, n)
}

// FaceID returns a slog.Attr for a face id
func FaceID(id uint16) slog.Attr {
	return slog.Uint64(KeyFaceID, uint64(id))
}

// FaceType returns a slog.Attr for a face type
func FaceType(t string) slog.Attr {
	return slog.String(KeyFaceType, t)
}

// FaceState returns a slog.Attr for a face state
func FaceState(s string) slog.Attr {
	return slog.String(KeyFaceState, s)
}

// Nexthops returns a slog.Attr for a nexthop bitset
func Nexthops(bits uint64) slog.Attr {
	return slog.Uint64(KeyNexthops, bits)
}

// Table returns a slog.Attr naming which table an entry belongs to
func Table(name string) slog.Attr {
	return slog.String(KeyTable, name)
}

// EntryID returns a slog.Attr for a table entry id
func EntryID(id uint16) slog.Attr {
	return slog.Uint64(KeyEntryID, uint64(id))
}

// Occupancy returns a slog.Attr for current table occupancy
func Occupancy(n int) slog.Attr {
	return slog.Int(KeyOccupancy, n)
}

// Capacity returns a slog.Attr for table capacity
func Capacity(n int) slog.Attr {
	return slog.Int(KeyCapacity, n)
}

// Evicted returns a slog.Attr for number of entries evicted
func Evicted(n int) slog.Attr {
	return slog.Int(KeyEvicted, n)
}

// CacheHit returns a slog.Attr for a content store hit/miss
func CacheHit(hit bool) slog.Attr {
	return slog.Bool(KeyCacheHit, hit)
}

// Reason returns a slog.Attr for a drop/rejection reason
func Reason(reason string) slog.Attr {
	return slog.String(KeyReason, reason)
}

// ErrorCode returns a slog.Attr for a numeric error kind
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// KeyIDAttr returns a slog.Attr for a key storage key id
func KeyIDAttr(id uint32) slog.Attr {
	return slog.Uint64(KeyKeyID, uint64(id))
}

// SigType returns a slog.Attr for a signature type code
func SigType(t int) slog.Attr {
	return slog.Int(KeySigType, t)
}

// KeyLocator returns a slog.Attr for a key locator name
func KeyLocator(name string) slog.Attr {
	return slog.String(KeyKeyLocator, name)
}

// VerifyResult returns a slog.Attr for a verification outcome
func VerifyResult(ok bool) slog.Attr {
	return slog.Bool(KeyVerifyResult, ok)
}

// Rule returns a slog.Attr for a trust schema rule name
func Rule(name string) slog.Attr {
	return slog.String(KeyRule, name)
}

// DataName returns a slog.Attr for a trust schema data name
func DataName(uri string) slog.Attr {
	return slog.String(KeyDataName, uri)
}

// KeyNameAttr returns a slog.Attr for a trust schema key name
func KeyNameAttr(uri string) slog.Attr {
	return slog.String(KeyKeyName, uri)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}
