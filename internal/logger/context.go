package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for one packet traversing
// the forwarder pipelines.
type LogContext struct {
	TraceID   string    // correlation id assigned by the diagnostics API, if any
	SpanID    string    // sub-span id for a single pipeline stage
	Pipeline  string    // IncomingInterest, OutgoingInterest, IncomingData
	Name      string    // NDN name of the packet being processed
	FaceID    uint16    // face the packet arrived on, or 0 for in-process
	Nonce     uint32    // Interest nonce, 0 if not applicable
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a packet entering a pipeline.
func NewLogContext(pipeline, name string) *LogContext {
	return &LogContext{
		Pipeline:  pipeline,
		Name:      name,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithFace returns a copy with the incoming face id set
func (lc *LogContext) WithFace(faceID uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.FaceID = faceID
	}
	return clone
}

// WithNonce returns a copy with the Interest nonce set
func (lc *LogContext) WithNonce(nonce uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Nonce = nonce
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
