// Package ndnerr defines the error kinds shared by every NDN-lite-go package.
package ndnerr

import "fmt"

// Kind classifies a failure the way spec §7 groups them, so callers can
// switch on kind instead of parsing strings.
type Kind int

const (
	_ Kind = iota

	// Input-shape errors
	KindOversizeBuffer
	KindTruncatedTLV
	KindWrongTLVType
	KindWrongTLVLength
	KindInvalidName
	KindInvalidArgument

	// Capacity errors
	KindFaceTableFull
	KindFIBFull
	KindPITFull
	KindCSFull
	KindNameTreeFull
	KindMsgQueueFull

	// Routing errors
	KindNoRoute
	KindInterestRejected
	KindNoEffect

	// Security errors
	KindWrongKeySize
	KindWrongSignatureSize
	KindUnsupportedSignatureType
	KindVerificationFailure
	KindCryptoBackendFailure
	KindKeyNotFound

	// Schema errors
	KindRuleStorageFull
	KindRuleNameTooLong
	KindPatternParse
	KindSubpatternIndexOutOfRange
	KindTooManySubpatterns
	KindNameDidNotMatch

	// Fragmentation errors
	KindNoMoreFragments
	KindOutOfOrderFragment
	KindWrongFragmentIdentifier

	// Application-support errors
	KindStorageFailure
	KindBootstrapFailure
)

var names = map[Kind]string{
	KindOversizeBuffer:           "oversize buffer",
	KindTruncatedTLV:             "truncated TLV",
	KindWrongTLVType:             "wrong TLV type",
	KindWrongTLVLength:           "wrong TLV length",
	KindInvalidName:              "invalid name",
	KindInvalidArgument:          "invalid argument",
	KindFaceTableFull:            "face table full",
	KindFIBFull:                  "FIB full",
	KindPITFull:                  "PIT full",
	KindCSFull:                   "CS full",
	KindNameTreeFull:             "name tree full",
	KindMsgQueueFull:             "message queue full",
	KindNoRoute:                  "no route",
	KindInterestRejected:         "interest rejected",
	KindNoEffect:                 "no effect",
	KindWrongKeySize:             "wrong key size",
	KindWrongSignatureSize:       "wrong signature size",
	KindUnsupportedSignatureType: "unsupported signature type",
	KindVerificationFailure:      "verification failure",
	KindCryptoBackendFailure:     "crypto backend failure",
	KindKeyNotFound:              "key not found",
	KindRuleStorageFull:          "rule storage full",
	KindRuleNameTooLong:          "rule name too long",
	KindPatternParse:             "pattern parse error",
	KindSubpatternIndexOutOfRange: "subpattern index out of range",
	KindTooManySubpatterns:       "too many subpatterns",
	KindNameDidNotMatch:          "name did not match",
	KindNoMoreFragments:          "no more fragments",
	KindOutOfOrderFragment:       "out of order fragment",
	KindWrongFragmentIdentifier:  "wrong fragment identifier",
	KindStorageFailure:           "storage failure",
	KindBootstrapFailure:         "bootstrap failure",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the single error type returned by every package in this module.
// It always wraps a Kind so callers can discriminate with errors.Is/As or
// a plain switch on Kind().
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind wrapping a lower-level cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Is lets errors.Is(err, ndnerr.New(KindNoRoute, "")) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// KindOf extracts the Kind from err, or 0 if err is not (or does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if ee, ok := err.(*Error); ok {
			e = ee
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return 0
	}
	return e.kind
}
