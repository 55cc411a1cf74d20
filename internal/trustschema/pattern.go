// Package trustschema implements NDN trust schema pattern matching: a
// small pattern language for name components (literal, wildcard,
// wildcard-sequence, regex specializer, subpattern back-reference, and
// rule reference) used to check that a key name is authorized to sign
// data under a given data name.
package trustschema

import (
	"regexp"
	"strings"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// ComponentKind classifies one token of a pattern string.
type ComponentKind int

const (
	KindLiteral          ComponentKind = iota // <literal>
	KindWildcard                              // <>
	KindWildcardSequence                      // <>*
	KindSpecializer                            // [regex]
	KindSubpatternRef                         // \N
	KindRuleRef                               // name()
)

// MaxSubpatternCaptures bounds the number of "(...)" capture groups a
// single pattern may declare; the capture index is stored in 3 bits
// alongside the begin/end flags in the original C encoding.
const MaxSubpatternCaptures = 8

// PatternComponent is one parsed token of a pattern string.
type PatternComponent struct {
	Kind ComponentKind

	Literal []byte // KindLiteral

	SpecializerText string         // KindSpecializer, the regex source
	Specializer     *regexp.Regexp // KindSpecializer, compiled

	SubpatternIndex int // KindSubpatternRef

	RuleRefName string // KindRuleRef

	// BeginCapture/EndCapture are the index of the "(...)" capture this
	// component opens/closes, or -1 if it isn't a capture boundary. A
	// component that is the sole member of its group has both set to
	// the same index.
	BeginCapture int
	EndCapture   int
}

// Pattern is a parsed sequence of PatternComponents plus the capture
// bookkeeping needed to resolve \N back-references.
type Pattern struct {
	Components            []PatternComponent
	NumSubpatternCaptures  int
	NumSubpatternIndexes   int
}

// ParsePattern parses a trust schema pattern string into a Pattern.
//
// A string that doesn't begin with '<', '(', '[', or '\' is treated as a
// bare rule reference: "some_rule()" names a rule stored elsewhere, to be
// substituted in when this pattern is used as a key_pattern.
func ParsePattern(s string) (Pattern, error) {
	if len(s) == 0 {
		return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "pattern string is empty")
	}
	if !strings.ContainsRune("<([\\", rune(s[0])) {
		if !strings.HasSuffix(s, "()") {
			return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "unrecognized pattern component %q", s)
		}
		return Pattern{Components: []PatternComponent{{
			Kind:        KindRuleRef,
			RuleRefName: s[:len(s)-2],
			BeginCapture: -1,
			EndCapture:   -1,
		}}}, nil
	}

	var p Pattern
	pendingBegin := false
	beginCounter := 0
	endCounter := 0
	lastKind := ComponentKind(-1)

	i := 0
	for i < len(s) {
		switch s[i] {
		case '(':
			pendingBegin = true
			i++

		case ')':
			if len(p.Components) == 0 {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "')' with no preceding component at position %d", i)
			}
			p.Components[len(p.Components)-1].EndCapture = endCounter
			endCounter++
			i++

		case '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "unterminated '<' at position %d", i)
			}
			end += i

			var comp PatternComponent
			if end+1 < len(s) && s[end+1] == '*' {
				comp.Kind = KindWildcardSequence
				end++
			} else if end == i+1 {
				comp.Kind = KindWildcard
			} else {
				comp.Kind = KindLiteral
				comp.Literal = []byte(s[i+1 : end])
			}
			if comp.Kind == KindWildcardSequence && lastKind == KindWildcardSequence {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "consecutive wildcard sequences at position %d", i)
			}
			lastKind = comp.Kind
			comp.BeginCapture, comp.EndCapture = -1, -1
			if pendingBegin {
				if beginCounter >= MaxSubpatternCaptures {
					return Pattern{}, ndnerr.New(ndnerr.KindTooManySubpatterns, "pattern declares more than %d subpattern captures", MaxSubpatternCaptures)
				}
				comp.BeginCapture = beginCounter
				beginCounter++
				pendingBegin = false
			}
			p.Components = append(p.Components, comp)
			i = end + 1

		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "unterminated '[' at position %d", i)
			}
			end += i
			inner := s[i+1 : end]
			re, err := regexp.Compile(inner)
			if err != nil {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "invalid wildcard specializer %q: %v", inner, err)
			}
			comp := PatternComponent{Kind: KindSpecializer, SpecializerText: inner, Specializer: re, BeginCapture: -1, EndCapture: -1}
			if pendingBegin {
				if beginCounter >= MaxSubpatternCaptures {
					return Pattern{}, ndnerr.New(ndnerr.KindTooManySubpatterns, "pattern declares more than %d subpattern captures", MaxSubpatternCaptures)
				}
				comp.BeginCapture = beginCounter
				beginCounter++
				pendingBegin = false
			}
			lastKind = KindSpecializer
			p.Components = append(p.Components, comp)
			i = end + 1

		case '\\':
			if i+1 >= len(s) || s[i+1] < '0' || s[i+1] > '9' {
				return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "'\\' not followed by a digit at position %d", i)
			}
			comp := PatternComponent{
				Kind:            KindSubpatternRef,
				SubpatternIndex: int(s[i+1] - '0'),
				BeginCapture:    -1,
				EndCapture:      -1,
			}
			if pendingBegin {
				comp.BeginCapture = beginCounter
				beginCounter++
				pendingBegin = false
			}
			lastKind = KindSubpatternRef
			p.Components = append(p.Components, comp)
			p.NumSubpatternIndexes++
			i += 2

		default:
			return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "unexpected character %q at position %d", s[i], i)
		}
	}

	if beginCounter != endCounter {
		return Pattern{}, ndnerr.New(ndnerr.KindPatternParse, "unbalanced '(' / ')' subpattern markers")
	}
	p.NumSubpatternCaptures = beginCounter
	return p, nil
}
