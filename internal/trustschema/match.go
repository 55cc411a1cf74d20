package trustschema

import (
	"bytes"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// capture records the [begin, end) component-index range of the name
// that a "(...)" subpattern matched.
type capture struct {
	begin, end int
}

var errNameDidNotMatch = ndnerr.New(ndnerr.KindNameDidNotMatch, "name does not match pattern")

func componentMatches(pc PatternComponent, nc ndn.Component) bool {
	switch pc.Kind {
	case KindLiteral:
		return bytes.Equal(pc.Literal, nc.Value)
	case KindSpecializer:
		return pc.Specializer.MatchString(string(nc.Value))
	case KindWildcard, KindWildcardSequence:
		return true
	default:
		// KindSubpatternRef and KindRuleRef never match a single
		// component standalone; callers handle them specially.
		return false
	}
}

func indexOfKind(pcs []PatternComponent, kind ComponentKind) int {
	for i, c := range pcs {
		if c.Kind == kind {
			return i
		}
	}
	return -1
}

func lastIndexOfKind(pcs []PatternComponent, kind ComponentKind) int {
	for i := len(pcs) - 1; i >= 0; i-- {
		if pcs[i].Kind == kind {
			return i
		}
	}
	return -1
}

// noWildcardSequenceMatchDataName matches name[nb:ne) against pattern
// components [pb:pe) position by position, requiring an exact length
// match. Neither slice may contain a wildcard-sequence component.
// Capture begin/end positions are recorded into caps as they're walked.
func noWildcardSequenceMatchDataName(name ndn.Name, nb, ne int, pcs []PatternComponent, pb, pe int, caps []capture) error {
	if ne-nb != pe-pb {
		return errNameDidNotMatch
	}
	for i := 0; i < ne-nb; i++ {
		pc := pcs[pb+i]
		if pc.Kind != KindWildcard {
			nc, ok := name.At(nb + i)
			if !ok || !componentMatches(pc, nc) {
				return errNameDidNotMatch
			}
		}
		if pc.BeginCapture >= 0 {
			caps[pc.BeginCapture].begin = nb + i
		}
		if pc.EndCapture >= 0 {
			caps[pc.EndCapture].end = nb + i + 1
		}
	}
	return nil
}

// indexOfDataName slides the fixed-length pattern slice [pb:pe) across
// name[nb:ne) looking for the position where it matches exactly.
func indexOfDataName(name ndn.Name, nb, ne int, pcs []PatternComponent, pb, pe int, caps []capture) int {
	width := pe - pb
	for i := nb; i < ne; i++ {
		if i+width > ne {
			break
		}
		if noWildcardSequenceMatchDataName(name, i, i+width, pcs, pb, pe, caps) == nil {
			return i
		}
	}
	return -1
}

// checkDataNameAgainstPattern matches name against pattern, resolving
// any wildcard-sequence spans and recording "(...)" subpattern captures
// as [begin,end) component-index ranges into name.
func checkDataNameAgainstPattern(pattern Pattern, name ndn.Name) ([]capture, error) {
	pcs := pattern.Components
	caps := make([]capture, pattern.NumSubpatternCaptures)

	if len(pcs) == 0 && name.Len() == 0 {
		return caps, nil
	}

	pbInit := indexOfKind(pcs, KindWildcardSequence)
	if pbInit < 0 {
		if err := noWildcardSequenceMatchDataName(name, 0, name.Len(), pcs, 0, len(pcs), caps); err != nil {
			return nil, err
		}
		return caps, nil
	}

	pe := lastIndexOfKind(pcs, KindWildcardSequence) + 1
	nb := pbInit
	ne := name.Len() - (len(pcs) - pe)
	if nb > ne {
		return nil, errNameDidNotMatch
	}

	if err := noWildcardSequenceMatchDataName(name, 0, nb, pcs, 0, pbInit, caps); err != nil {
		return nil, err
	}
	if err := noWildcardSequenceMatchDataName(name, ne, name.Len(), pcs, pe, len(pcs), caps); err != nil {
		return nil, err
	}

	foundSPE := false
	lastSPEIdx := -1
	pb := pbInit
	for i := pb; i < pe; i++ {
		for i < pe && pcs[i].Kind == KindWildcardSequence {
			if pcs[i].BeginCapture >= 0 {
				caps[pcs[i].BeginCapture].begin = nb
			}
			if pcs[i].EndCapture >= 0 {
				foundSPE = true
				lastSPEIdx = i
			}
			i++
			pb = i
		}
		if i == pe {
			if foundSPE {
				caps[pcs[lastSPEIdx].EndCapture].end = ne
			}
			return caps, nil
		}
		for i < pe && pcs[i].Kind != KindWildcardSequence {
			i++
		}
		j := indexOfDataName(name, nb, ne, pcs, pb, i, caps)
		if j == -1 {
			return nil, errNameDidNotMatch
		}
		if foundSPE {
			caps[pcs[lastSPEIdx].EndCapture].end = j
			foundSPE = false
		}
		nb = j + (i - pb)
		pb = i + 1
	}
	return caps, nil
}

// compareSubNames reports whether name[nb:ne) and name[ob:oe) are
// identical component-by-component (used to resolve a \N back-reference
// against the span the data pattern captured).
func compareSubNames(a ndn.Name, ab, ae int, b ndn.Name, bb, be int) bool {
	if ae-ab != be-bb {
		return false
	}
	for i := 0; i < ae-ab; i++ {
		ac, ok1 := a.At(ab + i)
		bc, ok2 := b.At(bb + i)
		if !ok1 || !ok2 || !ac.Equal(bc) {
			return false
		}
	}
	return true
}

// noWildcardSequenceMatchKeyName matches key name[nb:ne) against key
// pattern components [pb:pe). Unlike the data-name matcher, a
// KindSubpatternRef component consumes as many key-name components as
// the referenced data-pattern capture spans, comparing that span against
// the corresponding slice of dataName recorded in dataCaps.
func noWildcardSequenceMatchKeyName(
	keyName ndn.Name, nb, ne int,
	pcs []PatternComponent, pb, pe int,
	numSubpatternIndexes, numDataSubpatternCaptures int,
	dataCaps []capture, dataName ndn.Name,
) error {
	if numSubpatternIndexes == 0 && ne-nb != pe-pb {
		return errNameDidNotMatch
	}

	i, j := 0, 0
	for i < ne-nb && j < pe-pb {
		pc := pcs[pb+j]
		switch {
		case pc.Kind == KindSubpatternRef:
			idx := pc.SubpatternIndex
			if idx >= numDataSubpatternCaptures {
				return ndnerr.New(ndnerr.KindSubpatternIndexOutOfRange, "subpattern index %d exceeds %d captures", idx, numDataSubpatternCaptures)
			}
			captured := dataCaps[idx]
			segLen := captured.end - captured.begin
			if nb+i+segLen > ne {
				return errNameDidNotMatch
			}
			if !compareSubNames(keyName, nb+i, nb+i+segLen, dataName, captured.begin, captured.end) {
				return errNameDidNotMatch
			}
			i += segLen
			j++
		case pc.Kind != KindWildcard:
			nc, ok := keyName.At(nb + i)
			if !ok || !componentMatches(pc, nc) {
				return errNameDidNotMatch
			}
			i++
			j++
		default:
			i++
			j++
		}
	}
	if i != ne-nb || j != pe-pb {
		return errNameDidNotMatch
	}
	return nil
}

func indexOfKeyName(
	keyName ndn.Name, nb, ne int,
	pcs []PatternComponent, pb, pe int,
	numSubpatternIndexes, numDataSubpatternCaptures int,
	dataCaps []capture, dataName ndn.Name,
) int {
	width := pe - pb
	for i := nb; i < ne; i++ {
		if i+width > ne {
			break
		}
		if noWildcardSequenceMatchKeyName(keyName, i, i+width, pcs, pb, pe, numSubpatternIndexes, numDataSubpatternCaptures, dataCaps, dataName) == nil {
			return i
		}
	}
	return -1
}

// checkKeyNameAgainstPattern matches keyName against keyPattern, using
// dataCaps/dataName to resolve any \N back-references the key pattern
// contains into the data name's captured subpatterns.
func checkKeyNameAgainstPattern(keyPattern Pattern, keyName ndn.Name, numDataSubpatternCaptures int, dataCaps []capture, dataName ndn.Name) error {
	pcs := keyPattern.Components
	numIdx := keyPattern.NumSubpatternIndexes

	if len(pcs) == 0 && keyName.Len() == 0 {
		return nil
	}

	pbInit := indexOfKind(pcs, KindWildcardSequence)
	if pbInit < 0 {
		return noWildcardSequenceMatchKeyName(keyName, 0, keyName.Len(), pcs, 0, len(pcs), numIdx, numDataSubpatternCaptures, dataCaps, dataName)
	}

	pe := lastIndexOfKind(pcs, KindWildcardSequence) + 1
	nb := pbInit
	ne := keyName.Len() - (len(pcs) - pe)
	if nb > ne {
		return errNameDidNotMatch
	}

	if err := noWildcardSequenceMatchKeyName(keyName, 0, nb, pcs, 0, pbInit, numIdx, numDataSubpatternCaptures, dataCaps, dataName); err != nil {
		return err
	}
	if err := noWildcardSequenceMatchKeyName(keyName, ne, keyName.Len(), pcs, pe, len(pcs), numIdx, numDataSubpatternCaptures, dataCaps, dataName); err != nil {
		return err
	}

	pb := pbInit
	for i := pb; i < pe; i++ {
		for i < pe && pcs[i].Kind == KindWildcardSequence {
			i++
			pb = i
		}
		if i == pe {
			return nil
		}
		for i < pe && pcs[i].Kind != KindWildcardSequence {
			i++
		}
		j := indexOfKeyName(keyName, nb, ne, pcs, pb, i, numIdx, numDataSubpatternCaptures, dataCaps, dataName)
		if j == -1 {
			return errNameDidNotMatch
		}
		nb = j + (i - pb)
		pb = i + 1
	}
	return nil
}
