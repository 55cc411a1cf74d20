package trustschema

import (
	"testing"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/stretchr/testify/require"
)

func TestCheckDataNameAgainstPatternExactLiteralMatch(t *testing.T) {
	p, err := ParsePattern("<a><b><data>")
	require.NoError(t, err)
	caps, err := checkDataNameAgainstPattern(p, ndn.MustParseURI("/a/b/data"))
	require.NoError(t, err)
	require.Empty(t, caps)
}

func TestCheckDataNameAgainstPatternRejectsWrongLiteral(t *testing.T) {
	p, err := ParsePattern("<a><b><data>")
	require.NoError(t, err)
	_, err = checkDataNameAgainstPattern(p, ndn.MustParseURI("/a/x/data"))
	require.Error(t, err)
	require.Equal(t, ndnerr.KindNameDidNotMatch, ndnerr.KindOf(err))
}

func TestCheckDataNameAgainstPatternCapturesLeadingWildcardSequence(t *testing.T) {
	p, err := ParsePattern("(<>*)<data>")
	require.NoError(t, err)
	caps, err := checkDataNameAgainstPattern(p, ndn.MustParseURI("/a/b/c/data"))
	require.NoError(t, err)
	require.Len(t, caps, 1)
	require.Equal(t, 0, caps[0].begin)
	require.Equal(t, 3, caps[0].end)
}

func TestCheckDataNameAgainstPatternCapturesMiddleWildcardSequence(t *testing.T) {
	p, err := ParsePattern("<a>(<>*)<data>")
	require.NoError(t, err)
	caps, err := checkDataNameAgainstPattern(p, ndn.MustParseURI("/a/x/y/data"))
	require.NoError(t, err)
	require.Len(t, caps, 1)
	require.Equal(t, 1, caps[0].begin)
	require.Equal(t, 3, caps[0].end)
}

func TestCheckKeyNameAgainstPatternResolvesSubpatternBackReference(t *testing.T) {
	dataPattern, err := ParsePattern("(<>*)<data>")
	require.NoError(t, err)
	keyPattern, err := ParsePattern(`\0<KEY><>`)
	require.NoError(t, err)

	dataName := ndn.MustParseURI("/a/b/data")
	keyName := ndn.MustParseURI("/a/b/KEY/ksk-1")

	dataCaps, err := checkDataNameAgainstPattern(dataPattern, dataName)
	require.NoError(t, err)

	err = checkKeyNameAgainstPattern(keyPattern, keyName, dataPattern.NumSubpatternCaptures, dataCaps, dataName)
	require.NoError(t, err)
}

func TestCheckKeyNameAgainstPatternRejectsMismatchedSubpattern(t *testing.T) {
	dataPattern, err := ParsePattern("(<>*)<data>")
	require.NoError(t, err)
	keyPattern, err := ParsePattern(`\0<KEY><>`)
	require.NoError(t, err)

	dataName := ndn.MustParseURI("/a/b/data")
	keyName := ndn.MustParseURI("/a/c/KEY/ksk-1") // "c" != captured "b"

	dataCaps, err := checkDataNameAgainstPattern(dataPattern, dataName)
	require.NoError(t, err)

	err = checkKeyNameAgainstPattern(keyPattern, keyName, dataPattern.NumSubpatternCaptures, dataCaps, dataName)
	require.Error(t, err)
	require.Equal(t, ndnerr.KindNameDidNotMatch, ndnerr.KindOf(err))
}

func TestCheckKeyNameAgainstPatternRejectsOutOfRangeSubpatternIndex(t *testing.T) {
	dataPattern, err := ParsePattern("<data>") // zero captures
	require.NoError(t, err)
	keyPattern, err := ParsePattern(`\0<KEY>`)
	require.NoError(t, err)

	dataName := ndn.MustParseURI("/data")
	keyName := ndn.MustParseURI("/KEY")

	dataCaps, err := checkDataNameAgainstPattern(dataPattern, dataName)
	require.NoError(t, err)

	err = checkKeyNameAgainstPattern(keyPattern, keyName, dataPattern.NumSubpatternCaptures, dataCaps, dataName)
	require.Error(t, err)
	require.Equal(t, ndnerr.KindSubpatternIndexOutOfRange, ndnerr.KindOf(err))
}

func TestSpecializerComponentMatchesEmbeddedRegex(t *testing.T) {
	p, err := ParsePattern("[^ksk-]")
	require.NoError(t, err)
	caps, err := checkDataNameAgainstPattern(p, ndn.MustParseURI("/ksk-42"))
	require.NoError(t, err)
	require.Empty(t, caps)

	_, err = checkDataNameAgainstPattern(p, ndn.MustParseURI("/dsk-42"))
	require.Error(t, err)
}
