package trustschema

import (
	"testing"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/stretchr/testify/require"
)

func mustRule(t *testing.T, dataPattern, keyPattern string) Rule {
	t.Helper()
	r, err := RuleFromStrings(dataPattern, keyPattern)
	require.NoError(t, err)
	return r
}

func TestRuleStorePutGetRoundTrip(t *testing.T) {
	store := NewRuleStore(4)
	rule := mustRule(t, "(<>*)<data>", `\0<KEY><>`)
	require.NoError(t, store.Put("data-rule", rule))

	got, ok := store.Get("data-rule")
	require.True(t, ok)
	require.Equal(t, rule, got)
}

func TestRuleStorePutReplacesExistingNameWithoutConsumingCapacity(t *testing.T) {
	store := NewRuleStore(1)
	first := mustRule(t, "<a>", "<b>")
	second := mustRule(t, "<c>", "<d>")

	require.NoError(t, store.Put("rule", first))
	require.NoError(t, store.Put("rule", second))
	require.Equal(t, 1, store.Len())

	got, ok := store.Get("rule")
	require.True(t, ok)
	require.Equal(t, second, got)
}

func TestRuleStorePutRejectsWhenFull(t *testing.T) {
	store := NewRuleStore(1)
	require.NoError(t, store.Put("a", mustRule(t, "<a>", "<b>")))

	err := store.Put("b", mustRule(t, "<c>", "<d>"))
	require.Error(t, err)
	require.Equal(t, ndnerr.KindRuleStorageFull, ndnerr.KindOf(err))
}

func TestRuleStoreRemoveAbsentRuleIsNotAnError(t *testing.T) {
	store := NewRuleStore(1)
	store.Remove("does-not-exist")
	require.Equal(t, 0, store.Len())
}

func TestRuleStorePutRejectsOverlongName(t *testing.T) {
	store := NewRuleStore(1)
	longName := make([]byte, MaxRuleNameLength+1)
	for i := range longName {
		longName[i] = 'x'
	}
	err := store.Put(string(longName), mustRule(t, "<a>", "<b>"))
	require.Error(t, err)
	require.Equal(t, ndnerr.KindRuleNameTooLong, ndnerr.KindOf(err))
}

func TestVerifyNamePairAcceptsMatchingKeyName(t *testing.T) {
	rule := mustRule(t, "(<>*)<data>", `\0<KEY><>`)
	err := VerifyNamePair(rule, ndn.MustParseURI("/a/b/data"), ndn.MustParseURI("/a/b/KEY/ksk-1"), NewRuleStore(1))
	require.NoError(t, err)
}

func TestVerifyNamePairRejectsMismatchedKeyName(t *testing.T) {
	rule := mustRule(t, "(<>*)<data>", `\0<KEY><>`)
	err := VerifyNamePair(rule, ndn.MustParseURI("/a/b/data"), ndn.MustParseURI("/a/c/KEY/ksk-1"), NewRuleStore(1))
	require.Error(t, err)
	require.Equal(t, ndnerr.KindNameDidNotMatch, ndnerr.KindOf(err))
}

func TestVerifyNamePairRuleReferenceParsesButIsNotImplemented(t *testing.T) {
	store := NewRuleStore(4)
	issuerRule := mustRule(t, "(<>*)<KEY><>", "(<>*)<KEY><>")
	require.NoError(t, store.Put("issuer_rule", issuerRule))

	rule := mustRule(t, "(<>*)<data>", "issuer_rule()")
	err := VerifyNamePair(rule, ndn.MustParseURI("/a/b/data"), ndn.MustParseURI("/a/b/KEY/ksk-1"), store)
	require.ErrorIs(t, err, ErrRuleReferencingNotImplemented)
}

func TestVerifyNamePairRuleReferenceNotFound(t *testing.T) {
	store := NewRuleStore(4)
	rule := mustRule(t, "(<>*)<data>", "missing_rule()")
	err := VerifyNamePair(rule, ndn.MustParseURI("/a/b/data"), ndn.MustParseURI("/a/b/KEY/ksk-1"), store)
	require.Error(t, err)
	require.Equal(t, ndnerr.KindNameDidNotMatch, ndnerr.KindOf(err))
}

func TestVerifyNamePairRuleReferenceRejectsCaptureCountMismatch(t *testing.T) {
	store := NewRuleStore(4)
	// issuer_rule's data_pattern has zero subpattern captures.
	issuerRule := mustRule(t, "<KEY>", "<KEY>")
	require.NoError(t, store.Put("issuer_rule", issuerRule))

	// this rule's data_pattern has one subpattern capture, a mismatch.
	rule := mustRule(t, "(<>*)<data>", "issuer_rule()")
	err := VerifyNamePair(rule, ndn.MustParseURI("/a/b/data"), ndn.MustParseURI("/a/b/KEY"), store)
	require.Error(t, err)
	require.Equal(t, ndnerr.KindNameDidNotMatch, ndnerr.KindOf(err))
	require.NotErrorIs(t, err, ErrRuleReferencingNotImplemented)
}
