package nametree

import (
	"testing"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/stretchr/testify/require"
)

func TestFindOrInsertAndFind(t *testing.T) {
	tree := New(0)
	n := ndn.MustParseURI("/a/b/c")
	e, err := tree.FindOrInsert(n)
	require.NoError(t, err)
	require.NotNil(t, e)

	found, ok := tree.Find(n)
	require.True(t, ok)
	require.Same(t, e, found)

	_, ok = tree.Find(ndn.MustParseURI("/a/b"))
	require.True(t, ok) // intermediate node exists

	_, ok = tree.Find(ndn.MustParseURI("/a/b/d"))
	require.False(t, ok)
}

func TestLongestPrefixMatch(t *testing.T) {
	tree := New(0)
	ab, err := tree.FindOrInsert(ndn.MustParseURI("/a/b"))
	require.NoError(t, err)
	tree.SetSlot(ab, KindFIB, 1)

	abc, err := tree.FindOrInsert(ndn.MustParseURI("/a/b/c"))
	require.NoError(t, err)

	match, ok := tree.LongestPrefixMatch(ndn.MustParseURI("/a/b/c/d"), KindFIB)
	require.True(t, ok)
	require.Same(t, ab, match)

	// installing a deeper FIB slot makes it win
	tree.SetSlot(abc, KindFIB, 2)
	match, ok = tree.LongestPrefixMatch(ndn.MustParseURI("/a/b/c/d"), KindFIB)
	require.True(t, ok)
	require.Same(t, abc, match)
}

func TestNoMatchWhenNoSlot(t *testing.T) {
	tree := New(0)
	_, err := tree.FindOrInsert(ndn.MustParseURI("/a/b"))
	require.NoError(t, err)
	_, ok := tree.LongestPrefixMatch(ndn.MustParseURI("/a/b"), KindFIB)
	require.False(t, ok)
}

func TestClearSlotReclaimsEmptyEntries(t *testing.T) {
	tree := New(0)
	e, err := tree.FindOrInsert(ndn.MustParseURI("/a/b"))
	require.NoError(t, err)
	tree.SetSlot(e, KindPIT, 5)
	require.Equal(t, 2, tree.Len())

	tree.ClearSlot(e, KindPIT)
	_, ok := tree.Find(ndn.MustParseURI("/a/b"))
	require.False(t, ok)
	require.Equal(t, 0, tree.Len())
}

func TestCapacityFull(t *testing.T) {
	tree := New(1)
	_, err := tree.FindOrInsert(ndn.MustParseURI("/a"))
	require.NoError(t, err)
	_, err = tree.FindOrInsert(ndn.MustParseURI("/b"))
	require.Error(t, err)
}
