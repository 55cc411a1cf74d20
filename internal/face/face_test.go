package face

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableAddAssignsIDs(t *testing.T) {
	tbl := NewTable(2)
	f1 := NewAppFace(nil)
	f2 := NewAppFace(nil)

	id1, err := tbl.Add(f1)
	require.NoError(t, err)
	id2, err := tbl.Add(f2)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	_, err = tbl.Add(NewAppFace(nil))
	require.Error(t, err)
}

func TestTableRemoveDestroysFace(t *testing.T) {
	tbl := NewTable(0)
	f := NewAppFace(nil)
	id, err := tbl.Add(f)
	require.NoError(t, err)

	tbl.Remove(id)
	_, ok := tbl.Get(id)
	require.False(t, ok)
	require.Equal(t, StateDestroyed, f.State())
}

func TestBitsetPopLSBAscendingOrder(t *testing.T) {
	var b Bitset
	b = b.Set(5).Set(1).Set(3)
	var order []uint16
	b.Each(func(id uint16) { order = append(order, id) })
	require.Equal(t, []uint16{1, 3, 5}, order)
}

func TestBitsetExceptAndUnion(t *testing.T) {
	var a, c Bitset
	a = a.Set(1).Set(2).Set(3)
	c = c.Set(2)
	require.True(t, a.Except(c).Has(1))
	require.False(t, a.Except(c).Has(2))
	require.True(t, a.Union(c.Set(9)).Has(9))
}

func TestAppFaceSendInvokesCallback(t *testing.T) {
	var got []byte
	f := NewAppFace(func(pkt []byte) error {
		got = pkt
		return nil
	})
	require.NoError(t, Send(f, []byte("hi")))
	require.Equal(t, []byte("hi"), got)
	require.Equal(t, StateUp, f.State())
}

func TestAppFaceSendAfterDestroyFails(t *testing.T) {
	f := NewAppFace(nil)
	require.NoError(t, f.Destroy())
	require.Error(t, f.Send([]byte("x")))
}

func TestTableEntriesListsRegisteredFaces(t *testing.T) {
	tbl := NewTable(0)
	f := NewAppFace(nil)
	id, err := tbl.Add(f)
	require.NoError(t, err)

	entries := tbl.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, id, entries[0].ID())
	require.Equal(t, TypeApp, entries[0].Type())
}
