package msgqueue

import (
	"testing"

	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/stretchr/testify/require"
)

func TestPostThenDispatchRunsInOrder(t *testing.T) {
	q := New(0)
	var order []int
	_, err := q.Post(func([]byte) { order = append(order, 1) }, nil)
	require.NoError(t, err)
	_, err = q.Post(func([]byte) { order = append(order, 2) }, nil)
	require.NoError(t, err)

	require.Equal(t, 2, q.Process(10))
	require.Equal(t, []int{1, 2}, order)
}

func TestCancelSkipsCallback(t *testing.T) {
	q := New(0)
	called := false
	id, err := q.Post(func([]byte) { called = true }, nil)
	require.NoError(t, err)
	require.True(t, q.Cancel(id))

	require.True(t, q.Dispatch())
	require.False(t, called)
}

func TestCancelAfterDispatchReturnsFalse(t *testing.T) {
	q := New(0)
	id, err := q.Post(func([]byte) {}, nil)
	require.NoError(t, err)
	require.True(t, q.Dispatch())
	require.False(t, q.Cancel(id))
}

func TestEmptyAfterDrainingAllEvents(t *testing.T) {
	q := New(0)
	_, err := q.Post(func([]byte) {}, nil)
	require.NoError(t, err)
	require.False(t, q.Empty())
	require.Equal(t, 1, q.Process(10))
	require.True(t, q.Empty())
}

func TestPostRejectsWhenBudgetExhausted(t *testing.T) {
	q := New(entryOverhead + 4)
	_, err := q.Post(func([]byte) {}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = q.Post(func([]byte) {}, nil)
	require.Error(t, err)
	require.Equal(t, ndnerr.KindMsgQueueFull, ndnerr.KindOf(err))
}

func TestUserDataDeliveredToCallback(t *testing.T) {
	q := New(0)
	var got []byte
	_, err := q.Post(func(d []byte) { got = d }, []byte("hello"))
	require.NoError(t, err)
	require.True(t, q.Dispatch())
	require.Equal(t, []byte("hello"), got)
}

func TestBudgetReclaimedAfterDrain(t *testing.T) {
	q := New(entryOverhead + 4)
	_, err := q.Post(func([]byte) {}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 1, q.Process(10))
	require.True(t, q.Empty())

	_, err = q.Post(func([]byte) {}, []byte{5, 6, 7, 8})
	require.NoError(t, err, "budget should be reclaimed once the queue drains")
}
