package netface

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	pkt []byte
	got chan struct{}
}

func newRecorder() *recorder { return &recorder{got: make(chan struct{}, 1)} }

func (r *recorder) Receive(f face.Face, pkt []byte) {
	r.mu.Lock()
	r.pkt = append([]byte(nil), pkt...)
	r.mu.Unlock()
	select {
	case r.got <- struct{}{}:
	default:
	}
}

func (r *recorder) wait(t *testing.T) []byte {
	t.Helper()
	select {
	case <-r.got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reassembled packet")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.pkt...)
}

func TestSendReceiveRoundTripSmallPacket(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	recv := newRecorder()
	faceA := New(a, 1024, nil)
	faceB := New(b, 1024, recv)
	require.NoError(t, faceA.Up())
	require.NoError(t, faceB.Up())

	pkt := []byte("hello ndn")
	require.NoError(t, faceA.Send(pkt))
	require.Equal(t, pkt, recv.wait(t))
}

func TestSendReceiveRoundTripFragmentedPacket(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	recv := newRecorder()
	faceA := New(a, 32, nil)
	faceB := New(b, 32, recv)
	require.NoError(t, faceA.Up())
	require.NoError(t, faceB.Up())

	pkt := make([]byte, 200)
	for i := range pkt {
		pkt[i] = byte(i)
	}
	require.NoError(t, faceA.Send(pkt))
	require.Equal(t, pkt, recv.wait(t))
}

func TestDestroyClosesConnection(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	faceA := New(a, 1024, nil)
	require.NoError(t, faceA.Up())
	require.NoError(t, faceA.Destroy())
	require.Equal(t, face.StateDestroyed, faceA.State())
	require.Error(t, faceA.Send([]byte("x")))
}
