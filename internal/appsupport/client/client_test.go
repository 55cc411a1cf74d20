package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
)

// echoForwarder plays the forwarder's role in tests: whatever Interest
// is handed to Receive, it immediately hands a satisfying Data packet
// back to the same face, as if a producer replied instantly.
type echoForwarder struct {
	reply func(interest *ndn.Interest) *ndn.Data
}

func (e *echoForwarder) Receive(f face.Face, pkt []byte) {
	interest, err := ndn.DecodeInterest(pkt)
	if err != nil {
		return
	}
	data := e.reply(interest)
	if data == nil {
		return
	}
	wire, err := data.Encode()
	if err != nil {
		return
	}
	_ = f.Send(wire)
}

func TestExpressInvokesOnDataWithMatchingReply(t *testing.T) {
	faces := face.NewTable(0)
	fw := &echoForwarder{reply: func(interest *ndn.Interest) *ndn.Data {
		return &ndn.Data{Name: interest.Name, Content: []byte("pong")}
	}}
	c, err := New(faces, fw)
	require.NoError(t, err)

	interest := ndn.NewInterest(ndn.MustParseURI("/ping"))
	interest.Lifetime = 1000

	var got *ndn.Data
	done := make(chan struct{})
	c.Express(interest, func(d *ndn.Data) {
		got = d
		close(done)
	}, func() {
		close(done)
	})

	<-done
	require.NotNil(t, got)
	require.Equal(t, []byte("pong"), got.Content)
}

func TestExpressInvokesOnTimeoutWhenNoReply(t *testing.T) {
	faces := face.NewTable(0)
	fw := &echoForwarder{reply: func(interest *ndn.Interest) *ndn.Data { return nil }}
	c, err := New(faces, fw)
	require.NoError(t, err)

	interest := ndn.NewInterest(ndn.MustParseURI("/silence"))
	interest.Lifetime = 10

	timedOut := make(chan struct{})
	c.Express(interest, func(d *ndn.Data) {
		t.Fatal("unexpected data")
	}, func() {
		close(timedOut)
	})

	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("expected timeout callback")
	}
}
