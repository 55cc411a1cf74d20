// Package client lets an in-process component (the security bootstrap
// flow, a future app-layer consumer) express Interests through a
// running forwarder and receive the satisfying Data back by callback,
// the same role repo plays for answering Interests rather than issuing
// them.
package client

import (
	"sync"
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// Client expresses Interests into a forwarder through a dedicated
// AppFace and dispatches replies back to whichever call is still
// waiting on that Interest's name.
type Client struct {
	appFace *face.AppFace
	faces   *face.Table
	fw      face.Receiver

	mu      sync.Mutex
	pending map[string]func(*ndn.Data)
}

// New registers a fresh AppFace in faces and returns a Client that
// injects encoded Interests into fw (normally a *forwarder.Forwarder)
// as if they arrived on that face.
func New(faces *face.Table, fw face.Receiver) (*Client, error) {
	c := &Client{faces: faces, fw: fw, pending: make(map[string]func(*ndn.Data))}
	c.appFace = face.NewAppFace(c.onSend)
	if _, err := faces.Add(c.appFace); err != nil {
		return nil, ndnerr.Wrap(ndnerr.KindFaceTableFull, err, "register client app face")
	}
	if err := c.appFace.Up(); err != nil {
		return nil, err
	}
	return c, nil
}

// onSend is called by the forwarder whenever it has a packet to deliver
// back to the app face; for this client that's always the Data
// satisfying a pending Interest.
func (c *Client) onSend(pkt []byte) error {
	data, err := ndn.DecodeData(pkt)
	if err != nil {
		logger.Warn("client received undecodable packet", logger.Err(err))
		return nil
	}
	key := data.Name.String()
	c.mu.Lock()
	onData, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()
	if ok {
		onData(data)
	}
	return nil
}

// Express encodes interest and injects it into the forwarder as if it
// arrived on the client's app face, matching bootstrap.ExpressFunc and
// signature.ExpressFunc's continuation-passing shape. onTimeout fires
// if no Data with the parameterized name arrives within the Interest's
// Lifetime.
func (c *Client) Express(interest *ndn.Interest, onData func(*ndn.Data), onTimeout func()) {
	wire, err := interest.Encode()
	if err != nil {
		logger.Warn("client failed to encode interest", logger.Err(err))
		onTimeout()
		return
	}

	key := interest.Name.String()
	c.mu.Lock()
	c.pending[key] = onData
	c.mu.Unlock()

	lifetime := time.Duration(interest.Lifetime) * time.Millisecond
	if interest.Lifetime == 0 {
		lifetime = 4 * time.Second
	}
	time.AfterFunc(lifetime, func() {
		c.mu.Lock()
		_, stillPending := c.pending[key]
		delete(c.pending, key)
		c.mu.Unlock()
		if stillPending {
			onTimeout()
		}
	})

	c.fw.Receive(c.appFace, wire)
}
