// Package forwarder implements the Incoming Interest, Outgoing
// Interest, and Incoming Data pipelines that tie the Face Table, FIB,
// PIT, and Content Store together into a working NDN node.
package forwarder

import (
	"context"
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/cs"
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/metrics"
	"github.com/ndn-lite/ndnlite-go/internal/msgqueue"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/pit"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// Forwarder wires the Face Table, FIB, PIT, and Content Store into the
// three forwarding pipelines. Every incoming packet is first posted to
// Queue so the pipelines never run reentrantly off a face's own
// goroutine; call Run to drain it.
type Forwarder struct {
	Faces *face.Table
	FIB   *fib.FIB
	PIT   *pit.PIT
	CS    *cs.CS
	Queue *msgqueue.Queue

	// Metrics records drop reasons and content store hit/miss outcomes
	// as the pipelines run. A nil Metrics (the zero value) is valid:
	// every call below is a no-op on a nil receiver.
	Metrics *metrics.Metrics

	// Now, if set, overrides time.Now for tests.
	Now func() time.Time
}

// New returns a Forwarder wired to the given tables.
func New(faces *face.Table, f *fib.FIB, p *pit.PIT, c *cs.CS, q *msgqueue.Queue) *Forwarder {
	return &Forwarder{Faces: faces, FIB: f, PIT: p, CS: c, Queue: q}
}

func (fw *Forwarder) now() time.Time {
	if fw.Now != nil {
		return fw.Now()
	}
	return time.Now()
}

// Receive implements face.Receiver: every face hands incoming bytes to
// the forwarder this way. The packet is queued, not processed inline.
func (fw *Forwarder) Receive(f face.Face, pkt []byte) {
	faceID := f.ID()
	cp := append([]byte(nil), pkt...)
	if _, err := fw.Queue.Post(func(userData []byte) { fw.handle(faceID, userData) }, cp); err != nil {
		logger.Warn("dropping packet, message queue full", logger.FaceID(faceID), logger.Err(err))
		return
	}
	fw.Metrics.RecordMsgQueueDepth(fw.Queue.Len())
}

// Run drains the message queue until ctx is canceled, processing at
// most one event per turn so the forwarder stays cooperatively
// scheduled alongside whatever else shares the goroutine.
func (fw *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !fw.Queue.Dispatch() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}
}

// RunPITSweep periodically expires and times out PIT entries until ctx
// is canceled.
func (fw *Forwarder) RunPITSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fw.PIT.Sweep(fw.now())
		}
	}
}

func (fw *Forwarder) handle(faceID uint16, pkt []byte) {
	d := tlv.NewDecoder(pkt)
	typ, err := d.PeekType()
	if err != nil {
		logger.Warn("dropping malformed packet", logger.FaceID(faceID), logger.Err(err))
		fw.Metrics.RecordDrop(metrics.DropMalformed)
		return
	}
	switch typ {
	case ndn.TLVInterest:
		interest, err := ndn.DecodeInterest(pkt)
		if err != nil {
			logger.Warn("dropping malformed interest", logger.FaceID(faceID), logger.Err(err))
			fw.Metrics.RecordDrop(metrics.DropMalformed)
			return
		}
		fw.onIncomingInterest(faceID, interest)
	case ndn.TLVData:
		data, err := ndn.DecodeData(pkt)
		if err != nil {
			logger.Warn("dropping malformed data", logger.FaceID(faceID), logger.Err(err))
			fw.Metrics.RecordDrop(metrics.DropMalformed)
			return
		}
		fw.onIncomingData(faceID, data, pkt)
	default:
		logger.Warn("dropping packet of unknown top-level type", logger.FaceID(faceID))
		fw.Metrics.RecordDrop(metrics.DropMalformed)
	}
}

func (fw *Forwarder) onIncomingInterest(faceID uint16, interest *ndn.Interest) {
	now := fw.now()
	logger.Debug("incoming interest",
		logger.Pipeline("IncomingInterest"), logger.Name(interest.Name.String()),
		logger.FaceID(faceID), logger.Nonce(interest.Nonce))

	if entry, ok := fw.CS.Lookup(interest.Name, interest.CanBePrefix, interest.MustBeFresh, now); ok {
		logger.Debug("satisfied from content store", logger.Name(interest.Name.String()), logger.CacheHit(true))
		fw.Metrics.ObserveCSHit()
		fw.sendDataToFace(faceID, entry.Data)
		return
	}
	fw.Metrics.ObserveCSMiss()

	lifetime := time.Duration(interest.Lifetime) * time.Millisecond
	pe, isNew, duplicate, err := fw.PIT.FindOrInsert(interest.Name, interest.CanBePrefix, interest.MustBeFresh, interest.Nonce, lifetime, faceID, now)
	if err != nil {
		logger.Debug("dropping interest, PIT full", logger.Name(interest.Name.String()), logger.Err(err))
		fw.Metrics.RecordDrop(metrics.DropPITFull)
		return
	}
	if duplicate {
		logger.Debug("dropping interest, duplicate nonce", logger.Name(interest.Name.String()), logger.Nonce(interest.Nonce))
		fw.Metrics.RecordDrop(metrics.DropDuplicateNonce)
		fw.Metrics.RecordDeadNonceRejected()
		return
	}
	if !isNew {
		logger.Debug("aggregated into pending interest", logger.Name(interest.Name.String()))
		return
	}

	fibEntry, err := fw.FIB.LongestPrefixMatch(interest.Name)
	if err != nil {
		logger.Debug("no route, removing PIT entry", logger.Name(interest.Name.String()))
		fw.Metrics.RecordDrop(metrics.DropNoRoute)
		fw.PIT.Remove(pe)
		return
	}

	strategy := fib.StrategyMulticast
	if fibEntry.OnInterest != nil {
		strategy = fibEntry.OnInterest(interest, faceID, fibEntry.UserData)
	}
	if strategy == fib.StrategySuppress {
		return
	}

	if interest.HopLimit != nil && *interest.HopLimit == 0 {
		logger.Debug("not forwarding interest, hop limit exhausted", logger.Name(interest.Name.String()), logger.FaceID(faceID))
		fw.Metrics.RecordDrop(metrics.DropHopLimit)
		return
	}

	fw.forwardInterest(interest, pe, fibEntry, faceID)
}

func (fw *Forwarder) forwardInterest(interest *ndn.Interest, pe *pit.Entry, fibEntry *fib.Entry, incomingFace uint16) {
	out := *interest
	if interest.HopLimit != nil {
		hl := *interest.HopLimit - 1
		out.HopLimit = &hl
	}
	wire, err := out.Encode()
	if err != nil {
		logger.Warn("failed to re-encode outgoing interest", logger.Name(interest.Name.String()), logger.Err(err))
		return
	}
	sent := fw.Faces.Multicast(fibEntry.Nexthop, incomingFace, wire)
	pe.Outgoing = pe.Outgoing.Union(sent)
}

func (fw *Forwarder) onIncomingData(faceID uint16, data *ndn.Data, raw []byte) {
	now := fw.now()
	logger.Debug("incoming data", logger.Pipeline("IncomingData"), logger.Name(data.Name.String()), logger.FaceID(faceID))

	matches := fw.PIT.Match(data.Name)
	if len(matches) == 0 {
		logger.Debug("dropping data, no pending interest", logger.Name(data.Name.String()))
		return
	}

	if err := fw.CS.PutData(data, now); err != nil {
		logger.Warn("failed to cache data", logger.Name(data.Name.String()), logger.Err(err))
	}

	var satisfied face.Bitset
	for _, pe := range matches {
		satisfied = satisfied.Union(pe.Incoming)
		fw.PIT.Remove(pe)
	}
	fw.Faces.Multicast(satisfied, faceID, raw)
}

func (fw *Forwarder) sendDataToFace(faceID uint16, data *ndn.Data) {
	wire, err := data.Encode()
	if err != nil {
		logger.Warn("failed to encode data for content store hit", logger.Name(data.Name.String()), logger.Err(err))
		return
	}
	f, ok := fw.Faces.Get(faceID)
	if !ok {
		return
	}
	if err := face.Send(f, wire); err != nil {
		logger.Warn("failed to send data", logger.FaceID(faceID), logger.Err(err))
	}
}
