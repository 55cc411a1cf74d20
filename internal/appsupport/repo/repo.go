// Package repo implements a badger-backed store of Data packets reachable
// by name: an application that calls PutData can later have those packets
// served back out to any consumer that expresses an Interest for them,
// without keeping the producer itself alive.
package repo

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// Repo answers Interests for Data previously handed to PutData, by exact
// name, out of a badger key-value store. It registers itself as a FIB
// application callback rather than holding its own face.
type Repo struct {
	db    *badger.DB
	faces *face.Table
}

// Open opens (or creates) a badger database rooted at dir and returns a
// Repo that will send replies through faces.
func Open(dir string, faces *face.Table) (*Repo, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, ndnerr.Wrap(ndnerr.KindStorageFailure, err, "open repo store at %s", dir)
	}
	return &Repo{db: db, faces: faces}, nil
}

// Close releases the underlying badger database.
func (r *Repo) Close() error {
	if err := r.db.Close(); err != nil {
		return ndnerr.Wrap(ndnerr.KindStorageFailure, err, "close repo store")
	}
	return nil
}

func repoKey(name ndn.Name) []byte {
	return name.Encode(nil)
}

// PutData stores data, keyed by its exact name, replacing any previous
// Data stored under the same name.
func (r *Repo) PutData(data *ndn.Data) error {
	wire, err := data.Encode()
	if err != nil {
		return ndnerr.Wrap(ndnerr.KindStorageFailure, err, "encode data for repo store")
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(repoKey(data.Name), wire)
	})
	if err != nil {
		return ndnerr.Wrap(ndnerr.KindStorageFailure, err, "store data under %s", data.Name.String())
	}
	logger.Debug("repo stored data", logger.Name(data.Name.String()))
	return nil
}

// Get returns the stored Data for name, if any.
func (r *Repo) Get(name ndn.Name) (*ndn.Data, bool, error) {
	var wire []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(repoKey(name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			wire = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, ndnerr.Wrap(ndnerr.KindStorageFailure, err, "lookup %s in repo store", name.String())
	}
	if wire == nil {
		return nil, false, nil
	}
	data, err := ndn.DecodeData(wire)
	if err != nil {
		return nil, false, ndnerr.Wrap(ndnerr.KindStorageFailure, err, "decode stored data for %s", name.String())
	}
	return data, true, nil
}

// OnInterest is the fib.OnInterestFunc registered under the repo's
// prefix: on a hit it sends the stored Data directly to the incoming
// face and suppresses the normal forwarding path; on a miss it lets the
// Interest continue through the FIB's ordinary nexthop set.
func (r *Repo) OnInterest(interest *ndn.Interest, incomingFace uint16, userData any) fib.Strategy {
	data, ok, err := r.Get(interest.Name)
	if err != nil {
		logger.Warn("repo lookup failed", logger.Name(interest.Name.String()), logger.Err(err))
		return fib.StrategyMulticast
	}
	if !ok {
		return fib.StrategyMulticast
	}

	wire, err := data.Encode()
	if err != nil {
		logger.Warn("repo failed to encode stored data", logger.Name(interest.Name.String()), logger.Err(err))
		return fib.StrategyMulticast
	}
	f, ok := r.faces.Get(incomingFace)
	if !ok {
		return fib.StrategySuppress
	}
	if err := face.Send(f, wire); err != nil {
		logger.Warn("repo failed to send stored data", logger.FaceID(incomingFace), logger.Err(err))
	}
	return fib.StrategySuppress
}

// Register installs r.OnInterest as prefix's FIB application callback.
func (r *Repo) Register(f *fib.FIB, prefix ndn.Name) error {
	return f.RegisterPrefix(prefix, r.OnInterest, nil)
}
