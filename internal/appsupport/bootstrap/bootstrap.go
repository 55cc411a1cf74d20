// Package bootstrap drives the one-time sign-on exchange that turns a
// freshly provisioned device into one that can sign and verify NDN
// packets: it installs a trust anchor, derives a shared channel key
// over ECDH, and obtains an anchor-signed certificate for a locally
// generated identity keypair.
//
// The exchange runs in two round trips because a sign-on reply has to
// fit inside a single Data packet's Content, which is capped at
// ndn.MaxDataContent bytes — too small to carry both session-setup
// material and a full certificate in one packet.
package bootstrap

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/ndn-lite/ndnlite-go/internal/keystorage"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/signature"
	"github.com/ndn-lite/ndnlite-go/internal/tlv"
)

// TLV types for the sign-on payloads packed into Interest.Parameters and
// Data.Content, drawn from the service-discovery/security-bootstrapping
// application-defined sub-range (160-179; see SPEC_FULL.md §3).
const (
	tlvEcdhN1PublicKey   = 160
	tlvIdentityPublicKey = 161
	tlvAnchorPublicKey   = 162
	tlvEcdhN2PublicKey   = 163
	tlvSalt              = 164
)

const hkdfInfo = "ndn-lite-go sign-on channel key"

// ExpressFunc sends interest into the network and invokes onData when a
// reply arrives or onTimeout if none does before the interest's
// lifetime elapses. It is supplied by whoever wires a Bootstrapper to a
// running forwarder.
type ExpressFunc func(interest *ndn.Interest, onData func(*ndn.Data), onTimeout func())

// Bootstrapper runs the sign-on protocol for one device identity.
type Bootstrapper struct {
	Store           *keystorage.Store
	Express         ExpressFunc
	TrustAnchorName ndn.Name // pre-provisioned out of band, not carried on the wire
	SignOnPrefix    ndn.Name // e.g. /ndn/sign-on
}

// New returns a Bootstrapper that installs results into store and
// expresses Interests through express.
func New(store *keystorage.Store, express ExpressFunc, trustAnchorName, signOnPrefix ndn.Name) *Bootstrapper {
	return &Bootstrapper{Store: store, Express: express, TrustAnchorName: trustAnchorName, SignOnPrefix: signOnPrefix}
}

// Run performs the sign-on exchange for deviceID: it generates a fresh
// ECDSA identity keypair and an ephemeral ECDH share, expresses the
// sign-on Interest, installs the trust anchor and a derived channel key
// from the first reply, then requests and installs an anchor-signed
// certificate over the new identity key. onDone is invoked exactly once.
func (b *Bootstrapper) Run(deviceID string, onDone func(error)) {
	if b.Express == nil {
		onDone(ndnerr.New(ndnerr.KindBootstrapFailure, "no transport wired for sign-on"))
		return
	}

	identityPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "generate identity keypair"))
		return
	}
	identityPub := elliptic.Marshal(elliptic.P256(), identityPriv.X, identityPriv.Y)

	ecdhPriv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "generate ECDH keypair"))
		return
	}

	signOnName, err := b.SignOnPrefix.Append(ndn.GenericComponent(deviceID))
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "build sign-on interest name"))
		return
	}
	interest := ndn.NewInterest(signOnName)
	interest.MustBeFresh = true
	interest.Parameters = packSignOnParams(ecdhPriv.PublicKey().Bytes(), identityPub)
	paramName, err := interest.WithParametersDigest()
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "digest sign-on parameters"))
		return
	}
	interest.Name = paramName

	logger.Debug("expressing sign-on interest", logger.Name(signOnName.String()))
	b.Express(interest, func(reply *ndn.Data) {
		b.onSignOnReply(deviceID, identityPriv, identityPub, ecdhPriv, reply, onDone)
	}, func() {
		onDone(ndnerr.New(ndnerr.KindBootstrapFailure, "sign-on to %s timed out", signOnName.String()))
	})
}

func (b *Bootstrapper) onSignOnReply(
	deviceID string,
	identityPriv *ecdsa.PrivateKey,
	identityPub []byte,
	ecdhPriv *ecdh.PrivateKey,
	reply *ndn.Data,
	onDone func(error),
) {
	anchorPub, n2Pub, salt, err := decodeSignOnReply(reply.Content)
	if err != nil {
		onDone(err)
		return
	}

	n2, err := ecdh.P256().NewPublicKey(n2Pub)
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "parse controller ECDH public key"))
		return
	}
	shared, err := ecdhPriv.ECDH(n2)
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "compute ECDH shared secret"))
		return
	}

	channelKey := make([]byte, 32)
	kdf := hkdf.New(sha256.New, shared, salt, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, channelKey); err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "derive channel key"))
		return
	}

	b.Store.SetTrustAnchor(b.TrustAnchorName, anchorPub)
	channelKeyID := keyIDFromPublicKey(identityPub)
	if !b.Store.AddHMACKey(channelKeyID, channelKey) {
		onDone(ndnerr.New(ndnerr.KindBootstrapFailure, "HMAC key table is full"))
		return
	}
	logger.Info("trust anchor and channel key installed", logger.Name(b.TrustAnchorName.String()))

	b.requestCertificate(deviceID, identityPriv, identityPub, onDone)
}

// requestCertificate builds an unsigned certificate template for the
// caller's identity, sends its to-be-signed bytes as a second sign-on
// round, and installs the completed certificate once the anchor's
// signature comes back.
func (b *Bootstrapper) requestCertificate(deviceID string, identityPriv *ecdsa.PrivateKey, identityPub []byte, onDone func(error)) {
	identityName, err := b.TrustAnchorName.Append(ndn.GenericComponent(deviceID))
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "build identity name"))
		return
	}
	keyID := keyIDFromPublicKey(identityPub)
	keyIDComponent, err := keyIDComponent(keyID)
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "encode key id component"))
		return
	}
	certName, err := identityName.Append(ndn.GenericComponent("KEY"))
	if err == nil {
		certName, err = certName.Append(keyIDComponent)
	}
	if err == nil {
		certName, err = certName.Append(ndn.GenericComponent("anchor"))
	}
	if err == nil {
		certName, err = certName.Append(ndn.VersionComponent(1))
	}
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "build certificate name"))
		return
	}

	anchorKeyLocator := b.TrustAnchorName
	cert := &ndn.Data{
		Name:    certName,
		Content: identityPub,
		SigInfo: &ndn.SignatureInfo{Type: ndn.SignatureEcdsaSha256, KeyLocator: &anchorKeyLocator},
	}
	toBeSigned := cert.SignedPortion()

	certReqName, err := b.SignOnPrefix.Append(ndn.GenericComponent(deviceID))
	if err == nil {
		certReqName, err = certReqName.Append(ndn.GenericComponent("cert"))
	}
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "build certificate request name"))
		return
	}
	interest := ndn.NewInterest(certReqName)
	interest.MustBeFresh = true
	interest.Parameters = toBeSigned
	paramName, err := interest.WithParametersDigest()
	if err != nil {
		onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "digest certificate request parameters"))
		return
	}
	interest.Name = paramName

	logger.Debug("requesting certificate", logger.Name(certName.String()))
	b.Express(interest, func(reply *ndn.Data) {
		cert.SigValue = append([]byte(nil), reply.Content...)
		_, anchorPub := b.Store.TrustAnchor()
		if err := signature.VerifyAnchorSignature(anchorPub, toBeSigned, cert.SigValue); err != nil {
			onDone(ndnerr.Wrap(ndnerr.KindBootstrapFailure, err, "reject issued certificate for %s", certName.String()))
			return
		}
		if !b.Store.AddECCKeypair(keyID, identityPub, identityPriv.D.FillBytes(make([]byte, 32))) {
			onDone(ndnerr.New(ndnerr.KindBootstrapFailure, "ECC key table is full"))
			return
		}
		b.Store.SetSelfIdentity(identityName, identityPriv.D.FillBytes(make([]byte, 32)), cert)
		logger.Info("identity certificate installed", logger.Name(certName.String()))
		onDone(nil)
	}, func() {
		onDone(ndnerr.New(ndnerr.KindBootstrapFailure, "certificate request for %s timed out", certName.String()))
	})
}

func keyIDFromPublicKey(pub []byte) uint32 {
	sum := sha256.Sum256(pub)
	return uint32(sum[0])<<24 | uint32(sum[1])<<16 | uint32(sum[2])<<8 | uint32(sum[3])
}

func keyIDComponent(keyID uint32) (ndn.Component, error) {
	buf := make([]byte, 4)
	big.NewInt(int64(keyID)).FillBytes(buf)
	return ndn.NewComponent(ndn.TLVGenericNameComponent, buf)
}

func packSignOnParams(ecdhPub, identityPub []byte) []byte {
	dst := tlv.AppendBlock(nil, tlvEcdhN1PublicKey, ecdhPub)
	dst = tlv.AppendBlock(dst, tlvIdentityPublicKey, identityPub)
	return dst
}

// unpackSignOnParams is the producer side's counterpart to
// packSignOnParams; kept here as the documented wire contract for
// whatever process answers the sign-on Interest.
func unpackSignOnParams(params []byte) (ecdhPub, identityPub []byte, err error) {
	d := tlv.NewDecoder(params)
	for !d.Empty() {
		typ, peekErr := d.PeekType()
		if peekErr != nil {
			return nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, peekErr, "parse sign-on parameters")
		}
		switch typ {
		case tlvEcdhN1PublicKey:
			_, v, e := d.ReadBlock(tlvEcdhN1PublicKey)
			if e != nil {
				return nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "read N1 public key")
			}
			ecdhPub = append([]byte(nil), v...)
		case tlvIdentityPublicKey:
			_, v, e := d.ReadBlock(tlvIdentityPublicKey)
			if e != nil {
				return nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "read identity public key")
			}
			identityPub = append([]byte(nil), v...)
		default:
			if e := d.SkipBlock(); e != nil {
				return nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "skip unknown sign-on parameter")
			}
		}
	}
	if ecdhPub == nil || identityPub == nil {
		return nil, nil, ndnerr.New(ndnerr.KindBootstrapFailure, "sign-on parameters missing a required field")
	}
	return ecdhPub, identityPub, nil
}

// packSignOnReply is the producer side's counterpart to decodeSignOnReply.
func packSignOnReply(anchorPub, n2Pub, salt []byte) []byte {
	dst := tlv.AppendBlock(nil, tlvAnchorPublicKey, anchorPub)
	dst = tlv.AppendBlock(dst, tlvEcdhN2PublicKey, n2Pub)
	dst = tlv.AppendBlock(dst, tlvSalt, salt)
	return dst
}

func decodeSignOnReply(content []byte) (anchorPub, n2Pub, salt []byte, err error) {
	d := tlv.NewDecoder(content)
	for !d.Empty() {
		typ, peekErr := d.PeekType()
		if peekErr != nil {
			return nil, nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, peekErr, "parse sign-on reply")
		}
		switch typ {
		case tlvAnchorPublicKey:
			_, v, e := d.ReadBlock(tlvAnchorPublicKey)
			if e != nil {
				return nil, nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "read anchor public key")
			}
			anchorPub = append([]byte(nil), v...)
		case tlvEcdhN2PublicKey:
			_, v, e := d.ReadBlock(tlvEcdhN2PublicKey)
			if e != nil {
				return nil, nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "read controller ECDH public key")
			}
			n2Pub = append([]byte(nil), v...)
		case tlvSalt:
			_, v, e := d.ReadBlock(tlvSalt)
			if e != nil {
				return nil, nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "read salt")
			}
			salt = append([]byte(nil), v...)
		default:
			if e := d.SkipBlock(); e != nil {
				return nil, nil, nil, ndnerr.Wrap(ndnerr.KindBootstrapFailure, e, "skip unknown sign-on reply field")
			}
		}
	}
	if anchorPub == nil || n2Pub == nil || salt == nil {
		return nil, nil, nil, ndnerr.New(ndnerr.KindBootstrapFailure, "sign-on reply missing a required field")
	}
	return anchorPub, n2Pub, salt, nil
}
