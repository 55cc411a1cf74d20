// Package signature implements the sign/verify engine: a chain of
// pluggable algorithm providers dispatched by SignatureInfo.Type, with
// a built-in flow for fetching a producer's certificate when its key
// is not yet known locally.
package signature

import (
	"github.com/ndn-lite/ndnlite-go/internal/keystorage"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// Provider implements one signature algorithm (digest, HMAC, ECDSA).
// Sign and Verify receive the signed portion of the packet (everything
// but the SignatureValue) and the key material resolved for keyID.
type Provider interface {
	// Type is the SignatureType this provider handles (SignatureDigestSha256 etc).
	Type() uint8

	// Sign produces a SignatureValue over signedPortion using the key
	// identified by keyID, which the caller must have already resolved
	// from keystorage.
	Sign(store *keystorage.Store, keyID uint32, signedPortion []byte) ([]byte, error)

	// Verify reports whether sigValue is a valid signature over
	// signedPortion under the key identified by keyID. A KindKeyNotFound
	// error means the key is not yet known locally; callers may attempt
	// a certificate fetch and retry.
	Verify(store *keystorage.Store, keyID uint32, signedPortion, sigValue []byte) error
}

// ExpressFunc expresses a CanBePrefix+MustBeFresh Interest toward name
// to fetch a certificate, invoking onData when a reply arrives or
// onTimeout if none does. It is supplied by whoever wires the Engine to
// a running forwarder (see internal/appsupport).
type ExpressFunc func(name ndn.Name, onData func(*ndn.Data), onTimeout func())

// Engine dispatches Sign/Verify calls to the provider registered for a
// packet's declared SignatureType, and drives the cert-fetch-on-missing-key
// flow for asymmetric signatures.
type Engine struct {
	Store     *keystorage.Store
	Providers map[uint8]Provider
	Express   ExpressFunc
}

// NewEngine returns an Engine with the three built-in providers
// (DigestSha256, HmacSha256, EcdsaSha256) registered.
func NewEngine(store *keystorage.Store, express ExpressFunc) *Engine {
	e := &Engine{Store: store, Providers: make(map[uint8]Provider), Express: express}
	e.Register(DigestSha256{})
	e.Register(HmacSha256{})
	e.Register(EcdsaSha256{})
	return e
}

// Register installs or replaces the provider for its declared Type.
func (e *Engine) Register(p Provider) { e.Providers[p.Type()] = p }

func (e *Engine) providerFor(typ uint8) (Provider, error) {
	p, ok := e.Providers[typ]
	if !ok {
		return nil, ndnerr.New(ndnerr.KindUnsupportedSignatureType, "no provider registered for signature type %d", typ)
	}
	return p, nil
}

func keyIDOf(info *ndn.SignatureInfo) (uint32, error) {
	if info.KeyLocator == nil {
		return 0, ndnerr.New(ndnerr.KindKeyNotFound, "signature has no key locator")
	}
	return keystorage.KeyIDFromKeyName(*info.KeyLocator)
}

// VerifyData verifies data's signature, synchronously when the key is
// already known. If the SignatureType is EcdsaSha256 and the signing
// key is not yet trusted, it expresses a certificate-fetch Interest
// toward the KeyLocator name and calls onVerified asynchronously once
// the fetched certificate has itself been validated against the trust
// anchor and the original signature re-checked.
func (e *Engine) VerifyData(data *ndn.Data, onVerified func(error)) {
	if data.SigInfo == nil {
		onVerified(ndnerr.New(ndnerr.KindVerificationFailure, "data has no SignatureInfo"))
		return
	}
	e.verify(data.SigInfo, data.SignedPortion(), data.SigValue, onVerified)
}

// VerifyInterest verifies a signed Interest the same way VerifyData does.
func (e *Engine) VerifyInterest(interest *ndn.Interest, onVerified func(error)) {
	if interest.SigInfo == nil {
		onVerified(ndnerr.New(ndnerr.KindVerificationFailure, "interest has no SignatureInfo"))
		return
	}
	e.verify(interest.SigInfo, interest.SignedPortion(), interest.SigValue, onVerified)
}

func (e *Engine) verify(info *ndn.SignatureInfo, signedPortion, sigValue []byte, onVerified func(error)) {
	provider, err := e.providerFor(info.Type)
	if err != nil {
		onVerified(err)
		return
	}

	if info.Type == SignatureDigestSha256 {
		onVerified(provider.Verify(e.Store, 0, signedPortion, sigValue))
		return
	}

	keyID, err := keyIDOf(info)
	if err != nil {
		onVerified(err)
		return
	}

	err = provider.Verify(e.Store, keyID, signedPortion, sigValue)
	if err == nil || ndnerr.KindOf(err) != ndnerr.KindKeyNotFound {
		onVerified(err)
		return
	}
	if info.Type != SignatureEcdsaSha256 || e.Express == nil || info.KeyLocator == nil {
		onVerified(err)
		return
	}

	logger.Debug("key unknown, fetching certificate", logger.Name(info.KeyLocator.String()))
	locator := *info.KeyLocator
	e.Express(locator, func(cert *ndn.Data) {
		if installErr := e.installCertificate(cert); installErr != nil {
			onVerified(installErr)
			return
		}
		onVerified(provider.Verify(e.Store, keyID, signedPortion, sigValue))
	}, func() {
		onVerified(ndnerr.New(ndnerr.KindKeyNotFound, "certificate fetch for %s timed out", locator.String()))
	})
}

// installCertificate verifies cert against the trust anchor and, if
// valid, installs its public key into the trusted-key table.
func (e *Engine) installCertificate(cert *ndn.Data) error {
	if cert.SigInfo == nil {
		return ndnerr.New(ndnerr.KindVerificationFailure, "certificate has no SignatureInfo")
	}
	_, anchorPub := e.Store.TrustAnchor()
	if len(anchorPub) == 0 {
		return ndnerr.New(ndnerr.KindKeyNotFound, "no trust anchor installed")
	}
	if err := VerifyAnchorSignature(anchorPub, cert.SignedPortion(), cert.SigValue); err != nil {
		return err
	}
	certKeyID, err := keystorage.KeyIDFromCertName(cert.Name)
	if err != nil {
		return err
	}
	publicKey := cert.Content
	if !e.Store.AddTrustedKey(certKeyID, cert.Name, publicKey) {
		return ndnerr.New(ndnerr.KindKeyNotFound, "trusted key table is full")
	}
	return nil
}

// VerifyAnchorSignature checks that sigValue is a valid ECDSA-P256-SHA256
// signature over signedPortion under anchorPublicKey. Exported so that
// callers provisioning an identity against an out-of-band trust anchor
// (see internal/appsupport/bootstrap) can confirm a freshly issued
// certificate actually chains to that anchor before trusting it, without
// needing a full Engine and keystorage.Store around it.
func VerifyAnchorSignature(anchorPublicKey, signedPortion, sigValue []byte) error {
	if err := verifyEcdsaRaw(anchorPublicKey, signedPortion, sigValue); err != nil {
		return ndnerr.New(ndnerr.KindVerificationFailure, "certificate does not chain to trust anchor: %v", err)
	}
	return nil
}

// SelfCertificatePrefix returns the name under which the Engine should
// answer certificate-fetch Interests for its own identity: <identity>/KEY.
func SelfCertificatePrefix(identity ndn.Name) (ndn.Name, error) {
	return identity.Append(ndn.GenericComponent("KEY"))
}

// HandleCertificateRequest is the OnInterest callback registered under
// SelfCertificatePrefix: it always answers with the installed
// self-certificate, regardless of the requested name's exact suffix
// (the self-certificate is the only certificate this device ever
// produces for itself).
func (e *Engine) HandleCertificateRequest() *ndn.Data {
	_, _, cert := e.Store.SelfIdentity()
	return cert
}
