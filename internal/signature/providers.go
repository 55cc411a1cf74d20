package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/ndn-lite/ndnlite-go/internal/keystorage"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// Signature type codes, mirrored from internal/ndn for readability.
const (
	SignatureDigestSha256 = 0
	SignatureEcdsaSha256  = 3
	SignatureHmacSha256   = 4
)

// DigestSha256 is an unkeyed integrity check: the SHA-256 digest of the
// signed portion must equal the SignatureValue. It authenticates
// nothing about origin, only that the packet was not altered in transit
// by something that didn't also alter the digest.
type DigestSha256 struct{}

func (DigestSha256) Type() uint8 { return SignatureDigestSha256 }

func (DigestSha256) Sign(_ *keystorage.Store, _ uint32, signedPortion []byte) ([]byte, error) {
	sum := sha256.Sum256(signedPortion)
	return sum[:], nil
}

func (DigestSha256) Verify(_ *keystorage.Store, _ uint32, signedPortion, sigValue []byte) error {
	sum := sha256.Sum256(signedPortion)
	if !hmac.Equal(sum[:], sigValue) {
		return ndnerr.New(ndnerr.KindVerificationFailure, "digest mismatch")
	}
	return nil
}

// HmacSha256 signs/verifies with a shared symmetric key looked up by
// key id in the keystorage HMAC table.
type HmacSha256 struct{}

func (HmacSha256) Type() uint8 { return SignatureHmacSha256 }

func (HmacSha256) Sign(store *keystorage.Store, keyID uint32, signedPortion []byte) ([]byte, error) {
	k, ok := store.FindHMACKey(keyID)
	if !ok {
		return nil, ndnerr.New(ndnerr.KindKeyNotFound, "no HMAC key for key id %d", keyID)
	}
	mac := hmac.New(sha256.New, k.Key)
	mac.Write(signedPortion)
	return mac.Sum(nil), nil
}

func (HmacSha256) Verify(store *keystorage.Store, keyID uint32, signedPortion, sigValue []byte) error {
	k, ok := store.FindHMACKey(keyID)
	if !ok {
		return ndnerr.New(ndnerr.KindKeyNotFound, "no HMAC key for key id %d", keyID)
	}
	mac := hmac.New(sha256.New, k.Key)
	mac.Write(signedPortion)
	if !hmac.Equal(mac.Sum(nil), sigValue) {
		return ndnerr.New(ndnerr.KindVerificationFailure, "HMAC mismatch")
	}
	return nil
}

// EcdsaSha256 signs/verifies with an ECC keypair (P-256) looked up by
// key id. Public keys are SEC1-uncompressed-point encoded; private keys
// are the scalar's fixed-width big-endian bytes.
type EcdsaSha256 struct{}

func (EcdsaSha256) Type() uint8 { return SignatureEcdsaSha256 }

func (EcdsaSha256) Sign(store *keystorage.Store, keyID uint32, signedPortion []byte) ([]byte, error) {
	k, ok := store.FindECCKeypair(keyID)
	if !ok {
		return nil, ndnerr.New(ndnerr.KindKeyNotFound, "no ECC key for key id %d", keyID)
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(k.PrivateKey)
	priv := &ecdsa.PrivateKey{PublicKey: ecdsa.PublicKey{Curve: curve}, D: d}
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())

	digest := sha256.Sum256(signedPortion)
	return ecdsa.SignASN1(rand.Reader, priv, digest[:])
}

func (EcdsaSha256) Verify(store *keystorage.Store, keyID uint32, signedPortion, sigValue []byte) error {
	k, ok := store.FindECCKeypair(keyID)
	var pub []byte
	if ok {
		pub = k.PublicKey
	} else if t, ok2 := store.FindTrustedKey(keyID); ok2 {
		pub = t.PublicKey
	} else {
		return ndnerr.New(ndnerr.KindKeyNotFound, "no ECC public key for key id %d", keyID)
	}
	return verifyEcdsaRaw(pub, signedPortion, sigValue)
}

// verifyEcdsaRaw verifies an ASN.1 ECDSA-P256-SHA256 signature against a
// SEC1-uncompressed-point-encoded public key, without a keystorage lookup.
// Used both by EcdsaSha256.Verify and by the certificate-chain check
// against the trust anchor's public key.
func verifyEcdsaRaw(publicKey, signedPortion, sigValue []byte) error {
	x, y := elliptic.Unmarshal(elliptic.P256(), publicKey)
	if x == nil {
		return ndnerr.New(ndnerr.KindWrongKeySize, "malformed P-256 public key")
	}
	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
	digest := sha256.Sum256(signedPortion)
	if !ecdsa.VerifyASN1(pub, digest[:], sigValue) {
		return ndnerr.New(ndnerr.KindVerificationFailure, "ECDSA signature verification failed")
	}
	return nil
}
