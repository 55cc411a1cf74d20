// Package keystorage implements the process-wide key store: the
// device's own identity, the trust anchor, and fixed-size tables of
// symmetric and asymmetric keys addressed by key id.
package keystorage

import (
	"encoding/binary"
	"sync"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
)

// EmptyKeyID is the sentinel marking a slot as unused.
const EmptyKeyID uint32 = 0xFFFFFFFF

// DefaultSignSlots and DefaultEncryptSlots size the ECC/HMAC and AES
// tables respectively when a Store is constructed with capacity 0.
const (
	DefaultSignSlots    = 16 // N_SIGN
	DefaultEncryptSlots = 8  // M_ENCRYPT
)

// ECCKeypair is one asymmetric signing key.
type ECCKeypair struct {
	KeyID      uint32
	PublicKey  []byte
	PrivateKey []byte
}

// HMACKey is one symmetric signing key.
type HMACKey struct {
	KeyID uint32
	Key   []byte
}

// AESKey is one symmetric encryption key.
type AESKey struct {
	KeyID uint32
	Key   []byte
}

// TrustedKey is a public key received via certificate exchange and
// accepted as trusted, independent of the self identity or anchor.
type TrustedKey struct {
	KeyID     uint32
	Name      ndn.Name
	PublicKey []byte
}

// Store is the process-wide key storage singleton.
type Store struct {
	mu sync.RWMutex

	identityName       ndn.Name
	identityPrivateKey []byte
	selfCertificate    *ndn.Data

	trustAnchorName      ndn.Name
	trustAnchorPublicKey []byte

	eccKeys     []ECCKeypair
	hmacKeys    []HMACKey
	aesKeys     []AESKey
	trustedKeys []TrustedKey
}

// New returns an empty Store. signSlots bounds the ECC/HMAC/trusted-key
// tables (N_SIGN); encryptSlots bounds the AES table (M_ENCRYPT). Zero
// means use the defaults.
func New(signSlots, encryptSlots int) *Store {
	if signSlots <= 0 {
		signSlots = DefaultSignSlots
	}
	if encryptSlots <= 0 {
		encryptSlots = DefaultEncryptSlots
	}
	s := &Store{
		eccKeys:     make([]ECCKeypair, signSlots),
		hmacKeys:    make([]HMACKey, signSlots),
		aesKeys:     make([]AESKey, encryptSlots),
		trustedKeys: make([]TrustedKey, signSlots),
	}
	for i := range s.eccKeys {
		s.eccKeys[i].KeyID = EmptyKeyID
	}
	for i := range s.hmacKeys {
		s.hmacKeys[i].KeyID = EmptyKeyID
	}
	for i := range s.aesKeys {
		s.aesKeys[i].KeyID = EmptyKeyID
	}
	for i := range s.trustedKeys {
		s.trustedKeys[i].KeyID = EmptyKeyID
	}
	return s
}

// SetSelfIdentity installs the device's own identity, private key, and
// certificate, replacing any previous identity.
func (s *Store) SetSelfIdentity(name ndn.Name, privateKey []byte, cert *ndn.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityName = name
	s.identityPrivateKey = privateKey
	s.selfCertificate = cert
}

// SelfIdentity returns the installed identity name, private key, and certificate.
func (s *Store) SelfIdentity() (ndn.Name, []byte, *ndn.Data) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identityName, s.identityPrivateKey, s.selfCertificate
}

// SetTrustAnchor installs the trust anchor name and public key, replacing any previous anchor.
func (s *Store) SetTrustAnchor(name ndn.Name, publicKey []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trustAnchorName = name
	s.trustAnchorPublicKey = publicKey
}

// TrustAnchor returns the installed trust anchor name and public key.
func (s *Store) TrustAnchor() (ndn.Name, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trustAnchorName, s.trustAnchorPublicKey
}

func firstEmpty[T any](slots []T, idOf func(T) uint32) int {
	for i, s := range slots {
		if idOf(s) == EmptyKeyID {
			return i
		}
	}
	return -1
}

// AddECCKeypair installs keypair under the first empty ECC slot,
// reporting false if the table is full.
func (s *Store) AddECCKeypair(keyID uint32, public, private []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := firstEmpty(s.eccKeys, func(k ECCKeypair) uint32 { return k.KeyID })
	if i < 0 {
		return false
	}
	s.eccKeys[i] = ECCKeypair{KeyID: keyID, PublicKey: public, PrivateKey: private}
	return true
}

// FindECCKeypair scans for keyID, returning ok=false if absent.
func (s *Store) FindECCKeypair(keyID uint32) (ECCKeypair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.eccKeys {
		if k.KeyID == keyID {
			return k, true
		}
	}
	return ECCKeypair{}, false
}

// DeleteECCKeypair empties the slot holding keyID, if any.
func (s *Store) DeleteECCKeypair(keyID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.eccKeys {
		if s.eccKeys[i].KeyID == keyID {
			s.eccKeys[i] = ECCKeypair{KeyID: EmptyKeyID}
			return
		}
	}
}

// AddHMACKey installs key under the first empty HMAC slot.
func (s *Store) AddHMACKey(keyID uint32, key []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := firstEmpty(s.hmacKeys, func(k HMACKey) uint32 { return k.KeyID })
	if i < 0 {
		return false
	}
	s.hmacKeys[i] = HMACKey{KeyID: keyID, Key: key}
	return true
}

// FindHMACKey scans for keyID, returning ok=false if absent.
func (s *Store) FindHMACKey(keyID uint32) (HMACKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.hmacKeys {
		if k.KeyID == keyID {
			return k, true
		}
	}
	return HMACKey{}, false
}

// DeleteHMACKey empties the slot holding keyID, if any.
func (s *Store) DeleteHMACKey(keyID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.hmacKeys {
		if s.hmacKeys[i].KeyID == keyID {
			s.hmacKeys[i] = HMACKey{KeyID: EmptyKeyID}
			return
		}
	}
}

// AddAESKey installs key under the first empty AES slot.
func (s *Store) AddAESKey(keyID uint32, key []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := firstEmpty(s.aesKeys, func(k AESKey) uint32 { return k.KeyID })
	if i < 0 {
		return false
	}
	s.aesKeys[i] = AESKey{KeyID: keyID, Key: key}
	return true
}

// FindAESKey scans for keyID, returning ok=false if absent.
func (s *Store) FindAESKey(keyID uint32) (AESKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.aesKeys {
		if k.KeyID == keyID {
			return k, true
		}
	}
	return AESKey{}, false
}

// AddTrustedKey installs a public key learned via certificate exchange
// under the first empty trusted-key slot.
func (s *Store) AddTrustedKey(keyID uint32, name ndn.Name, publicKey []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := firstEmpty(s.trustedKeys, func(k TrustedKey) uint32 { return k.KeyID })
	if i < 0 {
		return false
	}
	s.trustedKeys[i] = TrustedKey{KeyID: keyID, Name: name, PublicKey: publicKey}
	return true
}

// FindTrustedKey scans for keyID, returning ok=false if absent.
func (s *Store) FindTrustedKey(keyID uint32) (TrustedKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.trustedKeys {
		if k.KeyID == keyID {
			return k, true
		}
	}
	return TrustedKey{}, false
}

// KeyIDFromKeyName decodes a key id from the last component of a key
// name, which must carry a 4-byte big-endian value.
func KeyIDFromKeyName(name ndn.Name) (uint32, error) {
	c, ok := name.At(name.Len() - 1)
	if !ok {
		return 0, ndnerr.New(ndnerr.KindInvalidName, "key name has no components")
	}
	return decodeKeyIDComponent(c)
}

// KeyIDFromCertName decodes a key id from the third-from-last
// component of a certificate name (.../KEY/<key-id>/<issuer>/<version>).
func KeyIDFromCertName(name ndn.Name) (uint32, error) {
	c, ok := name.At(name.Len() - 3)
	if !ok {
		return 0, ndnerr.New(ndnerr.KindInvalidName, "certificate name has fewer than 3 components")
	}
	return decodeKeyIDComponent(c)
}

func decodeKeyIDComponent(c ndn.Component) (uint32, error) {
	if len(c.Value) != 4 {
		return 0, ndnerr.New(ndnerr.KindInvalidName, "key id component must be 4 bytes, got %d", len(c.Value))
	}
	return binary.BigEndian.Uint32(c.Value), nil
}
