package keystorage

import (
	"testing"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/stretchr/testify/require"
)

func keyIDComponent(id uint32) ndn.Component {
	c, err := ndn.NewComponent(ndn.TLVGenericNameComponent, []byte{
		byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func TestNewStoreHasAllSlotsEmpty(t *testing.T) {
	s := New(4, 2)
	_, ok := s.FindECCKeypair(0)
	require.False(t, ok)
	_, ok = s.FindHMACKey(0)
	require.False(t, ok)
	_, ok = s.FindAESKey(0)
	require.False(t, ok)
	_, ok = s.FindTrustedKey(0)
	require.False(t, ok)
}

func TestSetSelfIdentityAndTrustAnchorRoundTrip(t *testing.T) {
	s := New(0, 0)
	name := ndn.MustParseURI("/device/a")
	cert := &ndn.Data{Name: ndn.MustParseURI("/device/a/KEY/1")}
	s.SetSelfIdentity(name, []byte("priv"), cert)

	gotName, gotPriv, gotCert := s.SelfIdentity()
	require.True(t, gotName.Equal(name))
	require.Equal(t, []byte("priv"), gotPriv)
	require.Same(t, cert, gotCert)

	anchorName := ndn.MustParseURI("/anchor")
	s.SetTrustAnchor(anchorName, []byte("anchor-pub"))
	gotAnchorName, gotAnchorPub := s.TrustAnchor()
	require.True(t, gotAnchorName.Equal(anchorName))
	require.Equal(t, []byte("anchor-pub"), gotAnchorPub)
}

func TestAddAndFindECCKeypair(t *testing.T) {
	s := New(2, 2)
	ok := s.AddECCKeypair(1, []byte("pub"), []byte("priv"))
	require.True(t, ok)

	k, ok := s.FindECCKeypair(1)
	require.True(t, ok)
	require.Equal(t, []byte("pub"), k.PublicKey)
	require.Equal(t, []byte("priv"), k.PrivateKey)

	_, ok = s.FindECCKeypair(2)
	require.False(t, ok)
}

func TestECCTableFullRejectsInsert(t *testing.T) {
	s := New(1, 1)
	require.True(t, s.AddECCKeypair(1, nil, nil))
	require.False(t, s.AddECCKeypair(2, nil, nil), "table has one slot, already occupied")
}

func TestDeleteECCKeypairFreesSlotForReuse(t *testing.T) {
	s := New(1, 1)
	require.True(t, s.AddECCKeypair(1, nil, nil))
	s.DeleteECCKeypair(1)
	_, ok := s.FindECCKeypair(1)
	require.False(t, ok)
	require.True(t, s.AddECCKeypair(2, nil, nil), "freed slot must accept a new key")
}

func TestAddAndDeleteHMACKey(t *testing.T) {
	s := New(2, 2)
	require.True(t, s.AddHMACKey(5, []byte("secret")))
	k, ok := s.FindHMACKey(5)
	require.True(t, ok)
	require.Equal(t, []byte("secret"), k.Key)

	s.DeleteHMACKey(5)
	_, ok = s.FindHMACKey(5)
	require.False(t, ok)
}

func TestAddAESKeyRespectsEncryptSlotCount(t *testing.T) {
	s := New(4, 1)
	require.True(t, s.AddAESKey(9, []byte("aeskey")))
	require.False(t, s.AddAESKey(10, []byte("another")))
}

func TestAddTrustedKeyByName(t *testing.T) {
	s := New(2, 2)
	name := ndn.MustParseURI("/producer/KEY/1")
	require.True(t, s.AddTrustedKey(1, name, []byte("pub")))

	k, ok := s.FindTrustedKey(1)
	require.True(t, ok)
	require.True(t, k.Name.Equal(name))
}

func TestKeyIDFromKeyNameDecodesLastComponent(t *testing.T) {
	name, err := ndn.MustParseURI("/device/a/KEY").Append(keyIDComponent(0x00000042))
	require.NoError(t, err)

	id, err := KeyIDFromKeyName(name)
	require.NoError(t, err)
	require.Equal(t, uint32(0x42), id)
}

func TestKeyIDFromCertNameDecodesThirdFromLastComponent(t *testing.T) {
	base := ndn.MustParseURI("/device/a/KEY")
	withID, err := base.Append(keyIDComponent(0x00000099))
	require.NoError(t, err)
	withIssuer, err := withID.Append(ndn.GenericComponent("issuer"))
	require.NoError(t, err)
	withVersion, err := withIssuer.Append(ndn.GenericComponent("v1"))
	require.NoError(t, err)

	id, err := KeyIDFromCertName(withVersion)
	require.NoError(t, err)
	require.Equal(t, uint32(0x99), id)
}

func TestKeyIDFromKeyNameRejectsWrongComponentLength(t *testing.T) {
	name, err := ndn.MustParseURI("/device/a/KEY").Append(ndn.GenericComponent("not-4-bytes"))
	require.NoError(t, err)

	_, err = KeyIDFromKeyName(name)
	require.Error(t, err)
}
