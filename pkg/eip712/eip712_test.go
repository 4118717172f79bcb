package eip712

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDomain() Domain {
	return Domain{
		Name:              "CollectorDao",
		ChainID:           big.NewInt(1),
		VerifyingContract: common.HexToAddress("0x000000000000000000000000000000000000dEaD"),
	}
}

func TestRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	structHash := crypto.Keccak256Hash([]byte("ballot"))
	digest := Digest(testDomain(), structHash)

	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	var r, s common.Hash
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])

	want := crypto.PubkeyToAddress(key.PublicKey)

	got, err := Recover(digest, sig[64], r, s)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// legacy recovery id
	got, err = Recover(digest, sig[64]+27, r, s)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecoverTamperedDigest(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	digest := Digest(testDomain(), crypto.Keccak256Hash([]byte("ballot")))
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	var r, s common.Hash
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])

	other := Digest(testDomain(), crypto.Keccak256Hash([]byte("other ballot")))
	got, err := Recover(other, sig[64], r, s)
	if err == nil {
		assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), got)
	}
}

func TestRecoverBadComponents(t *testing.T) {
	digest := Digest(testDomain(), crypto.Keccak256Hash([]byte("ballot")))

	_, err := Recover(digest, 5, common.Hash{}, common.Hash{})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = Recover(digest, 0, common.Hash{}, common.Hash{})
	assert.Error(t, err)
}

func TestDomainSeparatorBinds(t *testing.T) {
	a := testDomain()
	b := testDomain()
	b.ChainID = big.NewInt(5)

	assert.NotEqual(t, a.Separator(), b.Separator())

	c := testDomain()
	c.VerifyingContract = common.HexToAddress("0x000000000000000000000000000000000000bEEF")
	assert.NotEqual(t, a.Separator(), c.Separator())
}
