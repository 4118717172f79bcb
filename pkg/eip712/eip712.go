// Package eip712 builds structured-data digests and recovers signer
// addresses from their secp256k1 signatures.
package eip712

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var domainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))

// ErrInvalidSignature the signature components do not recover a usable
// public key.
var ErrInvalidSignature = errors.New("eip712: invalid signature")

// Domain binds signed messages to one deployment: same message signed
// for another chain or another contract yields a different digest.
type Domain struct {
	Name              string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// Separator hashes the domain per the EIP-712 layout.
func (d Domain) Separator() common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256(
			[]byte(d.Name)),
		common.BigToHash(d.ChainID).Bytes(),
		common.BytesToHash(d.VerifyingContract.Bytes()).Bytes(),
	)
}

// Digest combines the domain separator and a struct hash into the final
// signable digest: keccak256("\x19\x01" || separator || structHash).
func Digest(d Domain, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		d.Separator().Bytes(),
		structHash.Bytes(),
	)
}

// Recover returns the address whose key signed the digest. It accepts
// both legacy (27/28) and canonical (0/1) recovery ids.
func Recover(digest common.Hash, v uint8, r, s common.Hash) (common.Address, error) {
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, ErrInvalidSignature
	}

	sig := make([]byte, 65)
	copy(sig[:32], r.Bytes())
	copy(sig[32:64], s.Bytes())
	sig[64] = v

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}

	addr := crypto.PubkeyToAddress(*pub)
	if addr == (common.Address{}) {
		return common.Address{}, ErrInvalidSignature
	}

	return addr, nil
}

// Word left-pads a boolean to a 32-byte abi word.
func Word(b bool) common.Hash {
	if b {
		return common.BigToHash(big.NewInt(1))
	}
	return common.Hash{}
}
