package utils

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// SchnorrVerifier verifies BIP-340 signatures against 32 byte x-only public keys.
// The signed digest is the SHA256 of the message.
type SchnorrVerifier struct{}

func (SchnorrVerifier) Verify(publicKey []byte, msg []byte, signature []byte) bool {
	pk, err := schnorr.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(chainhash.HashB(msg), pk)
}

// SchnorrSigner signs with a secp256k1 private key.
type SchnorrSigner struct {
	sk *btcec.PrivateKey
}

func GenerateSchnorrSigner() (*SchnorrSigner, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate secp256k1 key")
	}
	return NewSchnorrSigner(sk), nil
}

func NewSchnorrSigner(sk *btcec.PrivateKey) *SchnorrSigner {
	return &SchnorrSigner{sk: sk}
}

func (s *SchnorrSigner) PublicKey() []byte {
	return schnorr.SerializePubKey(s.sk.PubKey())
}

func (s *SchnorrSigner) Sign(msg []byte) ([]byte, error) {
	sig, err := schnorr.Sign(s.sk, chainhash.HashB(msg))
	if err != nil {
		return nil, errors.Wrap(err, "schnorr sign")
	}
	return sig.Serialize(), nil
}
