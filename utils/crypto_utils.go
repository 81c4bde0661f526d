package utils

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"

	"github.com/pkg/errors"
)

// Signature schemes understood by NewSigner and NewVerifier.
const (
	SchemeRSA     = "rsa"
	SchemeSchnorr = "schnorr"
)

// Verifier checks a signature over msg against a serialized public key.
// Implementations must not panic on malformed keys or signatures.
type Verifier interface {
	Verify(publicKey []byte, msg []byte, signature []byte) bool
}

// Signer owns a private key and signs messages with it.
type Signer interface {
	// PublicKey returns the serialized public key, the form stored in outputs.
	PublicKey() []byte
	Sign(msg []byte) ([]byte, error)
}

// NewVerifier returns the verifier for the given scheme.
func NewVerifier(scheme string) (Verifier, error) {
	switch scheme {
	case SchemeRSA:
		return RSAVerifier{}, nil
	case SchemeSchnorr:
		return SchnorrVerifier{}, nil
	default:
		return nil, errors.Errorf("unknown signature scheme %q", scheme)
	}
}

// NewSigner creates a signer with a freshly generated key. keyBits only matters for RSA.
func NewSigner(scheme string, keyBits int) (Signer, error) {
	switch scheme {
	case SchemeRSA:
		sk, _ := GenerateKeyPair(keyBits)
		if sk == nil {
			return nil, errors.Errorf("failed to generate %d bits rsa key", keyBits)
		}
		return NewRSASigner(sk), nil
	case SchemeSchnorr:
		signer, err := GenerateSchnorrSigner()
		if err != nil {
			return nil, err
		}
		return signer, nil
	default:
		return nil, errors.Errorf("unknown signature scheme %q", scheme)
	}
}

// GenerateKeyPair generates a new key pair
func GenerateKeyPair(bits int) (*rsa.PrivateKey, *rsa.PublicKey) {
	privkey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil
	}
	return privkey, &privkey.PublicKey
}

// PublicKeyToBytes public key to bytes
func PublicKeyToBytes(pub *rsa.PublicKey) []byte {
	pubASN1, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil
	}

	return pubASN1
}

// BytesToPublicKey bytes to public key
func BytesToPublicKey(pub []byte) *rsa.PublicKey {
	ifc, err := x509.ParsePKIXPublicKey(pub)
	if err != nil {
		return nil
	}
	key, ok := ifc.(*rsa.PublicKey)
	if !ok {
		return nil
	}
	return key
}

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	newhash := crypto.SHA256
	pssh := newhash.New()
	pssh.Write(msg)
	return pssh.Sum(nil)
}

// Sign a message's SHA256 digest with provided private key.
func Sign(msg []byte, sk *rsa.PrivateKey) ([]byte, error) {
	digest := SHA256(msg)

	var opts rsa.PSSOptions
	opts.SaltLength = rsa.PSSSaltLengthAuto
	signature, err := rsa.SignPSS(rand.Reader, sk, crypto.SHA256, digest, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "rsa sign")
	}

	return signature, nil
}

// Verify the given signature matches the message.
func Verify(msg []byte, pk *rsa.PublicKey, signature []byte) bool {
	if pk == nil {
		return false
	}
	digest := SHA256(msg)

	var opts rsa.PSSOptions
	opts.SaltLength = rsa.PSSSaltLengthAuto

	return rsa.VerifyPSS(pk, crypto.SHA256, digest, signature, &opts) == nil
}

// RSAVerifier verifies RSA-PSS signatures against PKIX encoded public keys.
type RSAVerifier struct{}

func (RSAVerifier) Verify(publicKey []byte, msg []byte, signature []byte) bool {
	return Verify(msg, BytesToPublicKey(publicKey), signature)
}

// RSASigner signs with RSA-PSS over SHA256.
type RSASigner struct {
	sk *rsa.PrivateKey
	pk []byte
}

func NewRSASigner(sk *rsa.PrivateKey) *RSASigner {
	return &RSASigner{
		sk: sk,
		pk: PublicKeyToBytes(&sk.PublicKey),
	}
}

func (s *RSASigner) PublicKey() []byte {
	return s.pk
}

func (s *RSASigner) Sign(msg []byte) ([]byte, error) {
	return Sign(msg, s.sk)
}
