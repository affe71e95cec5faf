package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// AlgorithmTag identifies the box construction on the wire.
const AlgorithmTag = "nacl.box"

// ErrDecryptionFailed is returned for corrupted ciphertext or a key
// mismatch. Callers treat it as recoverable and keep the message.
var ErrDecryptionFailed = errors.New("decryption failed")

// KeyPair is an X25519 key pair for Box. The secret half never leaves
// the owning client; only the public half is registered server-side.
type KeyPair struct {
	Public *[32]byte
	Secret *[32]byte
}

// GenerateKeyPair generates a new X25519 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Public: pub, Secret: priv}, nil
}

// Encrypt seals plaintext for a recipient with a fresh random 24-byte nonce.
func Encrypt(plaintext []byte, peerPub, mySecret *[32]byte) (ciphertext []byte, nonce [24]byte, err error) {
	if _, err = io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, nonce, err
	}
	ciphertext = box.Seal(nil, plaintext, &nonce, peerPub, mySecret)
	return ciphertext, nonce, nil
}

// Decrypt opens a sealed message from a peer.
func Decrypt(ciphertext []byte, nonce [24]byte, peerPub, mySecret *[32]byte) ([]byte, error) {
	plaintext, ok := box.Open(nil, ciphertext, &nonce, peerPub, mySecret)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptMessage seals a text body using base64 keys as they appear on the
// wire, returning the base64 ciphertext, nonce and algorithm tag.
func EncryptMessage(plaintext, peerPublicKey, mySecretKey string) (ciphertext, nonce, algorithm string, err error) {
	peerPub, err := DecodeKey(peerPublicKey)
	if err != nil {
		return "", "", "", err
	}
	mySec, err := DecodeKey(mySecretKey)
	if err != nil {
		return "", "", "", err
	}
	sealed, n, err := Encrypt([]byte(plaintext), peerPub, mySec)
	if err != nil {
		return "", "", "", err
	}
	return base64.StdEncoding.EncodeToString(sealed),
		base64.StdEncoding.EncodeToString(n[:]),
		AlgorithmTag, nil
}

// DecryptMessage is the inverse of EncryptMessage.
func DecryptMessage(ciphertext, nonce, peerPublicKey, mySecretKey string) (string, error) {
	peerPub, err := DecodeKey(peerPublicKey)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	mySec, err := DecodeKey(mySecretKey)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil || len(nonceBytes) != 24 {
		return "", ErrDecryptionFailed
	}
	var n [24]byte
	copy(n[:], nonceBytes)
	plaintext, err := Decrypt(sealed, n, peerPub, mySec)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncodeKey renders a key as base64 for storage and transport.
func EncodeKey(key *[32]byte) string {
	return base64.StdEncoding.EncodeToString(key[:])
}

// DecodeKey parses a base64 key.
func DecodeKey(encoded string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, errors.New("key must be 32 bytes")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
