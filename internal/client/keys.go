package client

import (
	"encoding/json"
	"os"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/crypto"
)

// KeyPair is the locally persisted identity key pair. Only the public half
// is ever uploaded to the key registry.
type KeyPair struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// LoadOrCreateKeyPair reads the key pair at path, generating and persisting
// a fresh one if none exists. Generating a new pair supersedes the old
// public key for future messages only; earlier ciphertexts stay sealed.
func LoadOrCreateKeyPair(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var kp KeyPair
		if err := json.Unmarshal(data, &kp); err == nil && kp.PublicKey != "" && kp.SecretKey != "" {
			return &kp, nil
		}
		// Corrupt file: fall through and regenerate.
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	generated, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	kp := &KeyPair{
		PublicKey: crypto.EncodeKey(generated.Public),
		SecretKey: crypto.EncodeKey(generated.Secret),
	}
	encoded, err := json.Marshal(kp)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, encoded, 0600); err != nil {
		return nil, err
	}
	return kp, nil
}
