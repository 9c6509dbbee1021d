package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"

	"golang.org/x/crypto/ed25519"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey creates a new random key.
func GenPrivateKey() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrState, err.Error())
	}
	return &PrivateKey{key: priv}, nil
}

// PublicKey returns the public half of the key.
func (k *PrivateKey) PublicKey() ed25519.PublicKey {
	return k.key.Public().(ed25519.PublicKey)
}

// Address returns the ledger address controlled by this key.
func (k *PrivateKey) Address() valora.Address {
	return valora.NewAddress(k.PublicKey())
}

// Sign signs the message with the key.
func (k *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.key, msg)
}

// Verify reports whether sig is a valid signature of msg by the owner of
// the public key.
func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// DecodePrivateKey reads a hex string created by EncodePrivateKey
// and returns the original PrivateKey
func DecodePrivateKey(hexKey string) (*PrivateKey, error) {
	data, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.ErrInput.Newf("private key of %d bytes", len(data))
	}
	return &PrivateKey{key: ed25519.PrivateKey(data)}, nil
}

// EncodePrivateKey stores the private key as a hex string
// that can be saved and later loaded
func EncodePrivateKey(key *PrivateKey) string {
	return hex.EncodeToString(key.key)
}

// LoadPrivateKey will load a private key from a file,
// Which was previously writen by SavePrivateKey
func LoadPrivateKey(filename string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNotFound, err.Error())
	}
	return DecodePrivateKey(string(raw))
}

// SavePrivateKey will encode the privatekey in hex and write to
// the named file. It will refuse to overwrite a file
func SavePrivateKey(key *PrivateKey, filename string, force bool) error {
	if !force { // check before overwriting keys
		if _, err := os.Stat(filename); err == nil {
			return errors.ErrState.Newf("refusing to overwrite: %s", filename)
		}
	}
	return ioutil.WriteFile(filename, []byte(EncodePrivateKey(key)), KeyPerm)
}
