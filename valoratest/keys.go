package valoratest

import (
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/ed25519"

	"github.com/mohankour/ValoraVault"
)

// Key is an ed25519 key pair together with the address it controls.
type Key struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// NewKey generates a fresh key pair.
func NewKey(t testing.TB) Key {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return Key{Public: pub, Private: priv}
}

// Address returns the address derived from the public key.
func (k Key) Address() valora.Address {
	return valora.NewAddress(k.Public)
}

// RandomAddr returns the address of a freshly generated key.
func RandomAddr(t testing.TB) valora.Address {
	t.Helper()
	return NewKey(t).Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) valora.Address {
	t.Helper()

	addr, err := valora.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
