package encryption

import (
	"crypto/sha256"
	"unicode/utf8"
)

// KeySize is the length of a derived key in bytes (AES-256).
const KeySize = sha256.Size

// Key is a symmetric AES-256 key derived from a password.
type Key [KeySize]byte

// DeriveKey hashes the UTF-8 bytes of password with SHA-256 and uses the
// digest as the key. The scheme is unsalted and unstretched; identical
// passwords always produce identical keys. Files written by earlier versions
// depend on it, so it must not change without a format change.
func DeriveKey(password string) (Key, error) {
	if !utf8.ValidString(password) {
		return Key{}, ErrInvalidPassword
	}

	return sha256.Sum256([]byte(password)), nil
}

// String keeps key material out of formatted output.
func (k Key) String() string {
	return "[redacted]"
}

// GoString keeps key material out of %#v output.
func (k Key) GoString() string {
	return k.String()
}

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	clear(k[:])
}
