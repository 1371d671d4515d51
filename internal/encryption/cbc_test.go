package encryption_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"testing"
	"testing/iotest"

	"github.com/idelchi/fcrypt/internal/encryption"
)

func mustKey(t *testing.T, password string) encryption.Key {
	t.Helper()

	key, err := encryption.DeriveKey(password)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	return key
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	data := make([]byte, n)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("generating data: %v", err)
	}

	return data
}

func TestStreamRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []int{
		0, 1, 15, 16, 17, 31, 32, 33,
		encryption.ChunkSize - 1, encryption.ChunkSize, encryption.ChunkSize + 1,
		3*encryption.ChunkSize + 7, 200_000,
	}

	key := mustKey(t, "round-trip")

	for _, size := range sizes {
		size := size

		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			t.Parallel()

			plain := randomBytes(t, size)

			var encrypted bytes.Buffer
			if err := encryption.EncryptStream(bytes.NewReader(plain), &encrypted, key); err != nil {
				t.Fatalf("EncryptStream: %v", err)
			}

			wantLen := encryption.IVSize + (size/aes.BlockSize+1)*aes.BlockSize
			if encrypted.Len() != wantLen {
				t.Errorf("encrypted length = %d, want %d", encrypted.Len(), wantLen)
			}

			var decrypted bytes.Buffer
			if err := encryption.DecryptStream(&encrypted, &decrypted, key); err != nil {
				t.Fatalf("DecryptStream: %v", err)
			}

			if !bytes.Equal(decrypted.Bytes(), plain) {
				t.Errorf("round trip mismatch for %d bytes", size)
			}
		})
	}
}

func TestStreamRoundTripSmallReads(t *testing.T) {
	t.Parallel()

	key := mustKey(t, "one byte at a time")
	plain := randomBytes(t, 1000)

	var encrypted bytes.Buffer
	if err := encryption.EncryptStream(iotest.OneByteReader(bytes.NewReader(plain)), &encrypted, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	var decrypted bytes.Buffer
	if err := encryption.DecryptStream(iotest.HalfReader(&encrypted), &decrypted, key); err != nil {
		t.Fatalf("DecryptStream: %v", err)
	}

	if !bytes.Equal(decrypted.Bytes(), plain) {
		t.Error("round trip mismatch with short reads")
	}
}

func TestEncryptEmptyInput(t *testing.T) {
	t.Parallel()

	key := mustKey(t, "empty")

	var encrypted bytes.Buffer
	if err := encryption.EncryptStream(bytes.NewReader(nil), &encrypted, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	if got, want := encrypted.Len(), encryption.IVSize+aes.BlockSize; got != want {
		t.Fatalf("encrypted length = %d, want %d", got, want)
	}

	var decrypted bytes.Buffer
	if err := encryption.DecryptStream(&encrypted, &decrypted, key); err != nil {
		t.Fatalf("DecryptStream: %v", err)
	}

	if decrypted.Len() != 0 {
		t.Errorf("decrypted %d bytes, want 0", decrypted.Len())
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	t.Parallel()

	key := mustKey(t, "iv")
	plain := []byte("identical content, identical password")

	var first, second bytes.Buffer
	if err := encryption.EncryptStream(bytes.NewReader(plain), &first, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	if err := encryption.EncryptStream(bytes.NewReader(plain), &second, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	if bytes.Equal(first.Bytes()[:encryption.IVSize], second.Bytes()[:encryption.IVSize]) {
		t.Error("two encryptions share an IV")
	}

	if bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two encryptions produced identical ciphertext")
	}
}

// TestStreamFormatCompatibility checks the layout against a one-shot CBC
// encryption built directly on crypto/cipher: IV || CBC(PKCS7(plain)).
func TestStreamFormatCompatibility(t *testing.T) {
	t.Parallel()

	key := mustKey(t, "interop")
	plain := []byte("the quick brown fox jumps over the lazy dog")

	iv := randomBytes(t, aes.BlockSize)

	padLen := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte{}, plain...), bytes.Repeat([]byte{byte(padLen)}, padLen)...)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	var decrypted bytes.Buffer
	if err := encryption.DecryptStream(bytes.NewReader(append(iv, ciphertext...)), &decrypted, key); err != nil {
		t.Fatalf("DecryptStream: %v", err)
	}

	if !bytes.Equal(decrypted.Bytes(), plain) {
		t.Errorf("decrypted %q, want %q", decrypted.Bytes(), plain)
	}

	// And the other direction: our output decrypts with the plain library calls.
	var encrypted bytes.Buffer
	if err := encryption.EncryptStream(bytes.NewReader(plain), &encrypted, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	out := encrypted.Bytes()
	body := make([]byte, len(out)-aes.BlockSize)
	cipher.NewCBCDecrypter(block, out[:aes.BlockSize]).CryptBlocks(body, out[aes.BlockSize:])

	if got := body[:len(body)-int(body[len(body)-1])]; !bytes.Equal(got, plain) {
		t.Errorf("library decryption = %q, want %q", got, plain)
	}
}

func TestDecryptErrors(t *testing.T) {
	t.Parallel()

	key := mustKey(t, "errors")

	var valid bytes.Buffer
	if err := encryption.EncryptStream(bytes.NewReader([]byte("some plaintext")), &valid, key); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	tests := []struct {
		name  string
		input []byte
		key   encryption.Key
		want  error
	}{
		{name: "empty", input: nil, key: key, want: encryption.ErrMalformedHeader},
		{name: "short header", input: make([]byte, encryption.IVSize-1), key: key, want: encryption.ErrMalformedHeader},
		{name: "header and partial block", input: make([]byte, encryption.IVSize+5), key: key, want: encryption.ErrInvalidBlockSize},
		{name: "truncated block", input: valid.Bytes()[:valid.Len()-1], key: key, want: encryption.ErrInvalidBlockSize},
		{
			name:  "corrupted padding",
			input: flipLastByte(valid.Bytes()),
			key:   key,
			want:  encryption.ErrInvalidPadding,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			err := encryption.DecryptStream(bytes.NewReader(tt.input), &out, tt.key)
			if !errors.Is(err, tt.want) {
				t.Fatalf("DecryptStream error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecryptHeaderOnly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	if err := encryption.DecryptStream(bytes.NewReader(make([]byte, encryption.IVSize)), &out, mustKey(t, "any")); err != nil {
		t.Fatalf("DecryptStream: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("decrypted %d bytes, want none", out.Len())
	}
}

func TestDecryptWrongKeyFails(t *testing.T) {
	t.Parallel()

	plain := randomBytes(t, 4096)

	var encrypted bytes.Buffer
	if err := encryption.EncryptStream(bytes.NewReader(plain), &encrypted, mustKey(t, "right")); err != nil {
		t.Fatalf("EncryptStream: %v", err)
	}

	var out bytes.Buffer

	err := encryption.DecryptStream(&encrypted, &out, mustKey(t, "wrong"))
	if err == nil && bytes.Equal(out.Bytes(), plain) {
		t.Fatal("wrong key recovered the plaintext")
	}
}

func TestEncryptPropagatesReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	err := encryption.EncryptStream(iotest.ErrReader(boom), io.Discard, mustKey(t, "x"))
	if !errors.Is(err, boom) {
		t.Fatalf("EncryptStream error = %v, want %v", err, boom)
	}
}

// flipLastByte flips the last byte of the block before the final one. In CBC that
// flips the final pad byte of the plaintext, so the padding check must fail.
func flipLastByte(data []byte) []byte {
	out := append([]byte{}, data...)
	out[len(out)-aes.BlockSize-1] ^= 0xff

	return out
}
