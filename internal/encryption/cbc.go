package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// IVSize is the length of the raw initialization vector that prefixes every encrypted stream.
const IVSize = aes.BlockSize

// EncryptStream encrypts everything read from reader with AES-256-CBC and writes
// a fresh random IV followed by the padded ciphertext to writer.
// Input is consumed one chunk at a time, so memory use does not grow with the input.
func EncryptStream(reader io.Reader, writer io.Writer, key Key) error {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return fmt.Errorf("generating IV: %w", err)
	}

	if _, err := writer.Write(iv); err != nil {
		return fmt.Errorf("writing IV: %w", err)
	}

	cbcMode := cipher.NewCBCEncrypter(block, iv)

	bufp, _ := bufferPool.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte
	defer bufferPool.Put(bufp)

	buf := *bufp
	pending := make([]byte, 0, ChunkSize+aes.BlockSize)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			// Encrypt every complete block; the tail waits for more input or for padding.
			if full := len(pending) - len(pending)%aes.BlockSize; full > 0 {
				cbcMode.CryptBlocks(pending[:full], pending[:full])

				if _, err := writer.Write(pending[:full]); err != nil {
					return fmt.Errorf("writing encrypted block: %w", err)
				}

				pending = append(pending[:0], pending[full:]...)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading input: %w", readErr)
		}
	}

	final := pkcs7Pad(pending, aes.BlockSize)
	cbcMode.CryptBlocks(final, final)

	if _, err := writer.Write(final); err != nil {
		return fmt.Errorf("writing final encrypted block: %w", err)
	}

	return nil
}

// DecryptStream reads the IV header from reader, decrypts the remaining
// ciphertext and writes the unpadded plaintext to writer.
//
// CBC is not authenticated: a wrong key usually ends in ErrInvalidPadding,
// but it can also decrypt to garbage without any error.
//
//nolint:cyclop
func DecryptStream(reader io.Reader, writer io.Writer, key Key) error {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(reader, iv); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrMalformedHeader
		}

		return fmt.Errorf("reading IV: %w", err)
	}

	cbcMode := cipher.NewCBCDecrypter(block, iv)

	bufp, _ := bufferPool.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte
	defer bufferPool.Put(bufp)

	buf := *bufp
	pending := make([]byte, 0, ChunkSize+aes.BlockSize)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			// The last complete block is held back until EOF so its padding can be stripped.
			ready := len(pending) - len(pending)%aes.BlockSize
			if ready == len(pending) {
				ready -= aes.BlockSize
			}

			if ready > 0 {
				cbcMode.CryptBlocks(pending[:ready], pending[:ready])

				if _, err := writer.Write(pending[:ready]); err != nil {
					return fmt.Errorf("writing decrypted block: %w", err)
				}

				pending = append(pending[:0], pending[ready:]...)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading input: %w", readErr)
		}
	}

	// An IV without ciphertext decrypts to an empty plaintext.
	if len(pending) == 0 {
		return nil
	}

	if len(pending) != aes.BlockSize {
		return ErrInvalidBlockSize
	}

	cbcMode.CryptBlocks(pending, pending)

	unpadded, err := pkcs7Unpad(pending)
	if err != nil {
		return fmt.Errorf("removing padding: %w", err)
	}

	if _, err := writer.Write(unpadded); err != nil {
		return fmt.Errorf("writing final decrypted block: %w", err)
	}

	return nil
}
