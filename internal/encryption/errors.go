package encryption

import "errors"

var (
	// ErrInvalidPassword is returned when a password is not valid UTF-8.
	ErrInvalidPassword = errors.New("password is not valid UTF-8")
	// ErrMalformedHeader is returned when a stream ends before the 16-byte IV is complete.
	ErrMalformedHeader = errors.New("stream shorter than the IV header")
	// ErrEmptyData is returned when attempting to unpad an empty block.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
)
