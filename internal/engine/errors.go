package engine

import "errors"

var (
	// ErrInputNotFound is returned when the requested path does not exist.
	ErrInputNotFound = errors.New("input not found")
	// ErrNotEncryptedFormat is returned when a file to decrypt lacks the suffix or the IV header.
	ErrNotEncryptedFormat = errors.New("not an encrypted file")
	// ErrBadPadding is returned when decryption fails its padding check, usually a wrong password.
	ErrBadPadding = errors.New("bad padding (wrong password or corrupted file)")
	// ErrIO is returned for read, write, rename and other filesystem failures.
	ErrIO = errors.New("i/o failure")
	// ErrPartialCleanup marks a transform that succeeded but could not remove its input.
	// It is carried as Outcome.Warning, never returned as an error.
	ErrPartialCleanup = errors.New("transformed, but the source file could not be removed")
)
