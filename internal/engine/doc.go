// Package engine turns a password and a path into encrypted-at-rest files and back.
//
// A single file is transformed once. A directory is walked twice: the first
// pass counts leaf files, the second transforms them one by one in name order
// and reports progress through a Sink. A failing file is reported and the
// walk moves on; only cancellation of the context stops it early, and only
// between files.
//
// Encrypted files are named after the plaintext file plus the ".encrypted"
// suffix and contain the 16-byte IV followed by the AES-256-CBC ciphertext.
// A successful transform removes its input.
package engine
