// Package encryption provides the password key derivation and the streaming
// AES-256-CBC codec used for files at rest.
//
// An encrypted stream is the raw 16-byte IV followed by the PKCS#7 padded
// CBC ciphertext. There is no magic number and no version byte.
package encryption
