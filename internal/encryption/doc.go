// Package encryption implements streaming AES-256 CBC encryption with
// PKCS7 padding. Encrypted output is the raw 16-byte IV followed by the
// ciphertext, with no magic or version byte; old ciphertext is therefore
// indistinguishable from any future format revision.
package encryption
