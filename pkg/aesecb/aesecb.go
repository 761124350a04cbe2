// Package aesecb wraps Go's stdlib AES-128 block cipher so that callers
// have a one-block-at-a-time primitive to build the QUIC-LB encodings on
// top of. AES-ECB is not a general-purpose confidentiality mode (it never
// diversifies beyond the 16-octet block boundary), but QUIC-LB uses it
// only as a fixed pseudo-random permutation over single 16-octet blocks,
// which is exactly what this package exposes.
package aesecb

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// KeySize is the only key size this package supports: AES-128.
const KeySize = 16

// BlockSize is the size, in octets, of every block this package handles.
const BlockSize = aes.BlockSize

// NewEncrypter returns a [cipher.Block] to use for forward (encrypting)
// transforms. The returned handle is immutable once created and safe for
// concurrent use by multiple goroutines, because AES-128's key schedule
// never changes after [aes.NewCipher] builds it.
func NewEncrypter(key []byte) (cipher.Block, error) {
	return newBlock(key)
}

// NewDecrypter returns a [cipher.Block] to use for inverse (decrypting)
// transforms. Go's [cipher.Block] implementation for AES supports both
// Encrypt and Decrypt on the same handle, so this is presently the same
// construction as [NewEncrypter]; it is kept as a distinct entry point
// because the codec above models encryption and decryption handles as
// separate resources with independent lifetimes (see §3 and §9).
func NewDecrypter(key []byte) (cipher.Block, error) {
	return newBlock(key)
}

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aesecb: key must be %d bytes, got %d", KeySize, len(key))
	}
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aesecb: %w", err)
	}
	return blk, nil
}

// EncryptBlock encrypts src in place. src MUST be exactly [BlockSize]
// octets long; this function panics otherwise, mirroring the behavior of
// [cipher.Block.Encrypt] itself.
func EncryptBlock(blk cipher.Block, src []byte) {
	requireBlockSize(src)
	blk.Encrypt(src, src)
}

// DecryptBlock decrypts src in place. src MUST be exactly [BlockSize]
// octets long; this function panics otherwise.
func DecryptBlock(blk cipher.Block, src []byte) {
	requireBlockSize(src)
	blk.Decrypt(src, src)
}

func requireBlockSize(b []byte) {
	if len(b) != BlockSize {
		panic(fmt.Sprintf("aesecb: block must be %d bytes, got %d", BlockSize, len(b)))
	}
}

// PadBlock builds a [BlockSize]-octet buffer by copying src (which MUST
// be no longer than [BlockSize] octets) into a zero-initialized block.
// This is the "build a 16-byte block by copying ≤16 source octets into a
// zero-initialised buffer" primitive that the StreamCipher masking passes
// use (§4.3).
func PadBlock(src []byte) [BlockSize]byte {
	if len(src) > BlockSize {
		panic(fmt.Sprintf("aesecb: source must be at most %d bytes, got %d", BlockSize, len(src)))
	}
	var block [BlockSize]byte
	copy(block[:], src)
	return block
}
