package quiclb

//
// Installed codec state
//

import (
	"crypto/cipher"
	"fmt"

	"github.com/bassosimone/quiclb/pkg/aesecb"
	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

// LbContext is the per-installation state that [Generate] and [Verify]
// operate on. The zero value is invalid; construct with [NewContext] (or,
// to install directly onto a [Host], with [Install]).
//
// Once constructed, an LbContext is immutable and safe for concurrent use
// by multiple goroutines: its AES handles are read-only key schedules,
// and [Generate]/[Verify] never mutate the context itself, only the CID
// buffer the caller passes in. Call [LbContext.Free] exactly once, after
// all callers have quiesced, to release the AES handles.
type LbContext struct {
	method                 lbconfig.Method
	rotationBits           uint8
	firstByteEncodesLength bool
	cidLength              int
	nonceLength            int
	serverIDLength         int
	serverIDBytes          []byte

	// enc is present for every method except Clear.
	enc cipher.Block

	// dec is present only for BlockCipher.
	dec cipher.Block
}

// NewContext validates cfg against hostCIDLength (the host's current CID
// length preference, or zero if it has none yet — see
// [lbconfig.Config.ResolveCIDLength]) and allocates the AES state the
// configured method needs.
//
// On success, an AES encryption handle is present iff method != Clear,
// and a decryption handle is present iff method == BlockCipher, matching
// the invariant in §3.
func NewContext(cfg *lbconfig.Config, hostCIDLength int) (*LbContext, error) {
	effectiveLength, err := cfg.ResolveCIDLength(hostCIDLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInconsistentLengths, err)
	}

	ctx := &LbContext{
		method:                 cfg.Method,
		rotationBits:           cfg.RotationBits,
		firstByteEncodesLength: cfg.FirstByteEncodesLength,
		cidLength:              effectiveLength,
		nonceLength:            int(cfg.NonceLength),
		serverIDLength:         int(cfg.ServerIDLength),
		serverIDBytes:          cfg.ServerIDBytes(),
	}

	if cfg.Method != lbconfig.Clear {
		enc, err := aesecb.NewEncrypter(cfg.Key[:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCryptoInitFailure, err)
		}
		ctx.enc = enc
	}
	if cfg.Method == lbconfig.BlockCipher {
		dec, err := aesecb.NewDecrypter(cfg.Key[:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCryptoInitFailure, err)
		}
		ctx.dec = dec
	}
	return ctx, nil
}

// CIDLength returns the CID length this context was installed with.
func (ctx *LbContext) CIDLength() int {
	return ctx.cidLength
}

// Method returns the configured CID encoding scheme.
func (ctx *LbContext) Method() lbconfig.Method {
	return ctx.method
}

// ServerID reassembles the configured server ID as a 64-bit integer,
// exactly as [Verify] would recover it from a freshly generated CID.
func (ctx *LbContext) ServerID() uint64 {
	return decodeBigEndian(ctx.serverIDBytes)
}

// Free releases the AES handles owned by ctx. After Free returns, ctx
// must not be passed to [Generate] or [Verify]. Go's garbage collector
// would reclaim the underlying memory regardless; Free exists so the
// lifecycle matches §3's "destroyed by an explicit free operation" and
// so that [Uninstall] has a single place to call.
func (ctx *LbContext) Free() {
	ctx.enc = nil
	ctx.dec = nil
}

// maskRegion implements the one-pass masking primitive of §4.3: build a
// 16-octet block by zero-padding source, AES-encrypt it, and XOR the
// leading len(target) octets of the result into target.
func (ctx *LbContext) maskRegion(target, source []byte) {
	block := aesecb.PadBlock(source)
	aesecb.EncryptBlock(ctx.enc, block[:])
	for i := range target {
		target[i] ^= block[i]
	}
}

// writeFirstOctet applies the §4.1 first-octet rule to cid[0].
func (ctx *LbContext) writeFirstOctet(cid []byte) {
	if ctx.firstByteEncodesLength {
		cid[0] = ctx.rotationBits<<6 | uint8(ctx.cidLength-1)
	} else {
		cid[0] = ctx.rotationBits<<6 | cid[0]&0x3F
	}
}

// decodeBigEndian reassembles a big-endian byte slice into a uint64, per
// §4.4: result = Σ byte[i]·256^(n-1-i).
func decodeBigEndian(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
