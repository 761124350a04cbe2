package quiclb

//
// CID verification
//

import (
	"github.com/bassosimone/quiclb/pkg/aesecb"
	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

// SentinelServerID is the value [Verify] returns when it cannot attribute
// an observed CID to a server: the CID's length does not match the
// installed context's configured length, or the installed method is not
// one this package recognizes.
const SentinelServerID = sentinelServerID

// Verify recovers the server ID embedded in cid, per §4.4. It is total:
// it never panics or returns an error, and returns [SentinelServerID]
// rather than a wrong answer whenever cid cannot be attributed.
func Verify(ctx *LbContext, cid []byte) uint64 {
	if len(cid) != ctx.cidLength {
		return sentinelServerID
	}

	switch ctx.method {
	case lbconfig.Clear:
		return decodeBigEndian(cid[1 : 1+ctx.serverIDLength])

	case lbconfig.StreamCipher:
		// Operate on a scratch copy: unlike Generate, Verify must not
		// mutate the caller's CID.
		scratch := append([]byte(nil), cid...)
		idOffset := 1 + ctx.nonceLength
		nonce := scratch[1:idOffset]
		id := scratch[idOffset : idOffset+ctx.serverIDLength]
		// The three-pass mask is its own inverse: each pass XORs the
		// target with a keystream derived from the *other* region, whose
		// contents, after three passes, match what they were just before
		// the corresponding Generate pass.
		ctx.maskRegion(id, nonce)
		ctx.maskRegion(nonce, id)
		ctx.maskRegion(id, nonce)
		return decodeBigEndian(id)

	case lbconfig.BlockCipher:
		var block [aesecb.BlockSize]byte
		copy(block[:], cid[1:17])
		aesecb.DecryptBlock(ctx.dec, block[:])
		// Reassembly is unconditional: server_id_length is fixed by the
		// installed configuration, so there is no runtime condition left
		// to guard this read behind.
		return decodeBigEndian(block[:ctx.serverIDLength])

	default:
		return sentinelServerID
	}
}
