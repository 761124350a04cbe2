package quiclb

//
// CID generation
//

import (
	"fmt"

	"github.com/bassosimone/quiclb/pkg/aesecb"
	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

// Generate fills in the server-identifying bytes of cid according to
// ctx's method, per §4.3. cid MUST already be ctx.CIDLength() octets
// long and pre-filled by the host with the nonce and "for server use"
// octets it wants to carry; Generate overwrites only the regions the
// configured method owns.
//
// hostCIDLocal and hostCIDRemote are accepted but ignored: they exist
// only so this function's signature matches the callback shape a real
// QUIC host installs (§6), which passes the local and remote connection
// IDs of the connection the new CID is being minted for.
//
// Generation cannot fail at runtime for a [Host]-sized buffer: [Install]
// already proved every length invariant holds. The only error Generate
// can return is a caller bug — a cid slice of the wrong length.
func Generate(ctx *LbContext, hostCIDLocal, hostCIDRemote []byte, cid []byte) error {
	if len(cid) != ctx.cidLength {
		return fmt.Errorf("quiclb: cid buffer has %d octets, want %d", len(cid), ctx.cidLength)
	}

	switch ctx.method {
	case lbconfig.Clear:
		ctx.writeFirstOctet(cid)
		copy(cid[1:], ctx.serverIDBytes)

	case lbconfig.StreamCipher:
		ctx.writeFirstOctet(cid)
		idOffset := 1 + ctx.nonceLength
		nonce := cid[1:idOffset]
		id := cid[idOffset : idOffset+ctx.serverIDLength]
		copy(id, ctx.serverIDBytes)
		ctx.maskRegion(id, nonce)
		ctx.maskRegion(nonce, id)
		ctx.maskRegion(id, nonce)

	case lbconfig.BlockCipher:
		ctx.writeFirstOctet(cid)
		copy(cid[1:1+ctx.serverIDLength], ctx.serverIDBytes)
		aesecb.EncryptBlock(ctx.enc, cid[1:17])
	}
	return nil
}
