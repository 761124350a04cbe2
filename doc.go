// Package quiclb implements the QUIC-LB connection ID codec described in
// the IETF "QUIC-LB" draft. A QUIC server that sits behind a layer-4 load
// balancer embeds a server identifier inside the connection IDs (CIDs) it
// hands out, so that packets arriving on a new 5-tuple after NAT rebinding
// or connection migration can still be routed back to the owning server
// without deep packet inspection.
//
// The codec supports three encodings of the server identifier:
//
//   - [lbconfig.Clear]: the server ID is stored in plaintext;
//
//   - [lbconfig.StreamCipher]: the server ID is masked with a three-pass
//     AES-ECB-derived keystream that also diversifies a per-CID nonce;
//
//   - [lbconfig.BlockCipher]: the server ID is encrypted as part of a
//     single AES-128 block.
//
// Configuration comes from a short ASCII descriptor (see [lbconfig.Parse])
// that a load balancer operator and a fleet of servers agree upon out of
// band; this package does not negotiate, rotate, or distribute that
// configuration.
//
// To use the codec, parse a descriptor into an [lbconfig.Config] and pass
// it to [Install], which derives an [LbContext] (allocating the AES state)
// and registers it on the host QUIC implementation; [NewContext] derives
// the same context without a host. The host then calls [Generate] to fill
// in new CIDs and [Verify] to recover the server ID from CIDs it observes.
// [Uninstall] releases the AES state.
//
// Generation and verification are synchronous functions of (context, CID
// buffer); neither blocks nor performs I/O. They are not allocation-free:
// for example, [Verify] copies a StreamCipher CID into a newly allocated
// scratch buffer on every call.
package quiclb
