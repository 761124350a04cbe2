// Command quiclbtool parses a QUIC-LB configuration descriptor, installs
// it onto an in-memory demo host, and runs a generate/verify round trip
// so operators can sanity-check a descriptor before rolling it out.
package main

import (
	"crypto/rand"
	"flag"

	"github.com/apex/log"

	"github.com/bassosimone/quiclb"
	"github.com/bassosimone/quiclb/pkg/cidwire"
	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

// demoHost is a standalone [quiclb.Host] implementation for this CLI; a
// real QUIC implementation would expose the same five methods on its own
// connection-ID-issuer type.
type demoHost struct {
	cidLength int
	ctx       *quiclb.LbContext
}

func (h *demoHost) CIDLength() int              { return h.cidLength }
func (h *demoHost) SetCIDLength(n int)           { h.cidLength = n }
func (h *demoHost) HasExistingConnections() bool { return false }

func (h *demoHost) GeneratorInstalled() (bool, any) {
	return h.ctx != nil, h.ctx
}

func (h *demoHost) SetGenerator(ctx *quiclb.LbContext) { h.ctx = ctx }

func main() {
	descriptor := flag.String("config", "0Y10S8-31-0123456789abcdeffedcba9876543210", "QUIC-LB configuration descriptor")
	count := flag.Int("count", 3, "number of CIDs to generate and verify")
	flag.Parse()

	cfg, err := lbconfig.Parse(*descriptor)
	if err != nil {
		log.WithError(err).Fatal("lbconfig.Parse")
	}
	log.Infof("parsed config: method=%s cid_length=%d server_id=%#x", cfg.Method, cfg.CIDLength, cfg.ServerIDValue)

	host := &demoHost{}
	ctx, err := quiclb.Install(log.Log, host, cfg)
	if err != nil {
		log.WithError(err).Fatal("quiclb.Install")
	}
	defer quiclb.Uninstall(log.Log, host, ctx)

	for i := 0; i < *count; i++ {
		// Simulate the issuing side: a freshly minted long-header packet
		// whose Destination Connection ID field already carries the nonce
		// and "for server use" filler the host wants to preserve.
		longHeader := makeLongHeaderPacket(ctx.CIDLength())
		cid, err := cidwire.ExtractDestinationConnectionID(longHeader, 0)
		if err != nil {
			log.WithError(err).Fatal("cidwire.ExtractDestinationConnectionID (long header)")
		}
		if err := quiclb.Generate(ctx, nil, nil, cid); err != nil {
			log.WithError(err).Fatal("quiclb.Generate")
		}

		// Simulate the receiving side: a later short-header packet, which
		// does not carry the CID length on the wire, carrying the CID the
		// issuing side minted.
		shortHeader := makeShortHeaderPacket(cid)
		observed, err := cidwire.ExtractDestinationConnectionID(shortHeader, ctx.CIDLength())
		if err != nil {
			log.WithError(err).Fatal("cidwire.ExtractDestinationConnectionID (short header)")
		}

		serverID := quiclb.Verify(ctx, observed)
		log.Infof("cid=%x -> server_id=%#x", observed, serverID)
		if serverID != ctx.ServerID() {
			log.Fatal("round trip did not recover the configured server id")
		}
	}
}

// makeLongHeaderPacket builds a minimal RFC 9000 §17.2 long-header packet
// carrying a dcidLength-octet Destination Connection ID, pre-filled with
// random nonce/"for server use" octets, followed by an empty Source
// Connection ID and a few octets of filler payload.
func makeLongHeaderPacket(dcidLength int) []byte {
	raw := make([]byte, 1+4+1+dcidLength+1+4)
	if _, err := rand.Read(raw); err != nil {
		log.WithError(err).Fatal("rand.Read")
	}
	raw[0] = 0xC0 | raw[0]&0x3F // long header, fixed bit set
	raw[5] = byte(dcidLength)   // Destination Connection ID Length
	raw[6+dcidLength] = 0x00    // Source Connection ID Length
	return raw
}

// makeShortHeaderPacket builds a minimal RFC 9000 §17.3 short-header
// packet carrying cid as its Destination Connection ID, followed by a few
// octets of filler payload standing in for the packet number and body.
func makeShortHeaderPacket(cid []byte) []byte {
	raw := make([]byte, 1+len(cid)+4)
	if _, err := rand.Read(raw); err != nil {
		log.WithError(err).Fatal("rand.Read")
	}
	raw[0] = 0x40 | raw[0]&0x3F // short header, fixed bit set
	copy(raw[1:], cid)
	return raw
}
