package quiclb

import (
	"testing"

	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

func mustParse(t *testing.T, s string) *lbconfig.Config {
	t.Helper()
	cfg, err := lbconfig.Parse(s)
	if err != nil {
		t.Fatalf("%q: %v", s, err)
	}
	return cfg
}

func TestNewContextClear(t *testing.T) {
	cfg := mustParse(t, "0N5C-2A")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.CIDLength() != 5 {
		t.Fatalf("unexpected cid length: %d", ctx.CIDLength())
	}
	if ctx.ServerID() != 0x2A {
		t.Fatalf("unexpected server id: %x", ctx.ServerID())
	}
}

func TestNewContextRejectsInconsistentLengths(t *testing.T) {
	cfg := mustParse(t, "0NC-07")
	if _, err := NewContext(cfg, 1); err == nil {
		t.Fatal("expected an error resolving against a too-small host length")
	}
}

func TestNewContextAllocatesAESForNonClearMethodsOnly(t *testing.T) {
	clear := mustParse(t, "0N5C-2A")
	clearCtx, err := NewContext(clear, 0)
	if err != nil {
		t.Fatal(err)
	}
	if clearCtx.enc != nil || clearCtx.dec != nil {
		t.Fatal("clear method must not allocate AES state")
	}

	stream := mustParse(t, "0N20S12-1234-000102030405060708090a0b0c0d0e0f")
	streamCtx, err := NewContext(stream, 0)
	if err != nil {
		t.Fatal(err)
	}
	if streamCtx.enc == nil || streamCtx.dec != nil {
		t.Fatal("stream-cipher method must allocate an encryption handle only")
	}

	block := mustParse(t, "0N17B-AA-000102030405060708090a0b0c0d0e0f")
	blockCtx, err := NewContext(block, 0)
	if err != nil {
		t.Fatal(err)
	}
	if blockCtx.enc == nil || blockCtx.dec == nil {
		t.Fatal("block-cipher method must allocate both AES handles")
	}
}

func TestFreeClearsAESHandles(t *testing.T) {
	cfg := mustParse(t, "0N17B-AA-000102030405060708090a0b0c0d0e0f")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx.Free()
	if ctx.enc != nil || ctx.dec != nil {
		t.Fatal("Free did not clear the AES handles")
	}
}
