package quiclb

//
// End-to-end generate/verify scenarios from §8
//

import (
	"bytes"
	"testing"

	"github.com/bassosimone/quiclb/pkg/aesecb"
)

func TestScenarioClearFiveOctetCID(t *testing.T) {
	cfg := mustParse(t, "0N5C-2A")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 5)
	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}
	if cid[0] != 0x00 {
		t.Fatalf("cid[0] = %#x, want 0x00", cid[0])
	}
	if cid[1] != 0x2A {
		t.Fatalf("cid[1] = %#x, want 0x2A", cid[1])
	}
	if got := Verify(ctx, cid); got != 0x2A {
		t.Fatalf("Verify = %#x, want 0x2A", got)
	}
}

func TestScenarioClearLengthEncoded(t *testing.T) {
	cfg := mustParse(t, "1Y5C-07")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 5)
	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}
	if cid[0] != 0x44 {
		t.Fatalf("cid[0] = %#x, want 0x44", cid[0])
	}
	if cid[1] != 0x07 {
		t.Fatalf("cid[1] = %#x, want 0x07", cid[1])
	}
	if got := Verify(ctx, cid); got != 7 {
		t.Fatalf("Verify = %d, want 7", got)
	}
}

func TestScenarioStreamCipher(t *testing.T) {
	cfg := mustParse(t, "0N20S12-1234-000102030405060708090a0b0c0d0e0f")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 20) // nonce and "for server use" octets start at zero
	originalNonce := make([]byte, 12)
	copy(cid[1:13], originalNonce)

	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(cid[1:13], originalNonce) {
		t.Fatal("nonce region was not masked")
	}
	if bytes.Equal(cid[13:15], []byte{0x00, 0x00}) {
		t.Fatal("server-id region was not masked")
	}
	if got := Verify(ctx, cid); got != 0x1234 {
		t.Fatalf("Verify = %#x, want 0x1234", got)
	}
}

func TestScenarioStreamCipherVerifyDoesNotMutateInput(t *testing.T) {
	cfg := mustParse(t, "0N20S12-1234-000102030405060708090a0b0c0d0e0f")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 20)
	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), cid...)
	Verify(ctx, cid)
	if !bytes.Equal(cid, before) {
		t.Fatal("Verify mutated the caller's CID")
	}
}

func TestScenarioBlockCipher(t *testing.T) {
	cfg := mustParse(t, "0N17B-AA-000102030405060708090a0b0c0d0e0f")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 17)
	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}

	// cid[1:17] must equal AES-ECB(key, 0xAA || 15 zero octets).
	want := [16]byte{0xAA}
	aesecb.EncryptBlock(ctx.enc, want[:])
	if !bytes.Equal(cid[1:17], want[:]) {
		t.Fatalf("cid[1:17] = %x, want %x", cid[1:17], want)
	}
	if got := Verify(ctx, cid); got != 0xAA {
		t.Fatalf("Verify = %#x, want 0xAA", got)
	}
}

func TestScenarioLengthMismatch(t *testing.T) {
	cfg := mustParse(t, "0N10C-07")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{9, 11} {
		if got := Verify(ctx, make([]byte, n)); got != SentinelServerID {
			t.Fatalf("Verify(len=%d) = %#x, want sentinel", n, got)
		}
	}
}

func TestFirstOctetIdempotentAcrossGenerateCalls(t *testing.T) {
	cfg := mustParse(t, "2N10S8-31-0123456789abcdeffedcba9876543210")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cidA := make([]byte, 10)
	cidB := make([]byte, 10)
	if err := Generate(ctx, nil, nil, cidA); err != nil {
		t.Fatal(err)
	}
	if err := Generate(ctx, nil, nil, cidB); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(cidA, cidB) {
		t.Fatal("generating twice from identical inputs produced different CIDs")
	}
	if cidA[0]>>6 != 2 {
		t.Fatalf("top two bits of cid[0] = %d, want 2 (rotation_bits)", cidA[0]>>6)
	}
}

func TestFirstByteEncodesLengthLowSixBits(t *testing.T) {
	cfg := mustParse(t, "1Y12C-0102030405")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	cid := make([]byte, 12)
	if err := Generate(ctx, nil, nil, cid); err != nil {
		t.Fatal(err)
	}
	if cid[0]&0x3F != 11 { // cid_length - 1
		t.Fatalf("low six bits = %d, want 11", cid[0]&0x3F)
	}
}

func TestGenerateRejectsWrongBufferLength(t *testing.T) {
	cfg := mustParse(t, "0N5C-2A")
	ctx, err := NewContext(cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := Generate(ctx, nil, nil, make([]byte, 4)); err == nil {
		t.Fatal("expected an error for a too-short buffer")
	}
}
