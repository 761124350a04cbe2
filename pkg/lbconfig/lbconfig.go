// Package lbconfig parses the QUIC-LB configuration descriptor string into
// a validated [Config]. The descriptor is a single ASCII string agreed
// upon out of band between a load balancer and the servers behind it;
// this package neither negotiates nor transports it.
package lbconfig

//
// Configuration descriptor grammar and validation
//

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/cryptobyte"
)

// ErrMalformedConfig is returned, possibly wrapped with additional
// detail, whenever the descriptor string violates the grammar in §4.2 or
// the length invariants in §3.
var ErrMalformedConfig = errors.New("lbconfig: invalid configuration")

func newErrMalformedConfig(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedConfig, reason)
}

// Method identifies one of the three QUIC-LB CID encodings.
type Method uint8

const (
	// Clear stores the server ID in plaintext.
	Clear Method = iota

	// StreamCipher masks the server ID and a nonce with an AES-derived
	// keystream.
	StreamCipher

	// BlockCipher encrypts the server ID as part of a single AES block.
	BlockCipher
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Clear:
		return "clear"
	case StreamCipher:
		return "stream-cipher"
	case BlockCipher:
		return "block-cipher"
	default:
		return "unknown"
	}
}

// KeySize is the only AES key size this codec supports.
const KeySize = 16

// MaxCIDLength is the QUIC maximum connection ID length (RFC 9000 §17.2).
const MaxCIDLength = 20

// Config is the validated result of [Parse]. Once parsed it is immutable;
// callers that need to derive runtime state from it should pass it to
// this package's consumers, not mutate it in place.
type Config struct {
	// RotationBits is written into the top two bits of the first CID
	// octet. QUIC-LB reserves no particular meaning for any value in
	// 0..3; interpretation is left to the load-balancer operator.
	RotationBits uint8

	// FirstByteEncodesLength, if true, makes the first CID octet also
	// encode cid_length-1 in its low six bits.
	FirstByteEncodesLength bool

	// CIDLength is the total CID length in octets. Zero means "inherit
	// the length the host would otherwise choose".
	CIDLength uint8

	// Method is the CID encoding scheme.
	Method Method

	// NonceLength is the number of nonce octets. Only meaningful when
	// Method is StreamCipher, where it must be in 8..16.
	NonceLength uint8

	// ServerIDLength is the number of octets that hold the server ID,
	// in 1..16.
	ServerIDLength uint8

	// ServerIDValue is the big-endian server ID, serialized into exactly
	// ServerIDLength octets.
	ServerIDValue uint64

	// Key is the AES-128 key used by StreamCipher and BlockCipher. It is
	// the zero value for Clear.
	Key [KeySize]byte
}

// ServerIDBytes returns the big-endian serialization of ServerIDValue in
// exactly ServerIDLength octets.
func (c *Config) ServerIDBytes() []byte {
	out := make([]byte, c.ServerIDLength)
	v := c.ServerIDValue
	for i := int(c.ServerIDLength) - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// String renders c back into its canonical descriptor form. Re-parsing
// the result with [Parse] always yields an equal [Config] (§8's parser
// round-trip property).
func (c *Config) String() string {
	var buf bytes.Buffer
	buf.WriteByte('0' + c.RotationBits)
	if c.FirstByteEncodesLength {
		buf.WriteByte('Y')
	} else {
		buf.WriteByte('N')
	}
	if c.CIDLength != 0 {
		buf.WriteString(strconv.Itoa(int(c.CIDLength)))
	}
	switch c.Method {
	case Clear:
		buf.WriteByte('C')
	case StreamCipher:
		buf.WriteByte('S')
		buf.WriteString(strconv.Itoa(int(c.NonceLength)))
	case BlockCipher:
		buf.WriteByte('B')
	}
	buf.WriteByte('-')
	buf.WriteString(hex.EncodeToString(c.ServerIDBytes()))
	if c.Method != Clear {
		buf.WriteByte('-')
		buf.WriteString(hex.EncodeToString(c.Key[:]))
	}
	return buf.String()
}

// Parse validates and parses a QUIC-LB configuration descriptor, per the
// grammar in §4.2:
//
//	<rot_digit><Y|N|y|n><cid_len_decimal?><method_letter>[<nonce_len_decimal>]-<server_id_hex>[-<key_hex>]
//
// Any violation of the grammar, or of the length invariants in §3, is
// reported as a single wrapped [ErrMalformedConfig]; there is no partial
// or best-effort result.
func Parse(s string) (*Config, error) {
	cursor := bytes.NewReader(cryptobyte.String(s))

	rot, err := cursor.ReadByte()
	if err != nil || rot < '0' || rot > '3' {
		return nil, newErrMalformedConfig("missing or invalid rotation digit")
	}

	lenEnc, err := cursor.ReadByte()
	if err != nil {
		return nil, newErrMalformedConfig("missing length-encoding flag")
	}
	var firstByteEncodesLength bool
	switch lenEnc {
	case 'Y', 'y':
		firstByteEncodesLength = true
	case 'N', 'n':
		firstByteEncodesLength = false
	default:
		return nil, newErrMalformedConfig("length-encoding flag must be one of Y, y, N, n")
	}

	cidLenDigits, err := readDigits(cursor)
	if err != nil {
		return nil, err
	}
	cidLength, err := parseUint8Decimal(cidLenDigits, "cid_length")
	if err != nil {
		return nil, err
	}

	methodByte, err := cursor.ReadByte()
	if err != nil {
		return nil, newErrMalformedConfig("missing method letter")
	}

	cfg := &Config{
		RotationBits:           rot - '0',
		FirstByteEncodesLength: firstByteEncodesLength,
		CIDLength:              cidLength,
	}

	switch methodByte {
	case 'C', 'c':
		cfg.Method = Clear
	case 'B', 'b':
		cfg.Method = BlockCipher
	case 'S', 's':
		cfg.Method = StreamCipher
		nonceDigits, err := readDigits(cursor)
		if err != nil {
			return nil, err
		}
		nonceLength, err := parseUint8Decimal(nonceDigits, "nonce_length")
		if err != nil {
			return nil, err
		}
		cfg.NonceLength = nonceLength
	default:
		return nil, newErrMalformedConfig("method letter must be one of C, c, S, s, B, b")
	}

	if b, err := cursor.ReadByte(); err != nil || b != '-' {
		return nil, newErrMalformedConfig("missing '-' before server-id hex")
	}

	serverIDHex, err := readHexUntilDashOrEnd(cursor)
	if err != nil {
		return nil, err
	}
	if len(serverIDHex) < 2 || len(serverIDHex) > 16 || len(serverIDHex)%2 != 0 {
		return nil, newErrMalformedConfig("server-id hex must be 2..16 nibbles")
	}
	serverIDBytes, err := hex.DecodeString(serverIDHex)
	if err != nil {
		return nil, newErrMalformedConfig("server-id is not valid hex")
	}
	cfg.ServerIDLength = uint8(len(serverIDBytes))
	for _, b := range serverIDBytes {
		cfg.ServerIDValue = cfg.ServerIDValue<<8 | uint64(b)
	}

	// optional key segment
	var keyProvided bool
	if nextByte, err := cursor.ReadByte(); err == nil {
		if nextByte != '-' {
			return nil, newErrMalformedConfig("unexpected trailing character")
		}
		keyHex, err := readHexUntilDashOrEnd(cursor)
		if err != nil {
			return nil, err
		}
		if len(keyHex) != 2*KeySize {
			return nil, newErrMalformedConfig("key hex must be exactly 32 nibbles")
		}
		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, newErrMalformedConfig("key is not valid hex")
		}
		copy(cfg.Key[:], keyBytes)
		keyProvided = true
		if _, err := cursor.ReadByte(); err == nil {
			return nil, newErrMalformedConfig("unexpected trailing character")
		}
	}

	if err := validate(cfg, keyProvided); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config, keyProvided bool) error {
	if cfg.ServerIDLength < 1 {
		return newErrMalformedConfig("server_id_length must be at least 1")
	}
	if cfg.CIDLength > MaxCIDLength {
		return newErrMalformedConfig("cid_length exceeds the QUIC maximum of 20")
	}

	// cid_length == 0 means "inherit from host" (§3); the length
	// invariants below apply to the effective length, which is not known
	// until install time in that case, so [ResolveCIDLength] re-runs them
	// once the host's length is known.
	haveCIDLength := cfg.CIDLength != 0

	switch cfg.Method {
	case Clear:
		if haveCIDLength && int(cfg.CIDLength) < 1+int(cfg.ServerIDLength) {
			return newErrMalformedConfig("cid_length too small for clear encoding")
		}
		if keyProvided {
			return newErrMalformedConfig("clear method must not carry a key")
		}
	case StreamCipher:
		if cfg.NonceLength < 8 || cfg.NonceLength > 16 {
			return newErrMalformedConfig("nonce_length must be in 8..16")
		}
		if haveCIDLength && int(cfg.CIDLength) < 1+int(cfg.NonceLength)+int(cfg.ServerIDLength) {
			return newErrMalformedConfig("cid_length too small for stream-cipher encoding")
		}
		if !keyProvided {
			return newErrMalformedConfig("stream-cipher method requires a key")
		}
	case BlockCipher:
		if haveCIDLength && cfg.CIDLength < 17 {
			return newErrMalformedConfig("cid_length must be at least 17 for block-cipher encoding")
		}
		if cfg.ServerIDLength > 15 {
			return newErrMalformedConfig("server_id_length must be at most 15 for block-cipher encoding")
		}
		if !keyProvided {
			return newErrMalformedConfig("block-cipher method requires a key")
		}
	default:
		return newErrMalformedConfig("unknown method")
	}
	return nil
}

// MinCIDLength returns the smallest CID length that cfg's method allows,
// given cfg's nonce and server-id lengths. [ResolveCIDLength] uses this to
// validate an inherited (host-supplied) length.
func (c *Config) MinCIDLength() int {
	switch c.Method {
	case StreamCipher:
		return 1 + int(c.NonceLength) + int(c.ServerIDLength)
	case BlockCipher:
		return 17
	default:
		return 1 + int(c.ServerIDLength)
	}
}

// ResolveCIDLength returns the effective CID length for cfg, consulting
// hostLength (the host's current CID-length preference, or zero if the
// host has none yet) when cfg.CIDLength is zero ("inherit from host").
// It re-validates the length invariants of §3 against the effective
// length and fails with [ErrMalformedConfig] if they are not satisfied.
func (c *Config) ResolveCIDLength(hostLength int) (int, error) {
	effective := int(c.CIDLength)
	if effective == 0 {
		effective = hostLength
	}
	if effective < c.MinCIDLength() {
		return 0, newErrMalformedConfig("effective cid_length too small for method")
	}
	if effective > MaxCIDLength {
		return 0, newErrMalformedConfig("effective cid_length exceeds the QUIC maximum of 20")
	}
	return effective, nil
}

func readDigits(cursor *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := cursor.ReadByte()
		if err != nil {
			break
		}
		if b < '0' || b > '9' {
			if err := cursor.UnreadByte(); err != nil {
				return "", newErrMalformedConfig("internal cursor error")
			}
			break
		}
		buf.WriteByte(b)
	}
	return buf.String(), nil
}

func readHexUntilDashOrEnd(cursor *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := cursor.ReadByte()
		if err != nil {
			break
		}
		if b == '-' {
			if err := cursor.UnreadByte(); err != nil {
				return "", newErrMalformedConfig("internal cursor error")
			}
			break
		}
		buf.WriteByte(b)
	}
	return buf.String(), nil
}

func parseUint8Decimal(digits string, field string) (uint8, error) {
	if digits == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < 0 || v > 255 {
		return 0, newErrMalformedConfig(field + " must be a decimal value in 0..255")
	}
	return uint8(v), nil
}
