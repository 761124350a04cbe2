// Package cidwire locates the Destination Connection ID field inside a
// raw QUIC packet header, so that a caller can hand the right byte
// region to [github.com/bassosimone/quiclb.Generate] or
// [github.com/bassosimone/quiclb.Verify].
//
// This package is the "external collaborator" of the codec's design: it
// represents the slice of the surrounding QUIC transport that supplies
// CID buffers and observes incoming CIDs, not part of the codec itself.
package cidwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// ErrParse is returned, possibly wrapped with additional detail, when a
// raw packet cannot be parsed far enough to locate its connection ID.
var ErrParse = errors.New("cidwire: parse error")

func newErrParse(message string) error {
	return fmt.Errorf("%w: %s", ErrParse, message)
}

// headerForm distinguishes the two QUIC packet header shapes (RFC 9000
// §17).
type headerForm int

const (
	shortHeader headerForm = iota
	longHeader
)

func classify(firstByte byte) headerForm {
	if firstByte&0b1000_0000 != 0 {
		return longHeader
	}
	return shortHeader
}

// ExtractDestinationConnectionID returns the Destination Connection ID
// octets of raw, a single QUIC packet.
//
// For a long-header packet (RFC 9000 §17.2) the DCID is length-prefixed
// by a single octet, so its length is read directly from the packet.
// For a short-header packet (RFC 9000 §17.3) QUIC does not encode the
// CID length on the wire; the caller must already know it — typically
// because it matches the length this codec's [lbconfig.Config] was
// configured with — and passes it as shortHeaderCIDLength.
func ExtractDestinationConnectionID(raw []byte, shortHeaderCIDLength int) ([]byte, error) {
	cursor := bytes.NewReader(cryptobyte.String(raw))
	firstByte, err := cursor.ReadByte()
	if err != nil {
		return nil, newErrParse("cannot read first octet")
	}

	switch classify(firstByte) {
	case longHeader:
		return extractLongHeaderDCID(cursor)
	default:
		return extractShortHeaderDCID(cursor, shortHeaderCIDLength)
	}
}

func extractLongHeaderDCID(cursor *bytes.Reader) ([]byte, error) {
	var version [4]byte
	if _, err := cursor.Read(version[:]); err != nil {
		return nil, newErrParse("cannot read version")
	}
	_ = binary.BigEndian.Uint32(version[:]) // not interpreted by this package

	dcidLen, err := cursor.ReadByte()
	if err != nil {
		return nil, newErrParse("cannot read destination connection ID length")
	}
	dcid := make([]byte, dcidLen)
	if n, err := cursor.Read(dcid); err != nil || n != len(dcid) {
		return nil, newErrParse("cannot read destination connection ID")
	}
	return dcid, nil
}

func extractShortHeaderDCID(cursor *bytes.Reader, length int) ([]byte, error) {
	if length <= 0 {
		return nil, newErrParse("short-header packets require a known CID length")
	}
	dcid := make([]byte, length)
	if n, err := cursor.Read(dcid); err != nil || n != len(dcid) {
		return nil, newErrParse("packet shorter than the expected connection ID")
	}
	return dcid, nil
}
