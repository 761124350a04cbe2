package quiclb

import "errors"

// ErrInconsistentLengths indicates that the server-ID, nonce, and CID
// length invariants of §3 are violated by an otherwise well-formed
// [lbconfig.Config].
var ErrInconsistentLengths = errors.New("quiclb: inconsistent server-id/nonce/cid lengths")

// ErrIncompatibleHostState indicates that [Install] was called on a
// [Host] that already has connections using a different CID length, or
// that already has a different CID-generation callback registered.
var ErrIncompatibleHostState = errors.New("quiclb: host has incompatible existing state")

// ErrCryptoInitFailure indicates that [Install] could not allocate the
// AES state required by the configured method.
var ErrCryptoInitFailure = errors.New("quiclb: failed to initialize AES state")

// sentinelServerID is returned by [Verify] when the observed CID cannot
// be attributed to a server: its length does not match the configured
// cid_length, or the installed method is not one this package knows.
const sentinelServerID uint64 = ^uint64(0)
