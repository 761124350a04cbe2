package quiclb

//
// Data model
//

// Logger is the logger used by this package's callers. A pointer to a
// zero-value [NullLogger] implements this interface by discarding all
// messages.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// NullLogger is a [Logger] that discards every message. The zero value
// is ready to use.
type NullLogger struct{}

var _ Logger = &NullLogger{}

// Debug implements Logger.
func (*NullLogger) Debug(message string) {}

// Debugf implements Logger.
func (*NullLogger) Debugf(format string, v ...any) {}

// Info implements Logger.
func (*NullLogger) Info(message string) {}

// Infof implements Logger.
func (*NullLogger) Infof(format string, v ...any) {}

// Warn implements Logger.
func (*NullLogger) Warn(message string) {}

// Warnf implements Logger.
func (*NullLogger) Warnf(format string, v ...any) {}

// Host is the subset of the surrounding QUIC implementation that this
// codec needs to install itself onto. A real QUIC stack implements this
// interface directly on its connection-ID-issuer type; tests use a mock.
//
// [Install] and [Uninstall] are the only operations that mutate a Host;
// [Generate] and [Verify] never touch it beyond the cid_local/cid_remote
// arguments they accept for signature compatibility with the host's
// callback shape.
type Host interface {
	// CIDLength returns the CID length currently in use by the host, or
	// zero if the host has no CID length preference yet.
	CIDLength() int

	// SetCIDLength records the CID length the host must use from now on.
	SetCIDLength(n int)

	// HasExistingConnections reports whether the host already has live
	// connections. [Install] refuses to change the CID length underneath
	// an existing connection.
	HasExistingConnections() bool

	// GeneratorInstalled reports whether a CID-generation callback is
	// already registered, and if so, whether it is this codec's own
	// context (identified by the cb argument [Install] previously gave
	// the host).
	GeneratorInstalled() (installed bool, owner any)

	// SetGenerator registers (or clears, when ctx is nil) the
	// CID-generation callback pair with the host.
	SetGenerator(ctx *LbContext)
}
