package quiclb

//
// Install / uninstall onto a Host
//

import (
	"github.com/bassosimone/quiclb/pkg/lbconfig"
)

// Install validates cfg, allocates an [LbContext], and registers it as
// host's CID-generation callback, per §4.5.
//
// Install refuses to proceed — returning [ErrIncompatibleHostState] —
// if host already has a different CID-generation callback registered,
// or if host already has live connections using a CID length
// incompatible with cfg. On any other failure (malformed lengths, AES
// key-schedule failure) it returns without touching host's state.
//
// logger receives a diagnostic message for every outcome; pass
// [&NullLogger{}] if the caller does not care.
func Install(logger Logger, host Host, cfg *lbconfig.Config) (*LbContext, error) {
	if installed, _ := host.GeneratorInstalled(); installed {
		logger.Warn("quiclb: install refused, a generator is already installed")
		return nil, ErrIncompatibleHostState
	}

	effectiveLength, err := cfg.ResolveCIDLength(host.CIDLength())
	if err != nil {
		logger.Warnf("quiclb: install refused, %s", err)
		return nil, ErrInconsistentLengths
	}
	if host.HasExistingConnections() && host.CIDLength() != 0 && host.CIDLength() != effectiveLength {
		logger.Warn("quiclb: install refused, incompatible cid_length with live connections")
		return nil, ErrIncompatibleHostState
	}

	ctx, err := NewContext(cfg, host.CIDLength())
	if err != nil {
		logger.Warnf("quiclb: install failed, %s", err)
		return nil, err
	}

	host.SetCIDLength(ctx.CIDLength())
	host.SetGenerator(ctx)
	logger.Infof("quiclb: installed method=%s cid_length=%d", ctx.Method(), ctx.CIDLength())
	return ctx, nil
}

// Uninstall releases ctx's AES state and clears host's callback, but
// only if the callback currently registered on host is ctx itself. If a
// different (or no) callback is installed, Uninstall is a no-op, per
// §4.5.
func Uninstall(logger Logger, host Host, ctx *LbContext) {
	installed, owner := host.GeneratorInstalled()
	if !installed {
		return
	}
	if owningCtx, ok := owner.(*LbContext); !ok || owningCtx != ctx {
		return
	}
	host.SetGenerator(nil)
	ctx.Free()
	logger.Infof("quiclb: uninstalled method=%s", ctx.Method())
}
