package quiclb

// mockHost is a minimal [Host] used by this package's own tests: a plain
// struct with exactly the state Install/Uninstall need, not a mocking
// framework.
type mockHost struct {
	cidLength       int
	existingConns   bool
	generatorOwner  any
	generatorExists bool
}

var _ Host = &mockHost{}

func (h *mockHost) CIDLength() int { return h.cidLength }

func (h *mockHost) SetCIDLength(n int) { h.cidLength = n }

func (h *mockHost) HasExistingConnections() bool { return h.existingConns }

func (h *mockHost) GeneratorInstalled() (bool, any) {
	return h.generatorExists, h.generatorOwner
}

func (h *mockHost) SetGenerator(ctx *LbContext) {
	if ctx == nil {
		h.generatorExists = false
		h.generatorOwner = nil
		return
	}
	h.generatorExists = true
	h.generatorOwner = ctx
}
