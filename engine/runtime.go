package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/owned"
	"github.com/wippyai/owned/errors"
)

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Runtime is a wazero runtime. Drop closes it and every module compiled
// by it.
type Runtime struct {
	runtime wazero.Runtime
	closed  bool
}

// New creates a wazero runtime owned by the returned handle.
func New(ctx context.Context, cfg *Config) owned.Ptr[Runtime] {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	Logger().Debug("runtime created")
	return owned.New(&Runtime{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
	})
}

// Drop implements owned.Dropper.
func (r *Runtime) Drop() {
	if r.closed {
		return
	}
	r.closed = true
	if err := r.runtime.Close(context.Background()); err != nil {
		Logger().Warn("close runtime", zap.Error(err))
		return
	}
	Logger().Debug("runtime closed")
}

// Closed reports whether the runtime has been dropped.
func (r *Runtime) Closed() bool {
	return r.closed
}

// Compile compiles a core WebAssembly module. The returned handle owns the
// compiled module.
func (r *Runtime) Compile(ctx context.Context, wasm []byte) (owned.Ptr[Module], error) {
	if r.closed {
		return owned.Ptr[Module]{}, errors.Closed(errors.PhaseEngine, "runtime")
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return owned.Ptr[Module]{}, errors.Instantiation("compile module", err)
	}

	Logger().Debug("module compiled",
		zap.Int("size", len(wasm)),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return owned.New(&Module{compiled: compiled}), nil
}

// Module is a compiled module.
type Module struct {
	compiled wazero.CompiledModule
}

// Drop implements owned.Dropper.
func (m *Module) Drop() {
	if err := m.compiled.Close(context.Background()); err != nil {
		Logger().Warn("close compiled module", zap.Error(err))
	}
}

// Name returns the module name from the custom name section, if any.
func (m *Module) Name() string {
	return m.compiled.Name()
}

// Exports returns the exported function names, sorted.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
