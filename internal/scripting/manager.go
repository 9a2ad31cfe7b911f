package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/dice"
)

// GlobalScope is the reserved scope for shared scripts loaded via LoadGlobal.
// CallHook falls back to it when the requested scope has no VM.
const GlobalScope = "__global__"

// CreatureInfo is a snapshot of a creature passed to Lua.
type CreatureInfo struct {
	UID     string
	Name    string
	HP      int
	MaxHP   int
	Pain    int
	Moves   int
	Effects []string
}

type vm struct {
	L     *lua.LState
	limit int
	depth int // nested CallHook frames; only the outermost installs a budget
}

// Manager owns one sandboxed LState per scope and dispatches hooks.
//
// An LState is single-threaded, so CallHook must not run concurrently; the
// turn scheduler that drives effects already guarantees this. A hook may
// re-enter CallHook through an engine.* callback and then shares the outer
// call's instruction budget.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetCreature  func(uid string) *CreatureInfo
	AddEffect    func(uid, effectID string, dur, intensity int) error
	RemoveEffect func(uid, effectID string) bool
	ModStat      func(uid, stat string, n int) error
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order. Loading
// a scope again replaces its VM.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}
	cancel()
	L.RemoveContext()

	m.mu.Lock()
	if old, ok := m.vms[scope]; ok {
		old.L.Close()
	}
	m.vms[scope] = &vm{L: L, limit: effectiveLimit(instLimit)}
	m.mu.Unlock()
	return nil
}

// LoadGlobal loads the fallback scope.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.LoadScope(GlobalScope, scriptDir, instLimit)
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.vms {
		v.L.Close()
		delete(m.vms, k)
	}
}

// HasHook reports whether hook is a function in scope or the global scope.
func (m *Manager) HasHook(scope, hook string) bool {
	v := m.lookup(scope)
	if v == nil {
		return false
	}
	return v.L.GetGlobal(hook).Type() == lua.LTFunction
}

func (m *Manager) lookup(scope string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[scope]; ok {
		return v
	}
	return m.vms[GlobalScope]
}

// CallHook calls the named Lua global function in scope's VM, falling back to
// the global VM. It returns (LNil, nil) if the hook is undefined or no VM
// exists. Lua runtime errors, including exceeding the instruction limit, are
// logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(scope)
	if v == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if v.depth == 0 {
		ctx, cancel := newCountingContext(v.limit)
		v.L.SetContext(ctx)
		defer func() {
			cancel()
			v.L.RemoveContext()
		}()
	}
	v.depth++
	defer func() { v.depth-- }()

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}
