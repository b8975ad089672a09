package scripting

import (
	"fmt"
	"math"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// TweakHook is the Lua global a tweak script defines:
//
//	function tweak(path, value, character_name) ... end
//
// Returning a number replaces value; returning nil keeps it. Fractional
// results round half away from zero. NaN, infinities, and results outside
// the int range are rejected and keep value.
const TweakHook = "tweak"

// TweakScript owns one sandboxed VM running a homebrew tweak script.
//
// TweakScript is safe for concurrent use; calls are serialized on the VM.
type TweakScript struct {
	mu     sync.Mutex
	L      *lua.LState
	budget *Budget
	logger *zap.Logger
}

// LoadTweakScript reads and executes the Lua file at path.
//
// Precondition: path must name a readable Lua file; logger must be non-nil.
// Postcondition: Returns a ready TweakScript or a non-nil error.
func LoadTweakScript(path string, instLimit int, logger *zap.Logger) (*TweakScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading tweak script %q: %w", path, err)
	}
	s, err := NewTweakScript(string(src), instLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	return s, nil
}

// NewTweakScript executes src in a fresh sandbox.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a ready TweakScript or the Lua load error.
func NewTweakScript(src string, instLimit int, logger *zap.Logger) (*TweakScript, error) {
	L, budget := NewSandboxedState(instLimit)
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, err
	}
	return &TweakScript{L: L, budget: budget, logger: logger}, nil
}

// Apply calls the script's tweak hook with a full instruction budget.
// Missing hooks and non-numeric results leave value unchanged. Runtime
// errors, budget exhaustion, and unrepresentable numbers also leave it
// unchanged and are logged at Warn level, never propagated.
func (s *TweakScript) Apply(path string, value int, characterName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.L.GetGlobal(TweakHook)
	if fn.Type() != lua.LTFunction {
		return value
	}

	s.budget.Reset()
	if err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(path), lua.LNumber(value), lua.LString(characterName)); err != nil {
		s.logger.Warn("scripting: tweak hook failed",
			zap.String("path", path),
			zap.String("character", characterName),
			zap.Bool("budget_exhausted", s.budget.Exhausted()),
			zap.Error(err),
		)
		return value
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return value
	}
	out, ok := toInt(float64(n))
	if !ok {
		s.logger.Warn("scripting: tweak hook returned unusable number",
			zap.String("path", path),
			zap.String("character", characterName),
			zap.Float64("result", float64(n)),
		)
		return value
	}
	return out
}

// toInt rounds f half away from zero and reports whether the result is a
// finite value representable as int.
func toInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Round(f)
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
	if r < math.MinInt || r >= math.MaxInt {
		return 0, false
	}
	return int(r), true
}

// Close releases the VM.
func (s *TweakScript) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.Close()
}
