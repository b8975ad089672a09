// Package scripting provides a sandboxed GopherLua execution environment for
// homebrew tweak scripts. It has no dependency on the casting domain; callers
// pass plain values in and get plain values back.
package scripting

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script invocation when no limit is configured.
const DefaultInstructionLimit = 100_000

// ErrBudgetExhausted is reported by an exhausted Budget's Err method.
var ErrBudgetExhausted = errors.New("scripting: instruction budget exhausted")

// sandboxLibs are the only standard libraries opened in a sandboxed state.
var sandboxLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// strippedGlobals are removed after OpenBase because they reach outside the VM.
var strippedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// Budget is an instruction counter installed as an LState's context.
// GopherLua polls Done once per opcode, so the budget closes its channel
// after exactly Limit opcodes. Reset rearms it for the next invocation.
//
// Budget satisfies context.Context.
type Budget struct {
	limit     int64
	remaining atomic.Int64

	mu        sync.Mutex
	done      chan struct{}
	exhausted bool
}

func newBudget(limit int) *Budget {
	b := &Budget{limit: int64(limit), done: make(chan struct{})}
	b.remaining.Store(b.limit)
	return b
}

// Limit returns the opcode allowance per invocation.
func (b *Budget) Limit() int { return int(b.limit) }

// Deadline reports that a Budget has no wall-clock deadline.
func (b *Budget) Deadline() (time.Time, bool) { return time.Time{}, false }

// Done charges one opcode and returns the channel closed on exhaustion.
func (b *Budget) Done() <-chan struct{} {
	if b.remaining.Add(-1) <= 0 {
		b.exhaust()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Err returns ErrBudgetExhausted once the allowance is spent, else nil.
func (b *Budget) Err() error {
	if b.Exhausted() {
		return ErrBudgetExhausted
	}
	return nil
}

// Value carries no request-scoped values.
func (b *Budget) Value(any) any { return nil }

// Exhausted reports whether the allowance ran out since the last Reset.
func (b *Budget) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exhausted
}

// Reset restores the full allowance, replacing the closed channel if needed.
func (b *Budget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exhausted {
		b.done = make(chan struct{})
		b.exhausted = false
	}
	b.remaining.Store(b.limit)
}

func (b *Budget) exhaust() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.exhausted {
		b.exhausted = true
		close(b.done)
	}
}

// NewSandboxedState creates a GopherLua LState limited to the base, table,
// string, and math libraries, with file and module loading globals removed,
// and with a Budget of instLimit opcodes installed as its context.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState and its Budget. The caller owns the
// LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) (*lua.LState, *Budget) {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range sandboxLibs {
		open(L)
	}
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	budget := newBudget(instLimit)
	L.SetContext(budget)
	return L, budget
}
