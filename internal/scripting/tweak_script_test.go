package scripting_test

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/powercast/internal/scripting"
)

func newTweakScript(t *testing.T, src string, limit int) (*scripting.TweakScript, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	s, err := scripting.NewTweakScript(src, limit, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, logs
}

func TestTweakScript_ReplacesMatchingPath(t *testing.T) {
	s, _ := newTweakScript(t, `
		function tweak(path, value, name)
			if path == "forceCasting.maxPoints" then
				return value + 2
			end
			return nil
		end
	`, 0)
	assert.Equal(t, 12, s.Apply("forceCasting.maxPoints", 10, "Kira"))
	assert.Equal(t, 10, s.Apply("techCasting.maxPoints", 10, "Kira"))
}

func TestTweakScript_SeesCharacterName(t *testing.T) {
	s, _ := newTweakScript(t, `
		function tweak(path, value, name)
			if name == "Vex" then return 0 end
		end
	`, 0)
	assert.Equal(t, 0, s.Apply("techCasting.saveDC", 14, "Vex"))
	assert.Equal(t, 14, s.Apply("techCasting.saveDC", 14, "Kira"))
}

func TestTweakScript_MissingHookIsIdentity(t *testing.T) {
	s, _ := newTweakScript(t, `local unused = 1`, 0)
	assert.Equal(t, 7, s.Apply("techCasting.attackModifier", 7, ""))
}

func TestTweakScript_RuntimeErrorLoggedAndIgnored(t *testing.T) {
	s, logs := newTweakScript(t, `
		function tweak(path, value, name)
			error("boom")
		end
	`, 0)
	assert.Equal(t, 5, s.Apply("techCasting.maxPowerLevel", 5, "Kira"))
	require.Equal(t, 1, logs.FilterMessage("scripting: tweak hook failed").Len())
}

func TestTweakScript_BudgetIsPerCall(t *testing.T) {
	s, logs := newTweakScript(t, `
		function tweak(path, value, name)
			if path == "spin" then
				while true do end
			end
			return value * 2
		end
	`, 1000)
	assert.Equal(t, 3, s.Apply("spin", 3, ""))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, true, logs.All()[0].ContextMap()["budget_exhausted"])
	// A fresh budget lets the next call run to completion.
	assert.Equal(t, 8, s.Apply("techCasting.maxPoints", 4, ""))
}

func TestTweakScript_UnusableNumbersKeepValue(t *testing.T) {
	s, logs := newTweakScript(t, `
		function tweak(path, value, name)
			if path == "nan" then return 0/0 end
			if path == "inf" then return 1/0 end
			if path == "-inf" then return -1/0 end
			if path == "huge" then return 1e300 end
			if path == "-huge" then return -1e300 end
			return value
		end
	`, 0)
	for _, path := range []string{"nan", "inf", "-inf", "huge", "-huge"} {
		assert.Equal(t, 11, s.Apply(path, 11, "Kira"), path)
	}
	warned := logs.FilterMessage("scripting: tweak hook returned unusable number")
	require.Equal(t, 5, warned.Len())
	assert.Equal(t, "nan", warned.All()[0].ContextMap()["path"])
}

func TestTweakScript_FractionsRoundHalfAwayFromZero(t *testing.T) {
	s, logs := newTweakScript(t, `
		function tweak(path, value, name)
			return value * 1.5
		end
	`, 0)
	assert.Equal(t, 8, s.Apply("techCasting.maxPoints", 5, ""))   // 7.5
	assert.Equal(t, -8, s.Apply("techCasting.maxPoints", -5, "")) // -7.5
	assert.Equal(t, 6, s.Apply("techCasting.maxPoints", 4, ""))   // 6.0
	assert.Equal(t, 0, logs.Len())
}

func TestTweakScript_LoadError(t *testing.T) {
	_, err := scripting.NewTweakScript(`function (`, 0, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadTweakScript_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweaks.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function tweak(p, v) return 42 end`), 0644))
	s, err := scripting.LoadTweakScript(path, 0, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 42, s.Apply("techCasting.maxPoints", 1, ""))
}

func TestLoadTweakScript_MissingFile(t *testing.T) {
	_, err := scripting.LoadTweakScript(filepath.Join(t.TempDir(), "nope.lua"), 0, zap.NewNop())
	assert.Error(t, err)
}

func TestTweakScript_ConcurrentApply(t *testing.T) {
	s, _ := newTweakScript(t, `function tweak(p, v) return v + 1 end`, 0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.Equal(t, n+1, s.Apply("techCasting.maxPoints", n, ""))
		}(i)
	}
	wg.Wait()
}

// Property: an identity hook never changes the value.
func TestProperty_IdentityHookPreservesValue(t *testing.T) {
	s, _ := newTweakScript(t, `function tweak(p, v) return v end`, 0)
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(-100, 100).Draw(rt, "value")
		if got := s.Apply("forceCasting.darkSaveDC", v, ""); got != v {
			rt.Fatalf("got %d, want %d", got, v)
		}
	})
}

// Property: any finite in-range result is rounded, never truncated or wrapped.
func TestProperty_ScaledResultRounds(t *testing.T) {
	s, _ := newTweakScript(t, `function tweak(p, v) return v / 4 end`, 0)
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(-1000, 1000).Draw(rt, "value")
		want := int(math.Round(float64(v) / 4))
		if got := s.Apply("forceCasting.maxPoints", v, ""); got != want {
			rt.Fatalf("v=%d: got %d, want %d", v, got, want)
		}
	})
}
