package tweak

import (
	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/scripting"
)

// Scripted routes every field through a Lua tweak script.
//
// Precondition: s must be non-nil.
func Scripted(s *scripting.TweakScript) Overrider {
	return Func(func(c *character.Character, path string, value int) int {
		name := ""
		if c != nil {
			name = c.Name
		}
		return s.Apply(path, value, name)
	})
}
