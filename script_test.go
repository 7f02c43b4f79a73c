package grove

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weaponFactory(kind string) (Component, error) {
	switch kind {
	case "weapon":
		return &weapon{}, nil
	case "armor":
		return &armor{}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, kind)
}

func TestParseScript(t *testing.T) {
	script, err := ParseScript([]byte(`
steps:
  - action: wait
    frames: 2
  - action: create
    path: ship
    name: bay
  - action: attach
    path: ship/bay
    kind: weapon
`), weaponFactory)
	require.NoError(t, err)
	require.Len(t, script.steps, 3)
	assert.Equal(t, "create", script.steps[1].Action)
	assert.Equal(t, "bay", script.steps[1].Name)
	assert.False(t, script.Done())
}

func TestParseScriptJSON(t *testing.T) {
	script, err := ParseScript([]byte(`{"steps": [{"action": "deactivate", "path": "ship"}]}`), nil)
	require.NoError(t, err)
	assert.Len(t, script.steps, 1)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		factory ComponentFactory
	}{
		{"empty", `steps: []`, nil},
		{"no document", ``, nil},
		{"unknown action", "steps:\n  - action: explode\n", nil},
		{"unknown key", "steps:\n  - action: wait\n    frame: 3\n", nil},
		{"attach without factory", "steps:\n  - action: attach\n    path: a\n    kind: weapon\n", nil},
		{"attach without kind", "steps:\n  - action: attach\n    path: a\n", weaponFactory},
		{"create without name", "steps:\n  - action: create\n", nil},
		{"toggle without path", "steps:\n  - action: disable\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.data), tt.factory)
			assert.Error(t, err)
		})
	}
}

func TestScriptSatisfiesWait(t *testing.T) {
	s := newTestScene()
	ship := s.NewNode("ship")
	script, err := ParseScript([]byte(`
steps:
  - action: wait
    frames: 2
  - action: create
    path: ship
    name: bay
  - action: attach
    path: ship/bay
    kind: weapon
`), weaponFactory)
	require.NoError(t, err)
	s.SetScript(script)

	p := WaitFor[*weapon](ship, ResolveOptions{Relation: Child}, time.Second)
	ticks := 0
	for !p.Done() && ticks < 10 {
		s.Tick(quarter / 5)
		ticks++
	}

	require.True(t, p.Done())
	got, err := p.Result()
	require.NoError(t, err)
	assert.Equal(t, "ship/bay", got.Node().Path())
	// wait covers ticks 1-2, create runs on 3, attach on 4.
	assert.Equal(t, 4, ticks)
	assert.True(t, script.Done())
}

func TestScriptToggles(t *testing.T) {
	s := newTestScene()
	ship := s.NewNode("ship")
	w := Attach(ship.NewChild("gun"), &weapon{})

	script, err := ParseScript([]byte(`
steps:
  - action: deactivate
    path: ship/gun
  - action: activate
    path: ship/gun
  - action: disable
    path: ship/gun
  - action: enable
    path: ship/gun
  - action: dispose
    path: ship/gun
`), nil)
	require.NoError(t, err)
	s.SetScript(script)

	s.Tick(0)
	assert.False(t, w.Node().Active)
	s.Tick(0)
	assert.True(t, w.Node().Active)
	s.Tick(0)
	assert.False(t, w.Enabled())
	s.Tick(0)
	assert.True(t, w.Enabled())
	gun := w.Node()
	s.Tick(0)
	assert.True(t, gun.IsDisposed())
	assert.True(t, script.Done())
}

func TestScriptMissingPathIsLogged(t *testing.T) {
	s := newTestScene()
	hook := test.NewLocal(s.Logger())
	script, err := ParseScript([]byte("steps:\n  - action: dispose\n    path: nowhere\n"), nil)
	require.NoError(t, err)
	s.SetScript(script)

	s.Tick(0)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "grove: script step failed", entry.Message)
	assert.Equal(t, "nowhere", entry.Data["path"])
	assert.True(t, script.Done())
}

func TestScriptCreateRoot(t *testing.T) {
	s := newTestScene()
	script, err := ParseScript([]byte("steps:\n  - action: create\n    name: late\n"), nil)
	require.NoError(t, err)
	s.SetScript(script)
	s.Tick(0)
	assert.NotNil(t, s.Find("late"))
}
