package grove

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
dependencies:
  weapon:
    relation: descendant
    contains: gun
    order: closest
  rig:
    relations: parent|ancestor
    optional: true
  mirror:
    relation: whole-tree
    sided: true
    exclude_sibling: true
    include_hidden: true
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, []string{"mirror", "rig", "weapon"}, m.Names())

	weapon, err := m.Lookup("weapon")
	require.NoError(t, err)
	assert.Equal(t, ResolveOptions{Relation: Descendant, Contains: "gun", Order: OrderClosest}, weapon)

	rig, err := m.Lookup("rig")
	require.NoError(t, err)
	assert.Equal(t, Relations(Parent, Ancestor), rig.Relations)
	assert.True(t, rig.Optional)
	assert.Equal(t, Parent, rig.relation())

	mirror, err := m.Lookup("mirror")
	require.NoError(t, err)
	assert.Equal(t, ResolveOptions{
		Relation:       WholeTree,
		Sided:          true,
		ExcludeSibling: true,
		IncludeHidden:  true,
	}, mirror)

	_, err = m.Lookup("shield")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "dependencies:\n  weapon:\n    relashun: parent\n"},
		{"bad relation", "dependencies:\n  weapon:\n    relation: cousin\n"},
		{"bad order", "dependencies:\n  weapon:\n    order: random\n"},
		{"not yaml", "dependencies: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseManifestEmpty(t *testing.T) {
	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Names())
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m, 3)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestManifestDrivesResolve(t *testing.T) {
	s := newTestScene()
	root := s.NewNode("ship")
	Attach(root.NewChild("Gun_Front"), &weapon{Damage: 1})
	Attach(root.NewChild("hull").NewChild("gun_rear"), &weapon{Damage: 2})

	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)
	opts, err := m.Lookup("weapon")
	require.NoError(t, err)

	got, err := Resolve[*weapon](root, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Damage)
}
