package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_ResolvesNamesAndAliases(t *testing.T) {
	r := DefaultRegistry()
	for _, cmd := range BuiltinCommands() {
		got, ok := r.Resolve(cmd.Name)
		require.True(t, ok, cmd.Name)
		assert.Equal(t, cmd.Handler, got.Handler)
		for _, alias := range cmd.Aliases {
			got, ok := r.Resolve(alias)
			require.True(t, ok, alias)
			assert.Equal(t, cmd.Name, got.Name)
		}
	}
}

func TestRegistry_CommandsKeepOrder(t *testing.T) {
	cmds := DefaultRegistry().Commands()
	require.Len(t, cmds, len(BuiltinCommands()))
	assert.Equal(t, "show", cmds[0].Name)
	assert.Equal(t, "quit", cmds[len(cmds)-1].Name)
}

func TestResolve_NotFound(t *testing.T) {
	_, ok := DefaultRegistry().Resolve("teleport")
	assert.False(t, ok)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "show"}, {Name: "show"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasCollidesWithName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "show"}, {Name: "list", Aliases: []string{"show"}}})
	assert.Error(t, err)
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "show", Aliases: []string{"s"}},
		{Name: "skill", Aliases: []string{"s"}},
	})
	assert.Error(t, err)
}
