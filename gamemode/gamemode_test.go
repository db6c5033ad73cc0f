package gamemode

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
	"github.com/tung362/votecatalog/vote"
)

type hookedMode struct {
	*Base
	set, unset int
}

func (m *hookedMode) SetHooks()   { m.set++ }
func (m *hookedMode) UnsetHooks() { m.unset++ }

func setupModes(t *testing.T) (*Registry, *registry.Registry) {
	t.Helper()
	logging.Log = logrus.New()
	votes := registry.New(catalog.New())
	modes, err := New(votes)
	require.NoError(t, err)
	return modes, votes
}

func TestRegister(t *testing.T) {
	modes, votes := setupModes(t)

	t.Run("Happy path - mode becomes a choice", func(t *testing.T) {
		require.NoError(t, modes.Register("Game mode description", "@Example:Assets/Resources/UI/Example.png", NewBase("Example")))

		choice := modes.Selection().FindChoice("Example")
		require.NotNil(t, choice)
		assert.Equal(t, "Example", choice.Payload)
		assert.Equal(t, PollKey, choice.PollKey)
		assert.Equal(t, -1, choice.VoteBit)
		assert.Equal(t, "Game mode description", choice.Tooltip.Body)
		assert.Equal(t, []string{"Example", Vanilla}, modes.Names())
	})

	t.Run("Unhappy path - duplicate mode", func(t *testing.T) {
		err := modes.Register("", "", NewBase("Example"))
		assert.True(t, errors.Is(err, ErrDuplicateMode))
	})

	t.Run("Unhappy path - nil mode", func(t *testing.T) {
		assert.True(t, errors.Is(modes.Register("", "", nil), ErrNilMode))
	})

	t.Run("Unhappy path - empty name", func(t *testing.T) {
		assert.True(t, errors.Is(modes.Register("", "", NewBase("")), ErrEmptyName))
	})

	t.Run("Unhappy path - registry committed", func(t *testing.T) {
		_, err := votes.Commit(nil)
		require.NoError(t, err)
		err = modes.Register("", "", NewBase("Late"))
		assert.True(t, errors.Is(err, registry.ErrRegistryClosed))
		_, ok := modes.Mode("Late")
		assert.False(t, ok)
	})

	assert.Equal(t, 0, modes.Selection().DefaultChoiceIndex)
	assert.Equal(t, "Votes.Game Mode Selection", modes.Selection().GlobalName)
}

func TestGameLifecycle(t *testing.T) {
	modes, votes := setupModes(t)
	example := &hookedMode{Base: NewBase("Example")}
	require.NoError(t, modes.Register("Example mode", "", example))
	_, err := votes.Commit(nil)
	require.NoError(t, err)
	resolver := vote.NewResolver(votes.Catalog(), votes)

	var events []string
	modes.OnPreGameStart(func() { events = append(events, "pre") })
	modes.OnPostGameStart(func() { events = append(events, "post") })
	modes.OnGameEnd(func() { events = append(events, "end") })

	t.Run("Happy path - voted mode is activated", func(t *testing.T) {
		snapshot := resolver.Resolve(map[string]string{"Votes.Game Mode Selection": "Example"})
		active := modes.StartGame(snapshot, func() { events = append(events, "run") })

		assert.Same(t, example, active)
		assert.Same(t, example, modes.Active())
		assert.Equal(t, 1, example.set)
		assert.Equal(t, []string{"pre", "run", "post"}, events)
	})

	t.Run("Happy path - game end unsets the mode", func(t *testing.T) {
		modes.EndGame()
		assert.Nil(t, modes.Active())
		assert.Equal(t, 1, example.unset)
		assert.Equal(t, "end", events[len(events)-1])
	})

	t.Run("Happy path - vanilla choice", func(t *testing.T) {
		snapshot := resolver.Resolve(map[string]string{"Votes.Game Mode Selection": "Vanilla Game Mode"})
		active := modes.Activate(snapshot)
		require.NotNil(t, active)
		assert.Equal(t, Vanilla, active.Name())
		modes.Deactivate()
	})

	t.Run("Unhappy path - no game mode result", func(t *testing.T) {
		assert.Nil(t, modes.Activate(resolver.Resolve(nil)))
		assert.Nil(t, modes.Active())
	})
}

func TestBaseBans(t *testing.T) {
	b := NewBase("Example")
	assert.True(t, b.AllowVanillaSpawnMobs)
	b.BanItem("Behemoth")
	b.BanEquipment("Meteor")
	assert.True(t, b.IsItemBanned("Behemoth"))
	assert.False(t, b.IsItemBanned("Syringe"))
	assert.True(t, b.IsEquipmentBanned("Meteor"))
}
