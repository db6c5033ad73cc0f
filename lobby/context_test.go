package lobby

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/gamemode"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
	"github.com/tung362/votecatalog/wire"
)

const exampleManifests = "../extension/testdata/example.yaml"

func setupLobby(t *testing.T) *Context {
	t.Helper()
	logging.Log = logrus.New()

	ctx, err := New(Settings{})
	require.NoError(t, err)
	require.NoError(t, ctx.LoadExtensions([]string{exampleManifests}))
	return ctx
}

func TestCommit(t *testing.T) {
	ctx := setupLobby(t)
	assert.Equal(t, DefaultMaxPlayers, ctx.Settings().MaxPlayers)

	_, err := ctx.EncodeRuleBook()
	assert.True(t, errors.Is(err, ErrNotCommitted))

	report, err := ctx.Commit(ReferenceHost)
	require.NoError(t, err)
	assert.NoError(t, report.Err())
	assert.True(t, ctx.Committed())

	// Game Modes and Example Settings commit before the host categories.
	categories := ctx.Catalog().Categories()
	require.Len(t, categories, 4)
	assert.Equal(t, gamemode.CategoryName, categories[0].DisplayName)
	assert.Equal(t, "Example Settings", categories[1].DisplayName)
	assert.Equal(t, "Difficulty", categories[2].DisplayName)

	assert.Equal(t, 2, ctx.Registry().HostSelectionCount())
	assert.Equal(t, 2, ctx.Catalog().FindSelection("Votes.Game Mode Selection").GlobalIndex)
	assert.Equal(t, 3, ctx.Catalog().FindSelection("Votes.Spawn Mobs Selection").GlobalIndex)

	book, err := ctx.RuleBook()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0, 0}, book.Values)

	_, err = ctx.Commit(ReferenceHost)
	assert.True(t, errors.Is(err, registry.ErrRegistryClosed))
}

func TestAdopt(t *testing.T) {
	ctx := setupLobby(t)
	_, err := ctx.Adopt()
	assert.True(t, errors.Is(err, ErrNotCommitted))

	_, err = ctx.Commit(ReferenceHost)
	require.NoError(t, err)

	t.Run("Happy path - chosen rules are resolved", func(t *testing.T) {
		require.NoError(t, ctx.Choose("Votes.Game Mode Selection", "Example"))
		session := ctx.SessionID()

		adoption, err := ctx.Adopt()
		require.NoError(t, err)
		assert.Equal(t, session, adoption.SessionID)
		assert.NotEqual(t, session, ctx.SessionID())
		assert.Len(t, ctx.SessionID(), SessionIDLength)

		require.NotNil(t, adoption.Mode)
		assert.Equal(t, "Example", adoption.Mode.Name())
		assert.True(t, adoption.Snapshot.HasVote("ExampleVotePoll", 1))
		assert.Equal(t, "Spawn Mobs", adoption.Results["Votes.Spawn Mobs Selection"])
		assert.Same(t, adoption.Snapshot, ctx.Resolver().Current())
	})

	t.Run("Happy path - rule book from a peer", func(t *testing.T) {
		peer := setupLobby(t)
		_, err := peer.Commit(ReferenceHost)
		require.NoError(t, err)
		require.NoError(t, peer.Choose("Votes.Spawn Mobs Selection", "Don't Spawn Mobs"))
		require.NoError(t, peer.Choose("Difficulty", "Hard"))
		msg, err := peer.EncodeRuleBook()
		require.NoError(t, err)

		applied, err := ctx.ApplyRuleBook(msg)
		require.NoError(t, err)
		assert.Equal(t, ctx.SessionID(), applied.SessionID)
		assert.Equal(t, "Don't Spawn Mobs", applied.Selections["Votes.Spawn Mobs Selection"])
		adoption, err := ctx.Adopt()
		require.NoError(t, err)
		assert.False(t, adoption.Snapshot.HasVote("ExampleVotePoll", 1))
		book, _ := ctx.RuleBook()
		assert.Equal(t, byte(2), book.Values[0])
	})

	t.Run("Unhappy path - unknown selection or choice", func(t *testing.T) {
		assert.True(t, errors.Is(ctx.Choose("Votes.Nope", "On"), ErrUnknownSelection))
		assert.True(t, errors.Is(ctx.Choose("Difficulty", "Nightmare"), ErrUnknownChoice))
	})
}

func TestVisibility(t *testing.T) {
	ctx := setupLobby(t)
	_, err := ctx.Commit(ReferenceHost)
	require.NoError(t, err)

	peer := setupLobby(t)
	_, err = peer.Commit(ReferenceHost)
	require.NoError(t, err)
	mask, err := peer.ChoiceMask()
	require.NoError(t, err)
	hidden := peer.Catalog().FindChoice("Votes.Spawn Mobs Selection.Spawn Mobs")
	mask.Set(hidden.GlobalIndex, false)

	w := wire.NewWriter()
	require.NoError(t, peer.Codec().EncodeVisibilityDiff(w, mask))
	require.NoError(t, ctx.ApplyVisibility(w.Bytes()))

	got, err := ctx.ChoiceMask()
	require.NoError(t, err)
	assert.False(t, got.Get(hidden.GlobalIndex))
	assert.True(t, got.Get(0))
}

func TestVotes(t *testing.T) {
	ctx := setupLobby(t)
	_, err := ctx.Commit(ReferenceHost)
	require.NoError(t, err)

	peer := setupLobby(t)
	_, err = peer.Commit(ReferenceHost)
	require.NoError(t, err)

	t.Run("Happy path - votes travel between peers", func(t *testing.T) {
		require.NoError(t, peer.Vote("alice", "Votes.Spawn Mobs Selection", "Spawn Mobs"))
		require.NoError(t, peer.Vote("alice", "Difficulty", "Hard"))
		msg, err := peer.EncodeVotes("alice")
		require.NoError(t, err)

		votes, err := ctx.ApplyVotes("alice", msg)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Votes.Spawn Mobs Selection": "Spawn Mobs",
			"Difficulty":                 "Hard",
		}, votes)
		assert.Equal(t, []string{"alice"}, ctx.Voters())
	})

	t.Run("Happy path - withdrawn vote is cleared", func(t *testing.T) {
		require.NoError(t, peer.Vote("alice", "Votes.Spawn Mobs Selection", ""))
		msg, err := peer.EncodeVotes("alice")
		require.NoError(t, err)

		votes, err := ctx.ApplyVotes("alice", msg)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Difficulty": "Hard"}, votes)
	})

	t.Run("Unhappy path - unknown voter, selection or choice", func(t *testing.T) {
		_, err := ctx.EncodeVotes("bob")
		assert.True(t, errors.Is(err, ErrUnknownVoter))
		_, err = ctx.Votes("bob")
		assert.True(t, errors.Is(err, ErrUnknownVoter))
		assert.True(t, errors.Is(ctx.Vote("alice", "Votes.Nope", "On"), ErrUnknownSelection))
		assert.True(t, errors.Is(ctx.Vote("alice", "Difficulty", "Nightmare"), ErrUnknownChoice))
	})

	t.Run("Unhappy path - truncated message keeps no sheet", func(t *testing.T) {
		msg, err := peer.EncodeVotes("alice")
		require.NoError(t, err)
		_, err = ctx.ApplyVotes("carol", msg[:len(msg)-1])
		assert.True(t, errors.Is(err, wire.ErrBufferUnderrun))
		assert.Equal(t, []string{"alice"}, ctx.Voters())
	})

	t.Run("Unhappy path - lobby full", func(t *testing.T) {
		for _, voter := range []string{"v2", "v3", "v4"} {
			require.NoError(t, ctx.Vote(voter, "Difficulty", "Easy"))
		}
		assert.True(t, errors.Is(ctx.Vote("v5", "Difficulty", "Easy"), ErrLobbyFull))
		assert.NoError(t, ctx.Vote("alice", "Difficulty", "Easy"))
	})

	t.Run("Happy path - adoption starts a fresh ballot", func(t *testing.T) {
		_, err := ctx.Adopt()
		require.NoError(t, err)
		assert.Empty(t, ctx.Voters())
	})
}
