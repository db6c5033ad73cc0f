package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryResultStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResultStorage()

	results := []*PollResult{
		{SessionID: "abc12", PollKey: "GameModePoll", Payloads: map[string]string{"Votes.Game Mode Selection": "Example"}},
		{SessionID: "abc12", PollKey: "ExampleVotePoll", Mask: 2, Payloads: map[string]string{"Votes.Spawn Mobs Selection": "true"}},
	}

	t.Run("Happy path - create and read back", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, results))

		got, err := s.GetBySession(ctx, "abc12")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ExampleVotePoll", got[0].PollKey)
		assert.Equal(t, uint32(2), got[0].Mask)
		assert.False(t, got[0].CreatedAt.IsZero())

		got[0].Payloads["tampered"] = "yes"
		again, _ := s.GetBySession(ctx, "abc12")
		assert.NotContains(t, again[0].Payloads, "tampered")
	})

	t.Run("Unhappy path - session written twice", func(t *testing.T) {
		err := s.Create(ctx, results)
		assert.True(t, errors.Is(err, ErrItemAlreadyExists))
	})

	t.Run("Happy path - unknown session is empty", func(t *testing.T) {
		got, err := s.GetBySession(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Happy path - delete session", func(t *testing.T) {
		require.NoError(t, s.DeleteSession(ctx, "abc12"))
		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.True(t, errors.Is(s.DeleteSession(ctx, "abc12"), ErrNotFound))
	})
}

func TestMemorySnapshotStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStorage()

	_, err := s.Get(ctx, "abc12")
	assert.True(t, errors.Is(err, ErrNotFound))

	snapshot := &Snapshot{SessionID: "abc12", Message: []byte{2, 1, 0, 0, 0, 0}, Selections: map[string]string{"Votes.S": "On"}}
	require.NoError(t, s.Put(ctx, snapshot))
	snapshot.Message[0] = 9

	got, err := s.Get(ctx, "abc12")
	require.NoError(t, err)
	assert.Equal(t, byte(2), got.Message[0])
	assert.Equal(t, "On", got.Selections["Votes.S"])
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, s.Delete(ctx, "abc12"))
	assert.True(t, errors.Is(s.Delete(ctx, "abc12"), ErrNotFound))
}
