package vote

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
)

// setupResolver commits poll "P", category "C" and selection "S" with
// choices On (bit 1, payload true) and Off (no bit, payload false, default).
func setupResolver(t *testing.T) (*Resolver, *registry.Registry) {
	t.Helper()
	logging.Log = logrus.New()

	r := registry.New(catalog.New())
	require.NoError(t, r.AddPoll("P"))
	c, err := r.AddCategory("C", catalog.Color{}, true)
	require.NoError(t, err)
	s, err := r.AddSelection(c, "S", catalog.ChoiceSpec{Name: "On", VoteBit: 1, PollKey: "P", Payload: true})
	require.NoError(t, err)
	require.NoError(t, r.AddChoice(s, catalog.ChoiceSpec{Name: "Off", VoteBit: -1, PollKey: "P", Payload: false}))
	require.NoError(t, r.SetDefaultChoice(s, 1))
	_, err = r.Commit(nil)
	require.NoError(t, err)

	return NewResolver(r.Catalog(), r), r
}

func TestResolve(t *testing.T) {
	t.Run("Happy path - winning choice sets its bit and payload", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		snapshot := resolver.Resolve(map[string]string{"Votes.S": "On"})

		p, ok := snapshot.Poll("P")
		require.True(t, ok)
		assert.True(t, p.HasVote(1))
		assert.Equal(t, map[string]any{"Votes.S": true}, p.ExtraData)
		assert.Same(t, snapshot, resolver.Current())
	})

	t.Run("Happy path - choice without a bit records only its payload", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		snapshot := resolver.Resolve(map[string]string{"Votes.S": "Off"})

		p, _ := snapshot.Poll("P")
		assert.True(t, p.Mask.IsEmpty())
		payload, ok := p.Payload("Votes.S")
		assert.True(t, ok)
		assert.Equal(t, false, payload)
	})

	t.Run("Happy path - empty results leave every poll empty", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		snapshot := resolver.Resolve(map[string]string{})

		p, ok := snapshot.Poll("P")
		require.True(t, ok)
		assert.False(t, p.HasVote(1))
		assert.Empty(t, p.ExtraData)
		assert.Equal(t, []string{"P"}, snapshot.Keys())
	})

	t.Run("Happy path - unresolvable entries are skipped", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		snapshot := resolver.Resolve(map[string]string{"Votes.S": "Maybe", "Votes.Missing": "On"})

		p, _ := snapshot.Poll("P")
		assert.True(t, p.Mask.IsEmpty())
		assert.Empty(t, p.ExtraData)
	})

	t.Run("Happy path - resolving is a pure function of the results", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		results := map[string]string{"Votes.S": "On"}
		first := resolver.Resolve(results)
		resolver.Resolve(map[string]string{})
		second := resolver.Resolve(results)

		a, _ := first.Poll("P")
		b, _ := second.Poll("P")
		assert.Equal(t, a, b)
		assert.NotSame(t, first, second)
	})

	t.Run("Happy path - snapshot views are copies", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		snapshot := resolver.Resolve(map[string]string{"Votes.S": "On"})

		p, _ := snapshot.Poll("P")
		p.ExtraData["Votes.S"] = "tampered"
		again, _ := snapshot.Poll("P")
		assert.Equal(t, true, again.ExtraData["Votes.S"])
	})

	t.Run("Unhappy path - unknown poll", func(t *testing.T) {
		resolver, _ := setupResolver(t)
		_, ok := resolver.Current().Poll("Nope")
		assert.False(t, ok)
		assert.False(t, resolver.Current().HasVote("Nope", 1))
	})
}

func TestResolveConcurrentReaders(t *testing.T) {
	resolver, _ := setupResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p, ok := resolver.Current().Poll("P")
				if !ok {
					t.Error("poll P missing from published snapshot")
					return
				}
				// Either the empty or the resolved state, never a mix.
				_, hasPayload := p.ExtraData["Votes.S"]
				if p.HasVote(1) != hasPayload {
					t.Error("torn snapshot")
					return
				}
			}
		}()
	}
	for j := 0; j < 200; j++ {
		if j%2 == 0 {
			resolver.Resolve(map[string]string{"Votes.S": "On"})
		} else {
			resolver.Resolve(nil)
		}
	}
	wg.Wait()
}

func TestSelectionCache(t *testing.T) {
	cache := NewSelectionCache()
	source := map[string]string{"Votes.S": "On"}
	cache.Replace(source)
	source["Votes.S"] = "Off"

	choice, ok := cache.Get("Votes.S")
	assert.True(t, ok)
	assert.Equal(t, "On", choice)

	snapshot := cache.Snapshot()
	snapshot["Votes.T"] = "x"
	assert.Equal(t, 1, cache.Len())

	cache.Replace(nil)
	_, ok = cache.Get("Votes.S")
	assert.False(t, ok)
}
