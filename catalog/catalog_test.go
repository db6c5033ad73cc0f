package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSelectionAssignsIndices(t *testing.T) {
	c := New()
	cat := NewCategory("Difficulty", Color{A: 1})
	c.AddCategory(cat)

	first, err := c.HostSelection(cat, "Difficulty", "Easy", "Normal", "Hard")
	require.NoError(t, err)
	second, err := c.HostSelection(cat, "Artifacts.Command", "On", "Off")
	require.NoError(t, err)

	assert.Equal(t, 0, first.GlobalIndex)
	assert.Equal(t, 1, second.GlobalIndex)
	assert.Equal(t, 5, c.ChoiceCount())
	assert.Equal(t, 3, c.HighestLocalChoiceCount())

	off := c.FindChoice("Artifacts.Command.Off")
	require.NotNil(t, off)
	assert.Equal(t, 1, off.LocalIndex)
	assert.Equal(t, 4, off.GlobalIndex)
	assert.Same(t, second, off.Selection)
	assert.Equal(t, []*Selection{first, second}, cat.Children)
}

func TestAddSelectionRejectsWithoutMutation(t *testing.T) {
	c := New()
	_, err := c.HostSelection(nil, "Difficulty", "Easy")
	require.NoError(t, err)

	t.Run("duplicate selection name", func(t *testing.T) {
		_, err := c.HostSelection(nil, "Difficulty", "Other")
		assert.True(t, errors.Is(err, ErrDuplicateName))
	})

	t.Run("duplicate choice inside selection", func(t *testing.T) {
		_, err := c.HostSelection(nil, "Speed", "Fast", "Fast")
		assert.True(t, errors.Is(err, ErrDuplicateName))
	})

	t.Run("empty choice name", func(t *testing.T) {
		_, err := c.HostSelection(nil, "Loot", "")
		assert.True(t, errors.Is(err, ErrEmptyName))
	})

	t.Run("more choices than a slot can address", func(t *testing.T) {
		names := make([]string, MaxLocalChoices+1)
		for i := range names {
			names[i] = fmt.Sprintf("c%d", i)
		}
		_, err := c.HostSelection(nil, "Huge", names...)
		assert.True(t, errors.Is(err, ErrTooManyChoices))
	})

	assert.Equal(t, 1, c.SelectionCount())
	assert.Equal(t, 1, c.ChoiceCount())
	assert.Nil(t, c.FindSelection("Speed"))
	assert.Nil(t, c.FindSelection("Huge"))
}

func TestSelectionChoiceLookups(t *testing.T) {
	s := NewSelection(nil, "Votes.Mobs", "Mobs")
	AttachChoice(s, ChoiceSpec{Name: "On", VoteBit: 1})
	AttachChoice(s, ChoiceSpec{Name: "Off", VoteBit: -1})
	s.DefaultChoiceIndex = 1

	assert.Equal(t, "Votes.Mobs.On", s.FindChoice("On").GlobalName)
	assert.Nil(t, s.FindChoice("Maybe"))
	assert.Equal(t, "Off", s.DefaultChoice().LocalName)
	assert.Nil(t, s.Choice(7))
}

func TestCategoryChildrenAndVisibility(t *testing.T) {
	cat := NewCategory("Modes", Color{})
	assert.Equal(t, -1, cat.Position)
	assert.False(t, cat.IsHidden())

	cat.Hidden = func() bool { return true }
	assert.True(t, cat.IsHidden())

	a := NewSelection(cat, "A", "A")
	b := NewSelection(cat, "B", "B")
	cat.Children = []*Selection{a, b}
	cat.RemoveChild(a)
	assert.Equal(t, []*Selection{b}, cat.Children)
}
