package catalog

import (
	"errors"
	"fmt"
)

var ErrDuplicateName = errors.New("catalog entry already exists")
var ErrEmptyName = errors.New("catalog entry name is empty")
var ErrTooManyChoices = errors.New("selection has more choices than a rule book slot can address")

// MaxLocalChoices is the most choices one selection may hold. Rule book
// slots are single bytes and vote bytes reserve zero for "no vote".
const MaxLocalChoices = 255

// Catalog is the host's append-only list of categories, selections and
// choices. Indices are assigned on append and never change.
//
// A Catalog is not safe for concurrent mutation. It is written only while the
// host builds it and while extensions commit, and is read-only afterwards.
type Catalog struct {
	categories []*Category
	selections []*Selection
	choices    []*Choice

	selectionsByName map[string]*Selection
	choicesByName    map[string]*Choice

	highestLocalChoiceCount int
}

func New() *Catalog {
	return &Catalog{
		selectionsByName: make(map[string]*Selection),
		choicesByName:    make(map[string]*Choice),
	}
}

// AddCategory appends a category.
func (c *Catalog) AddCategory(category *Category) {
	c.categories = append(c.categories, category)
}

// AddSelection appends a selection and all of its choices, assigning the
// selection's global index and each choice's local and global index.
// Nothing is appended when any name is empty or already taken.
func (c *Catalog) AddSelection(s *Selection) error {
	if s.GlobalName == "" {
		return ErrEmptyName
	}
	if _, exists := c.selectionsByName[s.GlobalName]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, s.GlobalName)
	}
	if len(s.Choices) > MaxLocalChoices {
		return fmt.Errorf("%w: %s has %d", ErrTooManyChoices, s.GlobalName, len(s.Choices))
	}
	seen := make(map[string]struct{}, len(s.Choices))
	for _, choice := range s.Choices {
		if choice.LocalName == "" {
			return fmt.Errorf("%w: choice of %s", ErrEmptyName, s.GlobalName)
		}
		if _, exists := c.choicesByName[choice.GlobalName]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, choice.GlobalName)
		}
		if _, dup := seen[choice.GlobalName]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateName, choice.GlobalName)
		}
		seen[choice.GlobalName] = struct{}{}
	}

	s.GlobalIndex = len(c.selections)
	for i, choice := range s.Choices {
		choice.Selection = s
		choice.LocalIndex = i
		choice.GlobalIndex = len(c.choices)
		c.choices = append(c.choices, choice)
		c.choicesByName[choice.GlobalName] = choice
	}
	c.selections = append(c.selections, s)
	c.selectionsByName[s.GlobalName] = s
	if len(s.Choices) > c.highestLocalChoiceCount {
		c.highestLocalChoiceCount = len(s.Choices)
	}
	return nil
}

// FindSelection returns the selection with the given global name, or nil.
func (c *Catalog) FindSelection(globalName string) *Selection {
	return c.selectionsByName[globalName]
}

// FindChoice returns the choice with the given global name, or nil.
func (c *Catalog) FindChoice(globalName string) *Choice {
	return c.choicesByName[globalName]
}

func (c *Catalog) Categories() []*Category {
	return c.categories
}

func (c *Catalog) Selections() []*Selection {
	return c.selections
}

func (c *Catalog) Choices() []*Choice {
	return c.choices
}

func (c *Catalog) SelectionCount() int {
	return len(c.selections)
}

func (c *Catalog) ChoiceCount() int {
	return len(c.choices)
}

// HighestLocalChoiceCount is the largest number of choices in one selection.
func (c *Catalog) HighestLocalChoiceCount() int {
	return c.highestLocalChoiceCount
}
