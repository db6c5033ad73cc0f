package catalog

// NewCategory returns an unpositioned category.
func NewCategory(displayName string, color Color) *Category {
	return &Category{
		DisplayName: displayName,
		Position:    -1,
		Color:       color,
	}
}

// NewSelection returns a selection under category with no choices yet.
// The selection is not added to the category's children.
func NewSelection(category *Category, globalName, displayName string) *Selection {
	return &Selection{
		GlobalName:  globalName,
		DisplayName: displayName,
		Category:    category,
		GlobalIndex: -1,
	}
}

// AttachChoice appends a choice built from spec to s. Local index follows
// registration order; the global index is assigned when s joins a Catalog.
func AttachChoice(s *Selection, spec ChoiceSpec) *Choice {
	choice := &Choice{
		GlobalName:  JoinName(s.GlobalName, spec.Name),
		LocalName:   spec.Name,
		LocalIndex:  len(s.Choices),
		GlobalIndex: -1,
		Selection:   s,
		Payload:     spec.Payload,
		VoteBit:     spec.VoteBit,
		PollKey:     spec.PollKey,
		Tooltip:     spec.Tooltip(),
	}
	s.Choices = append(s.Choices, choice)
	return choice
}

// HostSelection builds a host-owned selection with plain named choices and
// appends it to both the category and the catalog.
func (c *Catalog) HostSelection(category *Category, globalName string, choiceNames ...string) (*Selection, error) {
	s := NewSelection(category, globalName, globalName)
	for _, name := range choiceNames {
		AttachChoice(s, ChoiceSpec{Name: name, VoteBit: -1})
	}
	if err := c.AddSelection(s); err != nil {
		return nil, err
	}
	if category != nil {
		category.Children = append(category.Children, s)
	}
	return s, nil
}
