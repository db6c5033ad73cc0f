package catalog

// Color is an RGBA display color, each channel in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Tooltip is display-only metadata of a choice. It never travels on the wire.
type Tooltip struct {
	Name      string `json:"name"`
	NameColor Color  `json:"nameColor"`
	Body      string `json:"body"`
	BodyColor Color  `json:"bodyColor"`
	IconPath  string `json:"iconPath"`
}

// Category groups selections for display.
// Position -1 means "append"; the first selection committed under the
// category backfills it with its global index.
type Category struct {
	DisplayName string
	Position    int
	Color       Color
	Hidden      func() bool
	Children    []*Selection
}

// IsHidden evaluates the visibility predicate. A nil predicate means visible.
func (c *Category) IsHidden() bool {
	return c.Hidden != nil && c.Hidden()
}

// RemoveChild drops s from the category's children, if present.
func (c *Category) RemoveChild(s *Selection) {
	for i, child := range c.Children {
		if child == s {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return
		}
	}
}

// Selection is a poll: an ordered set of choices of which one is picked.
type Selection struct {
	GlobalName         string
	DisplayName        string
	Category           *Category
	Choices            []*Choice
	DefaultChoiceIndex int
	GlobalIndex        int
}

// FindChoice returns the choice with the given local name, or nil.
func (s *Selection) FindChoice(localName string) *Choice {
	for _, c := range s.Choices {
		if c.LocalName == localName {
			return c
		}
	}
	return nil
}

// Choice returns the choice at local index i, or nil when out of range.
func (s *Selection) Choice(i int) *Choice {
	if i < 0 || i >= len(s.Choices) {
		return nil
	}
	return s.Choices[i]
}

// DefaultChoice returns the configured default choice, or nil.
func (s *Selection) DefaultChoice() *Choice {
	return s.Choice(s.DefaultChoiceIndex)
}

// Choice is one option of a selection.
type Choice struct {
	GlobalName  string
	LocalName   string
	LocalIndex  int
	GlobalIndex int
	Selection   *Selection
	Payload     any
	// VoteBit is the bit set in the poll's mask when this choice wins.
	// Negative values contribute no bit.
	VoteBit int
	PollKey string
	Tooltip Tooltip
}

// ChoiceSpec describes a choice to be attached to a selection.
type ChoiceSpec struct {
	Name      string
	NameColor Color
	Body      string
	BodyColor Color
	IconPath  string
	VoteBit   int
	PollKey   string
	Payload   any
}

// Tooltip returns the display metadata of the spec.
func (s ChoiceSpec) Tooltip() Tooltip {
	return Tooltip{
		Name:      s.Name,
		NameColor: s.NameColor,
		Body:      s.Body,
		BodyColor: s.BodyColor,
		IconPath:  s.IconPath,
	}
}

// JoinName builds a choice global name from its selection's global name.
func JoinName(selectionGlobalName, localName string) string {
	return selectionGlobalName + "." + localName
}
