package models

import "github.com/tung362/votecatalog/catalog"

type ChoiceResponse struct {
	GlobalName  string          `json:"globalName"`
	LocalName   string          `json:"localName"`
	LocalIndex  int             `json:"localIndex"`
	GlobalIndex int             `json:"globalIndex"`
	VoteBit     int             `json:"voteBit"`
	PollKey     string          `json:"pollKey,omitempty"`
	Payload     any             `json:"payload,omitempty"`
	Tooltip     catalog.Tooltip `json:"tooltip"`
}

type SelectionResponse struct {
	GlobalName    string           `json:"globalName"`
	DisplayName   string           `json:"displayName"`
	GlobalIndex   int              `json:"globalIndex"`
	DefaultChoice int              `json:"defaultChoice"`
	Choices       []ChoiceResponse `json:"choices"`
}

type CategoryResponse struct {
	DisplayName string              `json:"displayName"`
	Position    int                 `json:"position"`
	Color       catalog.Color       `json:"color"`
	Hidden      bool                `json:"hidden"`
	Selections  []SelectionResponse `json:"selections"`
}

type CatalogResponse struct {
	Categories     []CategoryResponse `json:"categories"`
	SelectionCount int                `json:"selectionCount"`
	ChoiceCount    int                `json:"choiceCount"`
	HostSelections int                `json:"hostSelections"`
	HostChoices    int                `json:"hostChoices"`
}

func TransformSelection(s *catalog.Selection) SelectionResponse {
	choices := make([]ChoiceResponse, 0, len(s.Choices))
	for _, c := range s.Choices {
		choices = append(choices, ChoiceResponse{
			GlobalName:  c.GlobalName,
			LocalName:   c.LocalName,
			LocalIndex:  c.LocalIndex,
			GlobalIndex: c.GlobalIndex,
			VoteBit:     c.VoteBit,
			PollKey:     c.PollKey,
			Payload:     c.Payload,
			Tooltip:     c.Tooltip,
		})
	}
	return SelectionResponse{
		GlobalName:    s.GlobalName,
		DisplayName:   s.DisplayName,
		GlobalIndex:   s.GlobalIndex,
		DefaultChoice: s.DefaultChoiceIndex,
		Choices:       choices,
	}
}

func TransformCategory(c *catalog.Category) CategoryResponse {
	selections := make([]SelectionResponse, 0, len(c.Children))
	for _, s := range c.Children {
		selections = append(selections, TransformSelection(s))
	}
	return CategoryResponse{
		DisplayName: c.DisplayName,
		Position:    c.Position,
		Color:       c.Color,
		Hidden:      c.IsHidden(),
		Selections:  selections,
	}
}
