package lobby

import "github.com/tung362/votecatalog/catalog"

// ReferenceHost builds a small host catalog for running the service without
// a real host: one "Difficulty" category holding a difficulty selection and
// one artifact toggle.
func ReferenceHost(c *catalog.Catalog) error {
	category := catalog.NewCategory("Difficulty", catalog.Color{R: 0.58, G: 0.22, B: 0.22, A: 1})
	category.Position = 0
	c.AddCategory(category)

	difficulty, err := c.HostSelection(category, "Difficulty", "Easy", "Normal", "Hard")
	if err != nil {
		return err
	}
	difficulty.DefaultChoiceIndex = 1

	artifacts := catalog.NewCategory("Artifacts", catalog.Color{R: 0.5, G: 0.2, B: 0.8, A: 1})
	c.AddCategory(artifacts)
	command, err := c.HostSelection(artifacts, "Artifacts.Command", "On", "Off")
	if err != nil {
		return err
	}
	command.DefaultChoiceIndex = 1
	artifacts.Position = 1
	return nil
}
