package extension

import (
	"errors"
	"fmt"

	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/gamemode"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
)

// Apply registers the manifest's entries: polls, game modes, then categories
// with their selections in file order. Rejected entries are skipped and
// reported in the returned error; the rest still register. modes may be nil
// when the manifest declares no game modes.
func (m *Manifest) Apply(votes *registry.Registry, modes *gamemode.Registry) error {
	var errs []error
	fail := func(err error) {
		errs = append(errs, fmt.Errorf("%s: %w", m.Name, err))
	}

	for _, key := range m.Polls {
		if err := votes.AddPoll(key); err != nil {
			fail(err)
		}
	}

	for _, gm := range m.GameModes {
		if modes == nil {
			fail(fmt.Errorf("game mode %q: no game mode registry", gm.Name))
			continue
		}
		mode := gamemode.NewBase(gm.Name)
		for _, item := range gm.BannedItems {
			mode.BanItem(item)
		}
		if err := modes.Register(gm.Description, gm.Icon, mode); err != nil {
			fail(err)
		}
	}

	for _, c := range m.Categories {
		category, err := votes.AddCategory(c.Name, catalog.Color(c.Color), c.AfterHost)
		if err != nil {
			fail(err)
			continue
		}
		for _, s := range c.Selections {
			if err := applySelection(votes, category, s); err != nil {
				fail(err)
			}
		}
	}

	logging.Logger().Infof("EXTENSION: applied %s (%d polls, %d categories, %d game modes, %d errors)",
		m, len(m.Polls), len(m.Categories), len(m.GameModes), len(errs))
	return errors.Join(errs...)
}

func applySelection(votes *registry.Registry, category *catalog.Category, s Selection) error {
	selection, err := votes.AddSelection(category, s.Name, s.Choices[0].spec())
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range s.Choices[1:] {
		if err := votes.AddChoice(selection, c.spec()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := votes.SetDefaultChoice(selection, s.Default); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Choice) spec() catalog.ChoiceSpec {
	bit := -1
	if c.VoteBit != nil {
		bit = *c.VoteBit
	}
	return catalog.ChoiceSpec{
		Name:      c.Name,
		NameColor: catalog.Color(c.NameColor),
		Body:      c.Body,
		BodyColor: catalog.Color(c.BodyColor),
		IconPath:  c.Icon,
		VoteBit:   bit,
		PollKey:   c.Poll,
		Payload:   c.Payload,
	}
}

// ApplyAll applies manifests in order.
func ApplyAll(manifests []*Manifest, votes *registry.Registry, modes *gamemode.Registry) error {
	var errs []error
	for _, m := range manifests {
		if err := m.Apply(votes, modes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
