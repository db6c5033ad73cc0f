// Package gamemode offers game modes as choices of a lobby vote and activates
// the winning mode when a game starts.
package gamemode

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/registry"
	"github.com/tung362/votecatalog/vote"
)

const (
	PollKey       = "GameModePoll"
	CategoryName  = "Game Modes"
	SelectionName = "Game Mode Selection"
	Vanilla       = "Vanilla"
)

var ErrNilMode = errors.New("game mode is nil")
var ErrEmptyName = errors.New("game mode name is empty")
var ErrDuplicateMode = errors.New("game mode already registered")

var (
	vanillaColor  = catalog.Color{R: 1, A: 0.4}
	modeColor     = catalog.Color{G: 1, A: 0.4}
	tooltipBody   = catalog.Color{A: 1}
	categoryColor = catalog.Color{R: 0.357, G: 0.667, B: 1, A: 1}
)

// Registry tracks the registered game modes and the one currently active.
type Registry struct {
	mu        sync.RWMutex
	votes     *registry.Registry
	selection *catalog.Selection
	modes     map[string]Mode
	active    Mode

	preStart  []func()
	postStart []func()
	gameEnd   []func()
}

// New registers the game mode poll, category and selection on votes, with
// the vanilla mode as default choice.
func New(votes *registry.Registry) (*Registry, error) {
	if err := votes.AddPoll(PollKey); err != nil {
		return nil, fmt.Errorf("game mode poll: %w", err)
	}
	category, err := votes.AddCategory(CategoryName, categoryColor, false)
	if err != nil {
		return nil, fmt.Errorf("game mode category: %w", err)
	}
	selection, err := votes.AddSelection(category, SelectionName, catalog.ChoiceSpec{
		Name:      "Vanilla Game Mode",
		NameColor: vanillaColor,
		Body:      "Standard Game Mode",
		BodyColor: tooltipBody,
		IconPath:  "@GameModeAPI:Assets/Resources/UI/VanillaSelected.png",
		VoteBit:   -1,
		PollKey:   PollKey,
		Payload:   Vanilla,
	})
	if err != nil {
		return nil, fmt.Errorf("game mode selection: %w", err)
	}
	if err := votes.SetDefaultChoice(selection, 0); err != nil {
		return nil, err
	}
	return &Registry{
		votes:     votes,
		selection: selection,
		modes:     map[string]Mode{Vanilla: NewBase(Vanilla)},
	}, nil
}

// Register adds mode as a choice of the game mode selection.
func (r *Registry) Register(description, iconPath string, mode Mode) error {
	if mode == nil {
		logging.Logger().Error("GAMEMODE: failed to add game mode, game mode is nil")
		return ErrNilMode
	}
	name := mode.Name()
	if name == "" {
		logging.Logger().Error("GAMEMODE: failed to add game mode, name is empty")
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modes[name]; exists {
		logging.Logger().Errorf("GAMEMODE: failed to add game mode %q, duplicate game mode", name)
		return fmt.Errorf("%w: %s", ErrDuplicateMode, name)
	}
	err := r.votes.AddChoice(r.selection, catalog.ChoiceSpec{
		Name:      name,
		NameColor: modeColor,
		Body:      description,
		BodyColor: tooltipBody,
		IconPath:  iconPath,
		VoteBit:   -1,
		PollKey:   PollKey,
		Payload:   name,
	})
	if err != nil {
		return err
	}
	r.modes[name] = mode
	return nil
}

// Selection is the vote selection game modes are offered under.
func (r *Registry) Selection() *catalog.Selection {
	return r.selection
}

func (r *Registry) Mode(name string) (Mode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modes[name]
	return m, ok
}

// Names returns the registered mode names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the running mode, or nil outside a game or when the host
// runs a mode not installed here.
func (r *Registry) Active() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registry) OnPreGameStart(fn func()) {
	r.mu.Lock()
	r.preStart = append(r.preStart, fn)
	r.mu.Unlock()
}

func (r *Registry) OnPostGameStart(fn func()) {
	r.mu.Lock()
	r.postStart = append(r.postStart, fn)
	r.mu.Unlock()
}

func (r *Registry) OnGameEnd(fn func()) {
	r.mu.Lock()
	r.gameEnd = append(r.gameEnd, fn)
	r.mu.Unlock()
}

// Activate picks the active mode from the game mode poll of snapshot.
// A missing or unknown payload leaves no mode active.
func (r *Registry) Activate(snapshot *vote.Snapshot) Mode {
	r.Deactivate()

	poll, ok := snapshot.Poll(PollKey)
	if !ok {
		logging.Logger().Warn("GAMEMODE: game mode poll not found, assuming vanilla or server sided game mode")
		return nil
	}
	payload, ok := poll.Payload(r.selection.GlobalName)
	if !ok {
		logging.Logger().Warn("GAMEMODE: game mode selection not found, assuming vanilla or server sided game mode")
		return nil
	}
	name, ok := payload.(string)
	if !ok {
		logging.Logger().Warn("GAMEMODE: game mode not found, assuming server sided game mode")
		return nil
	}

	r.mu.Lock()
	mode, ok := r.modes[name]
	if !ok {
		r.mu.Unlock()
		logging.Logger().Warnf("GAMEMODE: game mode key %q not found, assuming server sided game mode", name)
		return nil
	}
	r.active = mode
	r.mu.Unlock()

	if hooked, ok := mode.(Hooked); ok {
		hooked.SetHooks()
	}
	logging.Logger().Infof("GAMEMODE: running game mode %q", name)
	return mode
}

// Deactivate unsets the active mode, if any.
func (r *Registry) Deactivate() {
	r.mu.Lock()
	mode := r.active
	r.active = nil
	r.mu.Unlock()

	if hooked, ok := mode.(Hooked); ok {
		hooked.UnsetHooks()
	}
}

// StartGame activates the voted mode and runs the pre-start subscribers,
// run, then the post-start subscribers.
func (r *Registry) StartGame(snapshot *vote.Snapshot, run func()) Mode {
	mode := r.Activate(snapshot)
	invoke(r.subscribers(&r.preStart))
	if run != nil {
		run()
	}
	invoke(r.subscribers(&r.postStart))
	return mode
}

// EndGame deactivates the running mode and runs the game-end subscribers.
func (r *Registry) EndGame() {
	r.Deactivate()
	invoke(r.subscribers(&r.gameEnd))
}

func (r *Registry) subscribers(list *[]func()) []func() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]func(){}, *list...)
}

func invoke(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
