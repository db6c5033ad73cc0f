// Package lobby ties the vote catalog together for one process: the
// registry extensions register into, the committed catalog, the wire codec
// and the resolver publishing poll results.
package lobby

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/extension"
	"github.com/tung362/votecatalog/gamemode"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/metrics"
	"github.com/tung362/votecatalog/registry"
	"github.com/tung362/votecatalog/vote"
	"github.com/tung362/votecatalog/wire"
)

const DefaultMaxPlayers = 4

// SessionAlphabet and SessionIDLength shape generated session ids.
const (
	SessionAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	SessionIDLength = 10
)

var ErrNotCommitted = errors.New("lobby catalog is not committed")
var ErrUnknownSelection = errors.New("selection not found in catalog")
var ErrUnknownChoice = errors.New("choice not found in selection")
var ErrUnknownVoter = errors.New("voter has no vote sheet")
var ErrLobbyFull = errors.New("lobby has no free voter slot")

type Settings struct {
	MaxPlayers      int
	SelectionPrefix string
}

// Applied is the lobby state right after a rule book message was applied.
type Applied struct {
	SessionID  string
	Selections map[string]string
}

// Adoption is the outcome of adopting the current rule state.
type Adoption struct {
	SessionID string
	Snapshot  *vote.Snapshot
	Results   map[string]string
	Mode      gamemode.Mode
}

// Context is the process-wide vote catalog state. Registration happens
// before Commit; encoding, decoding and adoption after it.
type Context struct {
	settings Settings
	catalog  *catalog.Catalog
	votes    *registry.Registry
	modes    *gamemode.Registry
	cache    *vote.SelectionCache
	resolver *vote.Resolver
	codec    *wire.ExtensionCodec

	mu        sync.Mutex
	committed bool
	report    registry.Report
	book      *wire.RuleBook
	mask      *wire.ChoiceMask
	sheets    map[string]*wire.VoteSheet
	session   string
}

func New(settings Settings, opts ...wire.CodecOption) (*Context, error) {
	if settings.MaxPlayers <= 0 {
		settings.MaxPlayers = DefaultMaxPlayers
	}
	var registryOpts []registry.Option
	if settings.SelectionPrefix != "" {
		registryOpts = append(registryOpts, registry.WithSelectionPrefix(settings.SelectionPrefix))
	}

	c := catalog.New()
	votes := registry.New(c, registryOpts...)
	modes, err := gamemode.New(votes)
	if err != nil {
		return nil, fmt.Errorf("game mode registration: %w", err)
	}
	cache := vote.NewSelectionCache()
	session, err := newSessionID()
	if err != nil {
		return nil, err
	}

	return &Context{
		settings: settings,
		catalog:  c,
		votes:    votes,
		modes:    modes,
		cache:    cache,
		resolver: vote.NewResolver(c, votes),
		codec:    wire.NewExtensionCodec(c, votes, cache, opts...),
		sheets:   make(map[string]*wire.VoteSheet),
		session:  session,
	}, nil
}

func newSessionID() (string, error) {
	id, err := gonanoid.Generate(SessionAlphabet, SessionIDLength)
	if err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return id, nil
}

func (c *Context) Settings() Settings {
	return c.settings
}

func (c *Context) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Context) Registry() *registry.Registry {
	return c.votes
}

func (c *Context) GameModes() *gamemode.Registry {
	return c.modes
}

func (c *Context) Cache() *vote.SelectionCache {
	return c.cache
}

func (c *Context) Resolver() *vote.Resolver {
	return c.resolver
}

func (c *Context) Codec() *wire.ExtensionCodec {
	return c.codec
}

// LoadExtensions applies every manifest matched by patterns. Manifests that
// fail to load abort; rejected entries inside a manifest are logged and
// skipped.
func (c *Context) LoadExtensions(patterns []string) error {
	manifests, err := extension.LoadAll(patterns)
	if err != nil {
		return err
	}
	if err := extension.ApplyAll(manifests, c.votes, c.modes); err != nil {
		logging.Logger().Warnf("LOBBY: some extension entries were rejected: %v", err)
	}
	logging.Logger().Infof("LOBBY: loaded %d extension manifests", len(manifests))
	return nil
}

// Commit runs the registry commit around build and prepares the lobby state.
func (c *Context) Commit(build registry.HostBuild) (registry.Report, error) {
	report, err := c.votes.Commit(build)
	if err != nil {
		return report, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = true
	c.report = report
	c.book = wire.NewRuleBook(c.catalog)
	c.mask = wire.NewChoiceMask(c.catalog)
	logging.Logger().Infof("LOBBY: catalog ready with %d selections and %d choices (max players %d)",
		c.catalog.SelectionCount(), c.catalog.ChoiceCount(), c.settings.MaxPlayers)
	return report, nil
}

func (c *Context) Committed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

// Report is the result of the commit.
func (c *Context) Report() registry.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// SessionID identifies the lobby session the current rule state belongs to.
func (c *Context) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// RuleBook returns a copy of the current rule book.
func (c *Context) RuleBook() (*wire.RuleBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	return c.book.Clone(), nil
}

// Choose sets a selection of the rule book to one of its choices.
func (c *Context) Choose(selection, choice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return ErrNotCommitted
	}
	s := c.catalog.FindSelection(selection)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSelection, selection)
	}
	ch := s.FindChoice(choice)
	if ch == nil {
		return fmt.Errorf("%w: %s", ErrUnknownChoice, catalog.JoinName(selection, choice))
	}
	c.book.Values[s.GlobalIndex] = byte(ch.LocalIndex)
	return nil
}

// EncodeRuleBook writes the current rule book as a full-state message.
func (c *Context) EncodeRuleBook() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	w := wire.NewWriter()
	if err := c.codec.EncodeFullState(w, c.book); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ApplyRuleBook decodes a full-state message into the current rule book and
// reports the session it was applied to.
func (c *Context) ApplyRuleBook(msg []byte) (*Applied, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	if err := c.codec.DecodeFullState(wire.NewReader(msg), c.book); err != nil {
		return nil, err
	}
	return &Applied{SessionID: c.session, Selections: c.cache.Snapshot()}, nil
}

// ChoiceMask returns a copy of the current choice availability.
func (c *Context) ChoiceMask() (*wire.ChoiceMask, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	return c.mask.Clone(), nil
}

// ApplyVisibility decodes a visibility diff into the current choice mask.
func (c *Context) ApplyVisibility(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return ErrNotCommitted
	}
	return c.codec.DecodeVisibilityDiff(wire.NewReader(msg), c.mask)
}

// Adopt resolves the current rule book into poll results, activates the
// voted game mode and starts a new session.
func (c *Context) Adopt() (*Adoption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}

	// Encoding refreshes the selection cache from the rule book.
	if err := c.codec.EncodeFullState(wire.NewWriter(), c.book); err != nil {
		return nil, err
	}
	results := c.cache.Snapshot()
	snapshot := c.resolver.Resolve(results)
	mode := c.modes.Activate(snapshot)
	adoption := &Adoption{SessionID: c.session, Snapshot: snapshot, Results: results, Mode: mode}

	next, err := newSessionID()
	if err != nil {
		return nil, err
	}
	c.session = next
	c.sheets = make(map[string]*wire.VoteSheet)
	metrics.Adoptions.Inc()
	logging.Logger().Infof("LOBBY: adopted session %s with %d selection results", adoption.SessionID, len(results))
	return adoption, nil
}

// sheet returns the vote sheet of voter, opening one while the lobby has
// room for another voter.
func (c *Context) sheet(voter string) (*wire.VoteSheet, error) {
	if voter == "" {
		return nil, ErrUnknownVoter
	}
	if sheet, ok := c.sheets[voter]; ok {
		return sheet, nil
	}
	if len(c.sheets) >= c.settings.MaxPlayers {
		return nil, fmt.Errorf("%w: %d voters", ErrLobbyFull, len(c.sheets))
	}
	sheet := wire.NewVoteSheet(c.catalog.SelectionCount())
	c.sheets[voter] = sheet
	return sheet, nil
}

// votesOf lists the voted selections of sheet by global name.
func (c *Context) votesOf(sheet *wire.VoteSheet) map[string]string {
	votes := make(map[string]string)
	for _, s := range c.catalog.Selections() {
		if !sheet.Voted.Get(s.GlobalIndex) {
			continue
		}
		if choice := s.Choice(sheet.Votes[s.GlobalIndex]); choice != nil {
			votes[s.GlobalName] = choice.LocalName
		}
	}
	return votes
}

// Vote records voter's choice for a selection. An empty choice withdraws the
// vote.
func (c *Context) Vote(voter, selection, choice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return ErrNotCommitted
	}
	s := c.catalog.FindSelection(selection)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSelection, selection)
	}
	index := -1
	if choice != "" {
		ch := s.FindChoice(choice)
		if ch == nil {
			return fmt.Errorf("%w: %s", ErrUnknownChoice, catalog.JoinName(selection, choice))
		}
		index = ch.LocalIndex
	}
	sheet, err := c.sheet(voter)
	if err != nil {
		return err
	}
	sheet.SetVote(s.GlobalIndex, index)
	return nil
}

// Votes returns voter's current votes by selection global name.
func (c *Context) Votes(voter string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	sheet, ok := c.sheets[voter]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoter, voter)
	}
	return c.votesOf(sheet), nil
}

// Voters lists the voters holding a vote sheet in this session.
func (c *Context) Voters() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	voters := make([]string, 0, len(c.sheets))
	for voter := range c.sheets {
		voters = append(voters, voter)
	}
	sort.Strings(voters)
	return voters
}

// EncodeVotes writes voter's vote sheet as a selection-diff message.
func (c *Context) EncodeVotes(voter string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	sheet, ok := c.sheets[voter]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoter, voter)
	}
	w := wire.NewWriter()
	if err := c.codec.EncodeSelectionDiff(w, sheet); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ApplyVotes decodes a selection-diff message into voter's vote sheet and
// returns the resulting votes. A voter seen for the first time takes a free
// slot; nothing is kept when decoding fails.
func (c *Context) ApplyVotes(voter string, msg []byte) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.committed {
		return nil, ErrNotCommitted
	}
	_, existed := c.sheets[voter]
	sheet, err := c.sheet(voter)
	if err != nil {
		return nil, err
	}
	if err := c.codec.DecodeSelectionDiff(wire.NewReader(msg), sheet); err != nil {
		if !existed {
			delete(c.sheets, voter)
		}
		return nil, err
	}
	return c.votesOf(sheet), nil
}
