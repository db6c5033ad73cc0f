// Package registry collects catalog entries contributed by extension modules
// and commits them into the host catalog in one deterministic, append-only
// pass at the host's catalog initialization.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tung362/votecatalog/bitmask"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/metrics"
)

// DefaultSelectionPrefix namespaces extension selections in the catalog.
const DefaultSelectionPrefix = "Votes."

// MaxChoices caps the choices of one extension selection, one per poll bit.
const MaxChoices = bitmask.Width

// HostBuild is the host's own catalog construction, invoked once between the
// before-host and after-host category lists.
type HostBuild func(c *catalog.Catalog) error

type Option func(*Registry)

// WithSelectionPrefix overrides the global name prefix of extension selections.
func WithSelectionPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// Failure is one entry dropped during commit.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a commit.
type Report struct {
	Categories int
	Selections int
	Choices    int
	Failures   []Failure
}

// Err joins all failures, or returns nil when every entry was committed.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Registry holds pending extension entries until Commit and read-only
// references to the committed ones afterwards.
type Registry struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	prefix  string
	closed  bool

	polls   []string
	pollSet map[string]struct{}

	before     []*catalog.Category
	after      []*catalog.Category
	pending    []*catalog.Selection
	pendingSet map[*catalog.Selection]struct{}

	categories     []*catalog.Category
	categorySet    map[*catalog.Category]struct{}
	selections     []*catalog.Selection
	choices        []*catalog.Choice
	hostSelections int
	hostChoices    int
}

func New(c *catalog.Catalog, opts ...Option) *Registry {
	r := &Registry{
		catalog:     c,
		prefix:      DefaultSelectionPrefix,
		pollSet:     make(map[string]struct{}),
		pendingSet:  make(map[*catalog.Selection]struct{}),
		categorySet: make(map[*catalog.Category]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddPoll registers an empty vote poll under key.
func (r *Registry) AddPoll(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return reject(key, ErrRegistryClosed)
	}
	if key == "" {
		return reject(key, ErrInvalidName)
	}
	if _, exists := r.pollSet[key]; exists {
		return reject(key, ErrDuplicatePoll)
	}
	r.pollSet[key] = struct{}{}
	r.polls = append(r.polls, key)
	return nil
}

// AddCategory queues a new category. Categories queued with appendAfterHost
// commit after the host's own categories, the others before them.
func (r *Registry) AddCategory(displayName string, color catalog.Color, appendAfterHost bool) (*catalog.Category, error) {
	category := catalog.NewCategory(displayName, color)
	if err := r.RegisterCategory(category, appendAfterHost); err != nil {
		return nil, err
	}
	return category, nil
}

// RegisterCategory queues a category built by the caller. An instance queued
// twice commits once; the second entry is reported as ErrDuplicateCategory.
func (r *Registry) RegisterCategory(category *catalog.Category, appendAfterHost bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category == nil {
		return reject("<nil category>", ErrInvalidName)
	}
	if r.closed {
		return reject(category.DisplayName, ErrRegistryClosed)
	}
	if appendAfterHost {
		r.after = append(r.after, category)
	} else {
		r.before = append(r.before, category)
	}
	return nil
}

// AddSelection queues a selection under category with its first choice.
func (r *Registry) AddSelection(category *catalog.Category, name string, initial catalog.ChoiceSpec) (*catalog.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	globalName := r.prefix + name
	if r.closed {
		return nil, reject(globalName, ErrRegistryClosed)
	}
	if name == "" {
		return nil, reject(globalName, ErrInvalidName)
	}
	if category == nil {
		return nil, reject(globalName, ErrUnregisteredCategory)
	}

	selection := catalog.NewSelection(category, globalName, name)
	if err := r.attachChoice(selection, initial); err != nil {
		return nil, err
	}
	category.Children = append(category.Children, selection)
	r.pending = append(r.pending, selection)
	r.pendingSet[selection] = struct{}{}
	return selection, nil
}

// AddChoice appends a choice to a selection still pending in this registry.
func (r *Registry) AddChoice(selection *catalog.Selection, spec catalog.ChoiceSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return reject(spec.Name, ErrRegistryClosed)
	}
	if _, ok := r.pendingSet[selection]; !ok || selection == nil {
		return reject(spec.Name, ErrUnknownSelection)
	}
	return r.attachChoice(selection, spec)
}

// SetDefaultChoice sets which choice a pending selection falls back to.
func (r *Registry) SetDefaultChoice(selection *catalog.Selection, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}
	if _, ok := r.pendingSet[selection]; !ok || selection == nil {
		return ErrUnknownSelection
	}
	if selection.Choice(index) == nil {
		return fmt.Errorf("%w: %s[%d]", ErrInvalidDefault, selection.GlobalName, index)
	}
	selection.DefaultChoiceIndex = index
	return nil
}

func (r *Registry) attachChoice(selection *catalog.Selection, spec catalog.ChoiceSpec) error {
	globalName := catalog.JoinName(selection.GlobalName, spec.Name)
	if spec.Name == "" {
		return reject(globalName, ErrInvalidName)
	}
	if selection.FindChoice(spec.Name) != nil {
		return reject(globalName, ErrDuplicateCatalogName)
	}
	if len(selection.Choices) >= MaxChoices {
		return reject(globalName, fmt.Errorf("%w: %d", ErrTooManyChoices, MaxChoices))
	}
	if spec.VoteBit >= bitmask.Width {
		return reject(globalName, ErrInvalidVoteBit)
	}
	if _, ok := r.pollSet[spec.PollKey]; !ok {
		return reject(globalName, fmt.Errorf("%w: %q", ErrUnknownPoll, spec.PollKey))
	}
	catalog.AttachChoice(selection, spec)
	return nil
}

// Commit registers every pending entry into the catalog. It must run exactly
// once, from the host's catalog initialization: before-host categories, then
// build, then after-host categories, then selections and their choices in
// registration order. Entries that fail validation are dropped, logged and
// reported; the rest still commit.
func (r *Registry) Commit(build HostBuild) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report Report
	if r.closed {
		return report, ErrRegistryClosed
	}
	r.closed = true

	for _, category := range r.before {
		r.commitCategory(category, &report)
	}
	if build != nil {
		if err := build(r.catalog); err != nil {
			return report, fmt.Errorf("host catalog build: %w", err)
		}
	}
	r.hostSelections = r.catalog.SelectionCount()
	r.hostChoices = r.catalog.ChoiceCount()

	for _, category := range r.after {
		r.commitCategory(category, &report)
	}
	for _, selection := range r.pending {
		r.commitSelection(selection, &report)
	}

	r.before, r.after, r.pending = nil, nil, nil
	r.pendingSet = make(map[*catalog.Selection]struct{})

	metrics.CommittedEntries.WithLabelValues("category").Set(float64(len(r.categories)))
	metrics.CommittedEntries.WithLabelValues("selection").Set(float64(len(r.selections)))
	metrics.CommittedEntries.WithLabelValues("choice").Set(float64(len(r.choices)))
	logging.Logger().Infof("REGISTRY: committed %d categories, %d selections, %d choices (%d failures)",
		report.Categories, report.Selections, report.Choices, len(report.Failures))

	if err := r.checkTrailing(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Registry) commitCategory(category *catalog.Category, report *Report) {
	if category.DisplayName == "" {
		report.fail("<unnamed category>", ErrInvalidName)
		return
	}
	if _, exists := r.categorySet[category]; exists {
		report.fail(category.DisplayName, ErrDuplicateCategory)
		return
	}
	r.catalog.AddCategory(category)
	r.categorySet[category] = struct{}{}
	r.categories = append(r.categories, category)
	report.Categories++
}

func (r *Registry) commitSelection(selection *catalog.Selection, report *Report) {
	if err := r.validateSelection(selection); err != nil {
		if selection.Category != nil {
			selection.Category.RemoveChild(selection)
		}
		report.fail(selection.GlobalName, err)
		return
	}
	if err := r.catalog.AddSelection(selection); err != nil {
		selection.Category.RemoveChild(selection)
		report.fail(selection.GlobalName, fmt.Errorf("%w: %v", ErrDuplicateCatalogName, err))
		return
	}
	if selection.Category.Position < 0 {
		selection.Category.Position = selection.GlobalIndex
	}
	r.selections = append(r.selections, selection)
	r.choices = append(r.choices, selection.Choices...)
	report.Selections++
	report.Choices += len(selection.Choices)
}

func (r *Registry) validateSelection(selection *catalog.Selection) error {
	if selection.DisplayName == "" {
		return ErrInvalidName
	}
	if r.catalog.FindSelection(selection.GlobalName) != nil {
		return ErrDuplicateCatalogName
	}
	if _, ok := r.categorySet[selection.Category]; !ok {
		return ErrUnregisteredCategory
	}
	for _, choice := range selection.Choices {
		if choice.LocalName == "" {
			return fmt.Errorf("%w: choice of %s", ErrInvalidName, selection.GlobalName)
		}
		if r.catalog.FindChoice(choice.GlobalName) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCatalogName, choice.GlobalName)
		}
	}
	return nil
}

// checkTrailing verifies that extension entries occupy the trailing indices
// of the catalog, which the wire segment arithmetic depends on.
func (r *Registry) checkTrailing() error {
	for i, selection := range r.selections {
		if selection.GlobalIndex != r.hostSelections+i {
			return fmt.Errorf("%w: selection %s at %d", ErrSegmentOrder, selection.GlobalName, selection.GlobalIndex)
		}
	}
	for i, choice := range r.choices {
		if choice.GlobalIndex != r.hostChoices+i {
			return fmt.Errorf("%w: choice %s at %d", ErrSegmentOrder, choice.GlobalName, choice.GlobalIndex)
		}
	}
	if len(r.selections) != r.catalog.SelectionCount()-r.hostSelections ||
		len(r.choices) != r.catalog.ChoiceCount()-r.hostChoices {
		return fmt.Errorf("%w: catalog grew outside the registry", ErrSegmentOrder)
	}
	return nil
}

func (report *Report) fail(name string, err error) {
	report.Failures = append(report.Failures, Failure{Name: name, Err: err})
	metrics.RegistrationFailures.WithLabelValues(reason(err)).Inc()
	logging.Logger().Errorf("REGISTRY: failed to register %q: %v", name, err)
}

func reject(name string, err error) error {
	metrics.RegistrationFailures.WithLabelValues(reason(err)).Inc()
	logging.Logger().Errorf("REGISTRY: rejected %q: %v", name, err)
	return err
}

var sentinels = []error{
	ErrDuplicatePoll, ErrDuplicateCatalogName, ErrDuplicateCategory, ErrInvalidName,
	ErrUnregisteredCategory, ErrUnknownSelection, ErrUnknownPoll, ErrInvalidVoteBit, ErrTooManyChoices,
	ErrInvalidDefault, ErrRegistryClosed,
}

func reason(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "other"
}

// Closed reports whether Commit already ran.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

// Polls returns registered poll keys in registration order.
func (r *Registry) Polls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.polls...)
}

// Categories returns committed extension categories. The slice must not be modified.
func (r *Registry) Categories() []*catalog.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories
}

// Selections returns committed extension selections in commit order.
// The slice must not be modified.
func (r *Registry) Selections() []*catalog.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selections
}

// Choices returns committed extension choices in commit order.
// The slice must not be modified.
func (r *Registry) Choices() []*catalog.Choice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.choices
}

// Pending returns the selections queued for commit.
func (r *Registry) Pending() []*catalog.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*catalog.Selection(nil), r.pending...)
}

// HostSelectionCount is the number of host-owned selections, known after commit.
func (r *Registry) HostSelectionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostSelections
}

// HostChoiceCount is the number of host-owned choices, known after commit.
func (r *Registry) HostChoiceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostChoices
}
