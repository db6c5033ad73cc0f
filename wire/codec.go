// Package wire extends the host's three catalog-addressed messages (full
// state, selection diff, visibility diff) with a trailing block of named
// pairs for extension-owned entries.
//
// Every message is the host base segment followed by
//
//	[int32 count][count x (string name, value)]
//
// The base segment covers host-owned indices only. Extension entries always
// occupy the trailing indices of the catalog, so the base length of a state
// is its length minus the registered count. Peers without an extension
// discard its pairs; a missing block leaves extension slots untouched.
package wire

import (
	"fmt"

	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/metrics"
	"github.com/tung362/votecatalog/vote"
)

const (
	kindFullState  = "full_state"
	kindSelection  = "selection_diff"
	kindVisibility = "visibility_diff"
)

// Registered lists the extension entries committed into the catalog.
type Registered interface {
	Selections() []*catalog.Selection
	Choices() []*catalog.Choice
}

type CodecOption func(*ExtensionCodec)

func WithBookCodec(c BookCodec) CodecOption {
	return func(e *ExtensionCodec) { e.book = c }
}

func WithVoteCodec(c VoteCodec) CodecOption {
	return func(e *ExtensionCodec) { e.votes = c }
}

func WithChoiceMaskCodec(c ChoiceMaskCodec) CodecOption {
	return func(e *ExtensionCodec) { e.mask = c }
}

// ExtensionCodec wraps the host base codecs. It holds no per-message state
// and may be shared by connections.
type ExtensionCodec struct {
	catalog    *catalog.Catalog
	registered Registered
	cache      *vote.SelectionCache

	book  BookCodec
	votes VoteCodec
	mask  ChoiceMaskCodec
}

func NewExtensionCodec(c *catalog.Catalog, registered Registered, cache *vote.SelectionCache, opts ...CodecOption) *ExtensionCodec {
	e := &ExtensionCodec{
		catalog:    c,
		registered: registered,
		cache:      cache,
		book:       HostBookCodec{},
		votes:      HostVoteCodec{},
		mask:       HostChoiceMaskCodec{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// baseLength is the host-owned length of a state of size total. last is the
// highest registered index, or -1.
func baseLength(total, registered, last int, kind string) (int, error) {
	if total < registered || last >= total {
		return 0, fmt.Errorf("%w: %s has %d slots for %d registered entries", ErrStateSize, kind, total, registered)
	}
	return total - registered, nil
}

func selectionBase(total int, selections []*catalog.Selection, kind string) (int, error) {
	last := -1
	if n := len(selections); n > 0 {
		last = selections[n-1].GlobalIndex
	}
	return baseLength(total, len(selections), last, kind)
}

func choiceBase(total int, choices []*catalog.Choice) (int, error) {
	last := -1
	if n := len(choices); n > 0 {
		last = choices[n-1].GlobalIndex
	}
	return baseLength(total, len(choices), last, kindVisibility)
}

// EncodeFullState writes the rule book and snapshots the chosen extension
// values into the selection cache.
func (e *ExtensionCodec) EncodeFullState(w *Writer, book *RuleBook) error {
	selections := e.registered.Selections()
	base, err := selectionBase(len(book.Values), selections, kindFullState)
	if err != nil {
		return err
	}
	if err := e.book.WriteBook(w, book.Values[:base]); err != nil {
		return fmt.Errorf("full state base: %w", err)
	}

	results := make(map[string]string, len(selections))
	w.WriteInt32(int32(len(selections)))
	for _, s := range selections {
		choice := s.Choice(int(book.Values[s.GlobalIndex]))
		if choice == nil {
			choice = s.DefaultChoice()
		}
		name := ""
		if choice != nil {
			name = choice.LocalName
		}
		if err := writePair(w, s.GlobalName, name); err != nil {
			return err
		}
		results[s.GlobalName] = name
	}
	e.cache.Replace(results)
	return nil
}

// DecodeFullState reads a rule book into book. Extension slots are first
// corrected from the selection cache (or their default choice), then
// overwritten by any pairs in the trailing block; the cache is rebuilt from
// the resulting slots. book is left untouched on error.
func (e *ExtensionCodec) DecodeFullState(r *Reader, book *RuleBook) error {
	selections := e.registered.Selections()
	base, err := selectionBase(len(book.Values), selections, kindFullState)
	if err != nil {
		return err
	}
	next := book.Clone()
	if err := e.book.ReadBook(r, next.Values[:base]); err != nil {
		return e.fatal(kindFullState, fmt.Errorf("full state base: %w", err))
	}

	for _, s := range selections {
		var choice *catalog.Choice
		if name, ok := e.cache.Get(s.GlobalName); ok {
			choice = s.FindChoice(name)
		}
		if choice == nil {
			choice = s.DefaultChoice()
		}
		if choice != nil {
			next.Values[s.GlobalIndex] = byte(choice.LocalIndex)
		}
	}

	if r.Remaining() > 0 {
		err := readPairs(r, func(selectionName string, pr *Reader) error {
			choiceName, err := pr.ReadString()
			if err != nil {
				return err
			}
			s := e.catalog.FindSelection(selectionName)
			if s == nil || s.GlobalIndex < base {
				e.discard(kindFullState, selectionName)
				return nil
			}
			choice := s.FindChoice(choiceName)
			if choice == nil {
				choice = s.DefaultChoice()
			}
			if choice != nil {
				next.Values[s.GlobalIndex] = byte(choice.LocalIndex)
			}
			return nil
		})
		if err != nil {
			return e.fatal(kindFullState, fmt.Errorf("full state block: %w", err))
		}
	}

	results := make(map[string]string, len(selections))
	for _, s := range selections {
		if choice := s.Choice(int(next.Values[s.GlobalIndex])); choice != nil {
			results[s.GlobalName] = choice.LocalName
		}
	}
	copy(book.Values, next.Values)
	e.cache.Replace(results)
	return nil
}

// EncodeSelectionDiff writes a vote sheet. Extension selections travel as
// (selection, choice) pairs with an empty choice meaning no vote.
func (e *ExtensionCodec) EncodeSelectionDiff(w *Writer, sheet *VoteSheet) error {
	selections := e.registered.Selections()
	base, err := selectionBase(len(sheet.Votes), selections, kindSelection)
	if err != nil {
		return err
	}
	if err := e.votes.WriteVotes(w, sheet.Voted.prefix(base), sheet.Votes[:base]); err != nil {
		return fmt.Errorf("selection diff base: %w", err)
	}

	w.WriteInt32(int32(len(selections)))
	for _, s := range selections {
		name := ""
		if sheet.Voted.Get(s.GlobalIndex) {
			if choice := s.Choice(sheet.Votes[s.GlobalIndex]); choice != nil {
				name = choice.LocalName
			}
		}
		if err := writePair(w, s.GlobalName, name); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSelectionDiff reads a vote sheet into sheet. Extension bits sharing a
// byte with host bits keep their local value unless the block names them.
func (e *ExtensionCodec) DecodeSelectionDiff(r *Reader, sheet *VoteSheet) error {
	selections := e.registered.Selections()
	base, err := selectionBase(len(sheet.Votes), selections, kindSelection)
	if err != nil {
		return err
	}
	next := sheet.Clone()
	voted := NewBitArray(base)
	if err := e.votes.ReadVotes(r, voted, next.Votes[:base]); err != nil {
		return e.fatal(kindSelection, fmt.Errorf("selection diff base: %w", err))
	}
	next.Voted.overlay(voted)

	if r.Remaining() > 0 {
		err := readPairs(r, func(selectionName string, pr *Reader) error {
			choiceName, err := pr.ReadString()
			if err != nil {
				return err
			}
			s := e.catalog.FindSelection(selectionName)
			if s == nil || s.GlobalIndex < base {
				e.discard(kindSelection, selectionName)
				return nil
			}
			if choice := s.FindChoice(choiceName); choice != nil {
				next.SetVote(s.GlobalIndex, choice.LocalIndex)
			} else {
				next.SetVote(s.GlobalIndex, -1)
			}
			return nil
		})
		if err != nil {
			return e.fatal(kindSelection, fmt.Errorf("selection diff block: %w", err))
		}
	}

	sheet.Voted.overlay(next.Voted)
	copy(sheet.Votes, next.Votes)
	return nil
}

// EncodeVisibilityDiff writes a choice mask. Extension choices travel as
// (choice global name, bool) pairs.
func (e *ExtensionCodec) EncodeVisibilityDiff(w *Writer, mask *ChoiceMask) error {
	choices := e.registered.Choices()
	base, err := choiceBase(mask.Len(), choices)
	if err != nil {
		return err
	}
	if err := e.mask.WriteMask(w, mask.prefix(base)); err != nil {
		return fmt.Errorf("visibility diff base: %w", err)
	}

	w.WriteInt32(int32(len(choices)))
	for _, c := range choices {
		if err := w.WriteString(c.GlobalName); err != nil {
			return err
		}
		w.WriteBool(mask.Get(c.GlobalIndex))
	}
	return nil
}

// DecodeVisibilityDiff reads a choice mask into mask.
func (e *ExtensionCodec) DecodeVisibilityDiff(r *Reader, mask *ChoiceMask) error {
	choices := e.registered.Choices()
	base, err := choiceBase(mask.Len(), choices)
	if err != nil {
		return err
	}
	next := mask.Clone()
	bits := NewBitArray(base)
	if err := e.mask.ReadMask(r, bits); err != nil {
		return e.fatal(kindVisibility, fmt.Errorf("visibility diff base: %w", err))
	}
	next.overlay(bits)

	if r.Remaining() > 0 {
		err := readPairs(r, func(choiceName string, pr *Reader) error {
			visible, err := pr.ReadBool()
			if err != nil {
				return err
			}
			c := e.catalog.FindChoice(choiceName)
			if c == nil || c.GlobalIndex < base {
				e.discard(kindVisibility, choiceName)
				return nil
			}
			next.Set(c.GlobalIndex, visible)
			return nil
		})
		if err != nil {
			return e.fatal(kindVisibility, fmt.Errorf("visibility diff block: %w", err))
		}
	}

	mask.overlay(next.BitArray)
	return nil
}

func writePair(w *Writer, name, value string) error {
	if err := w.WriteString(name); err != nil {
		return err
	}
	return w.WriteString(value)
}

// readPairs reads the block count and calls value once per pair with the
// pair's name; value reads the rest of the pair.
func readPairs(r *Reader, value func(name string, r *Reader) error) error {
	n, err := r.ReadCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		name, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("pair %d of %d: %w", i, n, err)
		}
		if err := value(name, r); err != nil {
			return fmt.Errorf("pair %d of %d: %w", i, n, err)
		}
	}
	return nil
}

func (e *ExtensionCodec) discard(kind, name string) {
	metrics.DiscardedPairs.WithLabelValues(kind).Inc()
	logging.Logger().Debugf("WIRE: discarded %s pair for unknown entry %q", kind, name)
}

func (e *ExtensionCodec) fatal(kind string, err error) error {
	metrics.DecodeErrors.WithLabelValues(kind).Inc()
	logging.Logger().Errorf("WIRE: %s decode failed: %v", kind, err)
	return err
}
