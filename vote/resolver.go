// Package vote turns the cached selection results into per-poll vote
// results that game logic can read.
package vote

import (
	"sort"
	"sync/atomic"

	"github.com/tung362/votecatalog/bitmask"
	"github.com/tung362/votecatalog/catalog"
	"github.com/tung362/votecatalog/logging"
)

// PollView is a read-only view of one poll's resolved result.
type PollView struct {
	Key       string
	Mask      bitmask.Mask
	ExtraData map[string]any
}

// HasVote reports whether bit is set in the poll's mask.
func (p PollView) HasVote(bit int) bool {
	return p.Mask.Test(bit)
}

// Payload returns the payload recorded for a selection global name.
func (p PollView) Payload(selection string) (any, bool) {
	v, ok := p.ExtraData[selection]
	return v, ok
}

// Snapshot is an immutable set of poll results.
type Snapshot struct {
	polls map[string]PollView
	keys  []string
}

// Poll returns a copy of the result of key.
func (s *Snapshot) Poll(key string) (PollView, bool) {
	p, ok := s.polls[key]
	if !ok {
		return PollView{}, false
	}
	extra := make(map[string]any, len(p.ExtraData))
	for k, v := range p.ExtraData {
		extra[k] = v
	}
	p.ExtraData = extra
	return p, true
}

// Keys returns the poll keys in registration order.
func (s *Snapshot) Keys() []string {
	return append([]string(nil), s.keys...)
}

// HasVote is shorthand for Poll(key) followed by HasVote(bit).
func (s *Snapshot) HasVote(key string, bit int) bool {
	p, ok := s.polls[key]
	return ok && p.Mask.Test(bit)
}

// PollSource lists the registered poll keys.
type PollSource interface {
	Polls() []string
}

// Resolver rebuilds poll results from selection results and publishes them
// atomically.
type Resolver struct {
	catalog *catalog.Catalog
	polls   PollSource
	current atomic.Pointer[Snapshot]
}

func NewResolver(c *catalog.Catalog, polls PollSource) *Resolver {
	r := &Resolver{catalog: c, polls: polls}
	r.current.Store(r.empty())
	return r
}

func (r *Resolver) empty() *Snapshot {
	keys := r.polls.Polls()
	s := &Snapshot{polls: make(map[string]PollView, len(keys)), keys: keys}
	for _, key := range keys {
		s.polls[key] = PollView{Key: key, ExtraData: make(map[string]any)}
	}
	return s
}

// Resolve builds poll results from results (selection global name to choice
// local name) and publishes them. Every registered poll starts empty. A
// resolvable choice sets its vote bit when positive and always records its
// payload under the selection's global name.
func (r *Resolver) Resolve(results map[string]string) *Snapshot {
	s := r.empty()

	selections := make([]string, 0, len(results))
	for name := range results {
		selections = append(selections, name)
	}
	sort.Strings(selections)

	for _, name := range selections {
		selection := r.catalog.FindSelection(name)
		if selection == nil {
			continue
		}
		choice := selection.FindChoice(results[name])
		if choice == nil {
			continue
		}
		poll, ok := s.polls[choice.PollKey]
		if !ok {
			continue
		}
		if choice.VoteBit > 0 {
			poll.Mask.Set(choice.VoteBit)
		}
		poll.ExtraData[name] = choice.Payload
		s.polls[choice.PollKey] = poll
	}

	r.current.Store(s)
	logging.Logger().Debugf("VOTE: resolved %d selection results into %d polls", len(results), len(s.keys))
	return s
}

// Current returns the last published snapshot.
func (r *Resolver) Current() *Snapshot {
	return r.current.Load()
}
