package services

import (
	"context"
	"sync"
)

// opKind separates user-initiated session operations from checks that only
// confirm what the store already believes.
type opKind int

const (
	passive opKind = iota
	explicit
)

// ticket identifies one session operation in issue order.
type ticket struct {
	id     uint64
	kind   opKind
	cancel context.CancelFunc
}

// sequencer orders session operations. Only the most recently issued ticket
// may write to the store; older completions are dropped. Starting any
// operation cancels an in-flight passive check, and passive checks are
// refused while an explicit operation is running.
//
// A check that moved the store to Checking leaves it unsettled until some
// later commit writes a final status. When the check is cancelled, the
// operation that replaced it inherits the duty through settle.
type sequencer struct {
	mu        sync.Mutex
	latest    uint64
	explicit  int
	running   int
	passive   *ticket
	unsettled bool
}

func (s *sequencer) begin(ctx context.Context, kind opKind) (context.Context, *ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == passive && s.explicit > 0 {
		return nil, nil, ErrSuperseded
	}
	if s.passive != nil {
		s.passive.cancel()
		s.passive = nil
	}

	s.latest++
	t := &ticket{id: s.latest, kind: kind}
	opCtx := ctx
	if kind == passive {
		opCtx, t.cancel = context.WithCancel(ctx)
		s.passive = t
	} else {
		s.explicit++
	}
	s.running++
	return opCtx, t, nil
}

// commit runs apply while holding the sequencer lock if t is still the
// latest ticket, so no newer completion can interleave with the write.
func (s *sequencer) commit(t *ticket, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.id != s.latest {
		return false
	}
	apply()
	s.unsettled = false
	return true
}

// markChecking is commit for the move to Checking: the store is left
// unsettled afterwards.
func (s *sequencer) markChecking(t *ticket, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.id != s.latest {
		return false
	}
	apply()
	s.unsettled = true
	return true
}

// current reports whether t is still the latest ticket.
func (s *sequencer) current(t *ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.id == s.latest
}

// settle runs apply when t is the latest ticket and a cancelled check left
// the store unsettled. Failed explicit operations call it so Checking never
// outlives the operations that could resolve it.
func (s *sequencer) settle(t *ticket, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.id != s.latest || !s.unsettled {
		return false
	}
	apply()
	s.unsettled = false
	return true
}

func (s *sequencer) end(t *ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
	if t.kind == explicit {
		s.explicit--
	}
	if t.cancel != nil {
		t.cancel()
	}
	if s.passive == t {
		s.passive = nil
	}
}

func (s *sequencer) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running > 0
}
