package client

import (
	"context"
	"errors"
	"sync"
)

// ErrStaleSelection is returned when a response arrives after a newer selection
var ErrStaleSelection = errors.New("selection superseded")

// DecisionFetcher loads one decision by id
type DecisionFetcher interface {
	GetDecision(ctx context.Context, id string) (*DecisionDetail, error)
}

// Selector tracks the currently selected decision. Each Select starts a new
// generation; only the response of the latest generation is applied.
type Selector struct {
	fetcher DecisionFetcher

	mu         sync.Mutex
	generation uint64
	currentID  string
	current    *DecisionDetail
	lastErr    error
}

// NewSelector creates a selector backed by fetcher
func NewSelector(fetcher DecisionFetcher) *Selector {
	return &Selector{fetcher: fetcher}
}

// Select makes id the current selection and fetches it. A failed fetch is
// terminal for this selection only; nothing is retried.
func (s *Selector) Select(ctx context.Context, id string) (*DecisionDetail, error) {
	return s.Fetch(ctx, s.Begin(id), id)
}

// Begin makes id the current selection and returns its generation. Callers
// that fetch concurrently must call Begin in selection order, before starting
// the fetch.
func (s *Selector) Begin(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.currentID = id
	s.current = nil
	s.lastErr = nil
	return s.generation
}

// Fetch loads id for generation gen and applies the result unless a newer
// selection has begun since.
func (s *Selector) Fetch(ctx context.Context, gen uint64, id string) (*DecisionDetail, error) {
	detail, err := s.fetcher.GetDecision(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrStaleSelection
	}
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.current = detail
	return detail, nil
}

// Current returns the applied selection. The detail is nil while a fetch is
// in flight or after it failed.
func (s *Selector) Current() (id string, detail *DecisionDetail, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID, s.current, s.lastErr
}
