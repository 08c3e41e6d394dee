// Package filterstate holds the search screen's filter selection and keeps a
// result set in step with it by re-querying the listing API.
//
// Mutations are debounced. Each fetch cancels the one before it and results
// from superseded fetches are dropped, so the visible state always matches
// the latest selection.
package filterstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"auraestate-backend/internal/client"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"

	"github.com/rs/zerolog/log"
)

const DefaultDebounce = 300 * time.Millisecond

// Fetcher runs a listing search. *client.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q listquery.Query) (*client.ListResponse, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of the store.
type Snapshot struct {
	Filters     Filters
	SearchQuery string
	ViewMode    ViewMode
	Status      Status
	Properties  []domain.Property
	Total       int64
	Err         error
}

type Options struct {
	// Debounce delays fetches after a mutation. Zero means DefaultDebounce;
	// negative fetches immediately.
	Debounce time.Duration
	Limit    int
	// OnChange receives a snapshot after every settled fetch.
	OnChange func(Snapshot)
}

type Store struct {
	fetcher  Fetcher
	debounce time.Duration
	limit    int
	onChange func(Snapshot)

	mu      sync.Mutex
	filters Filters
	search  string
	view    ViewMode
	status  Status
	results []domain.Property
	total   int64
	err     error
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
}

// New returns a store with an empty selection and schedules the first fetch.
func New(fetcher Fetcher, opts Options) *Store {
	s := &Store{
		fetcher:  fetcher,
		debounce: opts.Debounce,
		limit:    opts.Limit,
		onChange: opts.OnChange,
		view:     ViewGrid,
	}
	if s.debounce == 0 {
		s.debounce = DefaultDebounce
	}
	s.mu.Lock()
	s.scheduleLocked()
	s.mu.Unlock()
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Filters:     s.filters.clone(),
		SearchQuery: s.search,
		ViewMode:    s.view,
		Status:      s.status,
		Properties:  append([]domain.Property(nil), s.results...),
		Total:       s.total,
		Err:         s.err,
	}
}

// Query is the listing query the current selection produces.
func (s *Store) Query() listquery.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildQuery(s.filters, s.search, s.limit)
}

func (s *Store) SetFilters(f Filters) {
	s.mutate(func() { s.filters = f.clone() })
}

func (s *Store) SetPriceRange(pr *PriceRange) {
	s.mutate(func() {
		if pr == nil {
			s.filters.PriceRange = nil
			return
		}
		c := *pr
		s.filters.PriceRange = &c
	})
}

// SetBedrooms selects a bedroom token. Selecting the active token again clears it.
func (s *Store) SetBedrooms(token string) {
	s.mutate(func() {
		if s.filters.Bedrooms == token {
			s.filters.Bedrooms = ""
			return
		}
		s.filters.Bedrooms = token
	})
}

func (s *Store) SetType(mode ListingMode) {
	s.mutate(func() { s.filters.Type = mode })
}

// ToggleFeature adds the feature if absent and removes it otherwise.
func (s *Store) ToggleFeature(name string) {
	s.mutate(func() {
		for i, f := range s.filters.Features {
			if f == name {
				s.filters.Features = append(s.filters.Features[:i:i], s.filters.Features[i+1:]...)
				return
			}
		}
		s.filters.Features = append(s.filters.Features, name)
	})
}

// SetSearchQuery updates the free-text box.
func (s *Store) SetSearchQuery(q string) {
	s.mutate(func() { s.search = q })
}

// ClearFilters resets every filter in one step. The search text is kept.
func (s *Store) ClearFilters() {
	s.mutate(func() { s.filters = Filters{} })
}

// SetViewMode switches grid/list presentation without refetching.
func (s *Store) SetViewMode(v ViewMode) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

// Retry refetches the current selection, typically after StatusFailed.
func (s *Store) Retry() {
	s.mutate(func() {})
}

// Close cancels pending and in-flight fetches. Later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.seq++
	s.stopLocked()
}

func (s *Store) mutate(apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	apply()
	s.scheduleLocked()
}

func (s *Store) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store) scheduleLocked() {
	s.seq++
	s.stopLocked()
	s.status = StatusLoading
	s.err = nil
	seq := s.seq
	if s.debounce < 0 {
		s.startLocked(seq)
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq || s.closed {
			return
		}
		s.timer = nil
		s.startLocked(seq)
	})
}

func (s *Store) startLocked(seq uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	q := BuildQuery(s.filters, s.search, s.limit)
	go s.run(ctx, cancel, seq, q)
}

func (s *Store) run(ctx context.Context, cancel context.CancelFunc, seq uint64, q listquery.Query) {
	defer cancel()
	res, err := s.fetcher.Fetch(ctx, q)

	s.mu.Lock()
	if seq != s.seq || s.closed {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		log.Warn().Err(err).Msg("listing fetch failed")
		s.status = StatusFailed
		s.err = err
		s.results = nil
		s.total = 0
	case res == nil || len(res.Properties) == 0:
		s.status = StatusEmpty
		s.results = nil
		s.total = 0
	default:
		s.status = StatusLoaded
		s.results = res.Properties
		s.total = res.Pagination.Total
	}
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
