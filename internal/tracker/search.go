package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultSearchLimit    = 20
	DefaultMinQueryLength = 2
)

type Catalog interface {
	SearchFoods(ctx context.Context, query string, limit int) ([]model.FoodProfile, error)
}

type SearcherConfig struct {
	Debounce time.Duration // zero or negative means DefaultDebounce
	Limit    int
	MinChars int
	OnChange func(SearchState)
	Notify   NoticeFunc
	Log      zerolog.Logger
}

// SearchState is the candidate set as last applied. Results keep server order.
type SearchState struct {
	Version   uint64
	Query     string
	Results   []model.FoodProfile
	Searching bool
	Visible   bool
	Pending   bool // a debounce timer is armed
}

// Searcher debounces queries and applies only the newest issued search.
// Each issued search takes a ticket; a response whose ticket is not the latest
// is dropped, whatever order responses arrive in.
type Searcher struct {
	catalog  Catalog
	debounce time.Duration
	limit    int
	minChars int
	onChange func(SearchState)
	notify   NoticeFunc
	log      zerolog.Logger

	mu        sync.Mutex
	version   uint64
	query     string
	results   []model.FoodProfile
	visible   bool
	searching bool
	timer     *time.Timer
	timerGen  uint64
	ticket    uint64
	cancel    context.CancelFunc
	closed    bool
}

func NewSearcher(catalog Catalog, cfg SearcherConfig) *Searcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultSearchLimit
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinQueryLength
	}
	return &Searcher{
		catalog:  catalog,
		debounce: cfg.Debounce,
		limit:    cfg.Limit,
		minChars: cfg.MinChars,
		onChange: cfg.OnChange,
		notify:   cfg.Notify,
		log:      cfg.Log,
	}
}

// SetQuery records the query text and restarts the quiet-period timer. Queries
// shorter than the minimum length clear the candidates at once and send nothing.
func (s *Searcher) SetQuery(q string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = q
	s.stopTimerLocked()

	if utf8.RuneCountInString(strings.TrimSpace(q)) < s.minChars {
		s.supersedeLocked()
		s.results = nil
		s.visible = false
		st := s.stateLocked()
		s.mu.Unlock()
		s.emit(st)
		return
	}

	gen := s.timerGen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
	st := s.stateLocked()
	s.mu.Unlock()
	s.emit(st)
}

// Flush sends a pending debounced search immediately. It reports whether one was pending.
func (s *Searcher) Flush() bool {
	s.mu.Lock()
	if s.timer == nil || s.closed {
		s.mu.Unlock()
		return false
	}
	s.stopTimerLocked()
	st := s.issueLocked()
	s.mu.Unlock()
	s.emit(st)
	return true
}

// Select closes the result list and returns the chosen candidate. The query text is kept.
func (s *Searcher) Select(index int) (model.FoodProfile, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.results) {
		n := len(s.results)
		s.mu.Unlock()
		return model.FoodProfile{}, errs.Invalid("candidate", "index %d out of range (%d results)", index, n)
	}
	food := s.results[index]
	s.visible = false
	st := s.stateLocked()
	s.mu.Unlock()
	s.emit(st)
	return food, nil
}

// Dismiss hides the result list without touching the query or candidates.
func (s *Searcher) Dismiss() {
	s.mu.Lock()
	s.visible = false
	st := s.stateLocked()
	s.mu.Unlock()
	s.emit(st)
}

// Clear empties the query and candidates and discards any pending or in-flight search.
func (s *Searcher) Clear() {
	s.mu.Lock()
	s.query = ""
	s.stopTimerLocked()
	s.supersedeLocked()
	s.results = nil
	s.visible = false
	st := s.stateLocked()
	s.mu.Unlock()
	s.emit(st)
}

func (s *Searcher) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close stops the timer and aborts the in-flight search. Later calls are no-ops.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
	s.supersedeLocked()
}

func (s *Searcher) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	st := s.issueLocked()
	s.mu.Unlock()
	s.emit(st)
}

func (s *Searcher) issueLocked() SearchState {
	s.supersedeLocked()
	s.ticket++
	ticket := s.ticket
	query := strings.TrimSpace(s.query)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.searching = true
	searchesIssued.Inc()
	s.log.Debug().Str("query", query).Uint64("ticket", ticket).Msg("search issued")

	go s.run(ctx, ticket, query)
	return s.stateLocked()
}

func (s *Searcher) run(ctx context.Context, ticket uint64, query string) {
	foods, err := s.catalog.SearchFoods(ctx, query, s.limit)

	s.mu.Lock()
	if ticket != s.ticket {
		s.mu.Unlock()
		searchesDiscarded.Inc()
		s.log.Debug().Str("query", query).Uint64("ticket", ticket).Msg("stale search response discarded")
		return
	}
	s.searching = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err != nil {
		s.results = nil
		s.visible = false
		st := s.stateLocked()
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("query", query).Msg("food search failed")
		s.emit(st)
		s.notify.emit(NoticeError, fmt.Sprintf("Search failed: %v", err))
		return
	}
	s.results = foods
	s.visible = true
	st := s.stateLocked()
	s.mu.Unlock()
	s.emit(st)
}

// supersedeLocked invalidates the in-flight search, if any.
func (s *Searcher) supersedeLocked() {
	s.ticket++
	s.searching = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) stopTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) stateLocked() SearchState {
	s.version++
	results := make([]model.FoodProfile, len(s.results))
	copy(results, s.results)
	return SearchState{
		Version:   s.version,
		Query:     s.query,
		Results:   results,
		Searching: s.searching,
		Visible:   s.visible,
		Pending:   s.timer != nil,
	}
}

func (s *Searcher) emit(st SearchState) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
