package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/model"
)

// Backend is everything a tracking session needs from the remote service.
type Backend interface {
	Catalog
	DayLogAPI
}

type Config struct {
	Debounce       time.Duration
	SearchLimit    int
	MinQueryLength int
	Date           string
	Goals          *model.DailyGoals
	Now            func() time.Time

	OnSearch func(SearchState)
	OnDraft  func(Draft)
	OnDay    func(Snapshot)
	Notify   NoticeFunc
	Log      zerolog.Logger
}

// Tracker wires search -> compose -> log -> reload. Submissions go through the
// store, so every successful log is followed by exactly one reload of the day.
type Tracker struct {
	Search *Searcher
	Draft  *Composer
	Day    *Store
}

func New(api Backend, cfg Config) *Tracker {
	t := &Tracker{}
	t.Search = NewSearcher(api, SearcherConfig{
		Debounce: cfg.Debounce,
		Limit:    cfg.SearchLimit,
		MinChars: cfg.MinQueryLength,
		OnChange: cfg.OnSearch,
		Notify:   cfg.Notify,
		Log:      cfg.Log.With().Str("part", "search").Logger(),
	})
	t.Day = NewStore(api, StoreConfig{
		Date:     cfg.Date,
		Goals:    cfg.Goals,
		Now:      cfg.Now,
		OnChange: cfg.OnDay,
		Notify:   cfg.Notify,
		Log:      cfg.Log.With().Str("part", "day").Logger(),
	})
	t.Draft = NewComposer(t.Day, ComposerConfig{
		OnChange: cfg.OnDraft,
		OnLogged: func(model.LogFoodRequest) { t.Search.Clear() },
		Notify:   cfg.Notify,
		Log:      cfg.Log.With().Str("part", "draft").Logger(),
	})
	return t
}

// Choose moves the candidate at index into the draft.
func (t *Tracker) Choose(index int) error {
	food, err := t.Search.Select(index)
	if err != nil {
		return err
	}
	return t.Draft.Select(food)
}

func (t *Tracker) Submit(ctx context.Context) error {
	return t.Draft.Submit(ctx)
}

func (t *Tracker) Close() {
	t.Search.Close()
}
