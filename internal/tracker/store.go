package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

// DayLogAPI is the remote log service the store reads and mutates.
type DayLogAPI interface {
	DailyLog(ctx context.Context, date string) (*model.DailyLog, error)
	LogFood(ctx context.Context, req model.LogFoodRequest) error
	DeleteFoodLog(ctx context.Context, logID string, meal model.MealType, index int) error
}

type StoreConfig struct {
	Date     string // defaults to today
	Goals    *model.DailyGoals
	Now      func() time.Time
	OnChange func(Snapshot)
	Notify   NoticeFunc
	Log      zerolog.Logger
}

// Snapshot is an immutable view of the store. Log is nil until the selected
// date has loaded once. Stale is set while the last reload attempt has failed.
type Snapshot struct {
	Version uint64
	Date    string
	Log     *model.DailyLog
	Goals   model.DailyGoals
	Summary service.DailySummary
	Loading bool
	Stale   bool
}

// Store owns the selected date, its DailyLog and the goals. The log is never
// patched in place: every mutation is followed by a full reload, and a reload
// only applies if no newer reload or date change was issued after it started.
type Store struct {
	api      DayLogAPI
	now      func() time.Time
	onChange func(Snapshot)
	notify   NoticeFunc
	log      zerolog.Logger

	mu      sync.Mutex
	version uint64
	date    string
	day     *model.DailyLog
	goals   model.DailyGoals
	ticket  uint64
	loading bool
	stale   bool
}

func NewStore(api DayLogAPI, cfg StoreConfig) *Store {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	goals := model.DefaultGoals()
	if cfg.Goals != nil {
		goals = *cfg.Goals
	}
	date := strings.TrimSpace(cfg.Date)
	if date == "" {
		date = service.FormatDate(cfg.Now())
	}
	return &Store{
		api:      api,
		now:      cfg.Now,
		onChange: cfg.OnChange,
		notify:   cfg.Notify,
		log:      cfg.Log,
		date:     date,
		goals:    goals,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) SelectedDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// SetSelectedDate accepts YYYY-MM-DD, "today" or "yesterday"; dates after today are
// rejected. The previous day's log is dropped and the new date is fetched.
func (s *Store) SetSelectedDate(ctx context.Context, raw string) error {
	date, err := service.ParseDate(raw, s.now())
	if err != nil {
		s.notify.emit(NoticeError, err.Error())
		return err
	}
	s.mu.Lock()
	if date != s.date {
		s.date = date
		s.day = nil
		s.stale = false
	}
	s.mu.Unlock()
	return s.Reload(ctx)
}

// ShiftDate moves the selection by days, stopping at today.
func (s *Store) ShiftDate(ctx context.Context, days int) error {
	next, err := service.ShiftDate(s.SelectedDate(), days)
	if err != nil {
		return err
	}
	if today := service.FormatDate(s.now()); next > today {
		next = today
	}
	return s.SetSelectedDate(ctx, next)
}

// SetGoals replaces the goals atomically. Values must be finite and non-negative.
func (s *Store) SetGoals(goals model.DailyGoals) error {
	if err := service.ValidateGoals(goals); err != nil {
		s.notify.emit(NoticeError, err.Error())
		return err
	}
	s.mu.Lock()
	s.goals = goals
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)
	return nil
}

// Reload fetches the selected date and replaces the whole log. On failure the
// previous log is kept and one notice is raised. A response that was overtaken
// by a later Reload or date change is dropped and Reload returns nil.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.ticket++
	ticket := s.ticket
	date := s.date
	s.loading = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)

	day, err := s.api.DailyLog(ctx, date)

	s.mu.Lock()
	if ticket != s.ticket {
		s.mu.Unlock()
		reloadsTotal.WithLabelValues("superseded").Inc()
		s.log.Debug().Str("date", date).Uint64("ticket", ticket).Msg("superseded reload discarded")
		return nil
	}
	s.loading = false
	if err != nil {
		s.stale = true
		snap = s.snapshotLocked()
		s.mu.Unlock()
		reloadsTotal.WithLabelValues("failed").Inc()
		s.log.Warn().Err(err).Str("date", date).Msg("reload daily log failed")
		s.emit(snap)
		s.notify.emit(NoticeError, fmt.Sprintf("Failed to load log for %s: %v", date, err))
		return fmt.Errorf("reload %s: %w", date, err)
	}
	s.day = s.normalize(day, date)
	s.stale = false
	snap = s.snapshotLocked()
	s.mu.Unlock()
	reloadsTotal.WithLabelValues("ok").Inc()
	s.emit(snap)
	return nil
}

// LogFood records an entry and then reloads. Only the log request's failure is
// returned: a failed follow-up reload keeps the stale log and raises its own notice.
func (s *Store) LogFood(ctx context.Context, req model.LogFoodRequest) error {
	req.FoodName = strings.TrimSpace(req.FoodName)
	if req.FoodName == "" {
		return errs.Invalid("food", "is required")
	}
	if err := service.ValidateQuantity(req.QuantityGrams); err != nil {
		return err
	}
	if !req.MealType.Valid() {
		return errs.Invalid("meal", "invalid meal type %q", req.MealType)
	}
	if err := s.api.LogFood(ctx, req); err != nil {
		return err
	}
	_ = s.Reload(ctx)
	return nil
}

// DeleteEntry removes the entry at index within meal, as addressed in the current
// snapshot, then reloads.
func (s *Store) DeleteEntry(ctx context.Context, meal model.MealType, index int) error {
	if !meal.Valid() {
		return errs.Invalid("meal", "invalid meal type %q", meal)
	}
	s.mu.Lock()
	day := s.day
	if day == nil {
		s.mu.Unlock()
		return errs.Invalid("entry", "no log loaded for %s", s.date)
	}
	entries := day.Entries(meal)
	if index < 0 || index >= len(entries) {
		s.mu.Unlock()
		return errs.Invalid("entry", "%s has no entry #%d", meal, index+1)
	}
	logID := day.ID
	name := entries[index].FoodName
	s.mu.Unlock()

	if err := s.api.DeleteFoodLog(ctx, logID, meal, index); err != nil {
		s.log.Warn().Err(err).Str("meal", string(meal)).Int("index", index).Msg("delete entry failed")
		s.notify.emit(NoticeError, fmt.Sprintf("Failed to delete %s: %v", name, err))
		return fmt.Errorf("delete entry: %w", err)
	}
	s.notify.emit(NoticeSuccess, fmt.Sprintf("Deleted %s from %s", name, meal.Title()))
	_ = s.Reload(ctx)
	return nil
}

// normalize recomputes total_macros from the entries; the reloaded entry list is authoritative.
func (s *Store) normalize(day *model.DailyLog, date string) *model.DailyLog {
	if day == nil {
		day = &model.DailyLog{}
	}
	out := day.Clone()
	if out.Date == "" {
		out.Date = date
	}
	total := service.TotalMacros(out)
	if !macrosClose(total, out.TotalMacros) {
		s.log.Warn().
			Str("date", out.Date).
			Float64("server_kcal", out.TotalMacros.Calories).
			Float64("entries_kcal", total.Calories).
			Msg("server total_macros disagrees with entries; using entry sum")
	}
	out.TotalMacros = total
	return out
}

func macrosClose(a, b model.MacroValues) bool {
	const eps = 0.01
	return math.Abs(a.Calories-b.Calories) < eps &&
		math.Abs(a.Protein-b.Protein) < eps &&
		math.Abs(a.Carbs-b.Carbs) < eps &&
		math.Abs(a.Fat-b.Fat) < eps
}

func (s *Store) snapshotLocked() Snapshot {
	s.version++
	summary := service.Summarize(s.day, s.goals)
	summary.Date = s.date
	return Snapshot{
		Version: s.version,
		Date:    s.date,
		Log:     s.day.Clone(),
		Goals:   s.goals,
		Summary: summary,
		Loading: s.loading,
		Stale:   s.stale,
	}
}

func (s *Store) emit(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
