package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

var errBackendDown = errors.New("backend unavailable")

// fakeBackend is an in-memory log service. Hooks, when set, replace the default behavior.
type fakeBackend struct {
	mu sync.Mutex

	catalog  map[string][]model.FoodProfile
	searches []string
	searchFn func(ctx context.Context, query string) ([]model.FoodProfile, error)

	days       map[string]*model.DailyLog
	dailyCalls []string
	dailyFn    func(ctx context.Context, date string) (*model.DailyLog, error)

	logged  []model.LogFoodRequest
	logErrs []error
	logFn   func(ctx context.Context, req model.LogFoodRequest) error
	deletes []string
	today   string
}

func newFakeBackend(today string) *fakeBackend {
	return &fakeBackend{
		catalog: map[string][]model.FoodProfile{},
		days:    map[string]*model.DailyLog{},
		today:   today,
	}
}

func (f *fakeBackend) SearchFoods(ctx context.Context, query string, limit int) ([]model.FoodProfile, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	fn := f.searchFn
	foods := f.catalog[query]
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, query)
	}
	return foods, nil
}

func (f *fakeBackend) DailyLog(ctx context.Context, date string) (*model.DailyLog, error) {
	f.mu.Lock()
	f.dailyCalls = append(f.dailyCalls, date)
	fn := f.dailyFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, date)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dayLocked(date).Clone(), nil
}

func (f *fakeBackend) LogFood(ctx context.Context, req model.LogFoodRequest) error {
	f.mu.Lock()
	fn := f.logFn
	var err error
	if len(f.logErrs) > 0 {
		err = f.logErrs[0]
		f.logErrs = f.logErrs[1:]
	}
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, req); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged = append(f.logged, req)
	day := f.dayLocked(f.today)
	var profile model.FoodProfile
	for _, foods := range f.catalog {
		for _, p := range foods {
			if p.Name == req.FoodName {
				profile = p
			}
		}
	}
	entry := model.LogEntry{
		FoodName:      req.FoodName,
		QuantityGrams: req.QuantityGrams,
		MealType:      req.MealType,
		MacroValues:   service.ScaleMacros(profile, req.QuantityGrams),
	}
	day.Meals[req.MealType] = append(day.Meals[req.MealType], entry)
	day.TotalMacros = service.TotalMacros(day)
	return nil
}

func (f *fakeBackend) DeleteFoodLog(ctx context.Context, logID string, meal model.MealType, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, logID)
	for _, day := range f.days {
		if day.ID != logID {
			continue
		}
		entries := day.Meals[meal]
		if index < 0 || index >= len(entries) {
			return errors.New("index out of range")
		}
		day.Meals[meal] = append(entries[:index:index], entries[index+1:]...)
		day.TotalMacros = service.TotalMacros(day)
		return nil
	}
	return errors.New("log not found")
}

func (f *fakeBackend) dayLocked(date string) *model.DailyLog {
	day, ok := f.days[date]
	if !ok {
		day = &model.DailyLog{
			ID:    "log-" + date,
			Date:  date,
			Meals: map[model.MealType][]model.LogEntry{},
		}
		f.days[date] = day
	}
	return day
}

func (f *fakeBackend) seedEntry(date string, e model.LogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := f.dayLocked(date)
	day.Meals[e.MealType] = append(day.Meals[e.MealType], e)
	day.TotalMacros = service.TotalMacros(day)
}

func (f *fakeBackend) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeBackend) dailyCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dailyCalls)
}

func (f *fakeBackend) loggedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logged)
}

// noticeRecorder collects notices for assertions.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) record(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) byLevel(level NoticeLevel) []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notice
	for _, n := range r.notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

var fixedNow = func() time.Time { return time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC) }

const today = "2026-03-02"

var chickenBreast = model.FoodProfile{
	Name:        "Chicken Breast",
	MacroValues: model.MacroValues{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
}
