package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

const today = "2026-03-02"

var fixedNow = func() time.Time { return time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC) }

type memBackend struct {
	mu      sync.Mutex
	foods   []model.FoodProfile
	day     *model.DailyLog
	logged  []model.LogFoodRequest
	deleted []int
}

func newMemBackend() *memBackend {
	return &memBackend{
		foods: []model.FoodProfile{
			{Name: "Chicken Breast", MacroValues: model.MacroValues{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}},
			{Name: "Chicken Thigh", MacroValues: model.MacroValues{Calories: 209, Protein: 26, Carbs: 0, Fat: 10.9}},
		},
		day: &model.DailyLog{ID: "log-1", Date: today, Meals: map[model.MealType][]model.LogEntry{}},
	}
}

func (b *memBackend) SearchFoods(_ context.Context, query string, _ int) ([]model.FoodProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.FoodProfile
	for _, f := range b.foods {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (b *memBackend) DailyLog(context.Context, string) (*model.DailyLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.day.Clone(), nil
}

func (b *memBackend) LogFood(_ context.Context, req model.LogFoodRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logged = append(b.logged, req)
	for _, f := range b.foods {
		if f.Name == req.FoodName {
			b.day.Meals[req.MealType] = append(b.day.Meals[req.MealType], model.LogEntry{
				FoodName:      f.Name,
				QuantityGrams: req.QuantityGrams,
				MealType:      req.MealType,
				MacroValues:   service.ScaleMacros(f, req.QuantityGrams),
			})
		}
	}
	b.day.TotalMacros = service.TotalMacros(b.day)
	return nil
}

func (b *memBackend) DeleteFoodLog(_ context.Context, _ string, meal model.MealType, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.day.Meals[meal]
	b.day.Meals[meal] = append(entries[:index:index], entries[index+1:]...)
	b.day.TotalMacros = service.TotalMacros(b.day)
	b.deleted = append(b.deleted, index)
	return nil
}

func newTestModel(t *testing.T, api *memBackend) (Model, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New(api, tracker.Config{Debounce: time.Hour, Now: fixedNow})
	t.Cleanup(tr.Close)
	return New(context.Background(), tr), tr
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeKeys(m Model, s string) Model {
	for _, r := range s {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return update(m, tea.KeyMsg{Type: k})
}

func TestTrackFlowLogsEntry(t *testing.T) {
	api := newMemBackend()
	m, tr := newTestModel(t, api)

	m = typeKeys(m, "chicken")
	m, _ = press(m, tea.KeyEnter)
	require.Eventually(t, func() bool { return tr.Search.State().Visible }, 2*time.Second, 5*time.Millisecond)
	m, _ = update(m, searchMsg(tr.Search.State()))
	assert.Len(t, m.search.Results, 2)

	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, focusDraft, m.focus)
	assert.Equal(t, "100", m.qty)

	for i := 0; i < 3; i++ {
		m, _ = press(m, tea.KeyBackspace)
	}
	m = typeKeys(m, "15x0")
	assert.Equal(t, "150", m.qty)
	assert.Equal(t, 150.0, tr.Draft.Draft().QuantityGrams)

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, model.MealLunch, tr.Draft.Draft().Meal)

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	assert.Equal(t, focusSearch, m.focus)
	assert.Empty(t, m.query)
	require.Len(t, api.logged, 1)
	assert.Equal(t, model.LogFoodRequest{FoodName: "Chicken Breast", QuantityGrams: 150, MealType: model.MealLunch}, api.logged[0])

	m, _ = update(m, dayMsg(tr.Day.Snapshot()))
	view := m.View()
	assert.Contains(t, view, "Chicken Breast")
	assert.Contains(t, view, "Remaining: 1753 kcal")
}

func TestModelKeepsNewestVersion(t *testing.T) {
	m, _ := newTestModel(t, newMemBackend())
	m, _ = update(m, draftMsg(tracker.Draft{Version: 10, QuantityGrams: 250}))
	m, _ = update(m, draftMsg(tracker.Draft{Version: 4, QuantityGrams: 80}))
	assert.Equal(t, 250.0, m.draft.QuantityGrams)

	m, _ = update(m, dayMsg(tracker.Snapshot{Version: 9, Date: "2026-03-01"}))
	m, _ = update(m, dayMsg(tracker.Snapshot{Version: 2, Date: today}))
	assert.Equal(t, "2026-03-01", m.day.Date)
}

func TestAuthFailureEndsSession(t *testing.T) {
	m, _ := newTestModel(t, newMemBackend())
	m, cmd := update(m, opDoneMsg{op: opReload, err: errs.NewHTTPError("fetch daily log", 401, "")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, errs.IsAuth(m.Err()))

	m, cmd = update(m, opDoneMsg{op: opReload, err: errors.New("boom")})
	assert.Nil(t, cmd)
}

func TestEscapeCancelsDraft(t *testing.T) {
	m, tr := newTestModel(t, newMemBackend())
	require.NoError(t, tr.Draft.Select(model.FoodProfile{Name: "Egg"}))
	m.focus = focusDraft

	m, _ = press(m, tea.KeyEsc)
	assert.Equal(t, focusSearch, m.focus)
	assert.Equal(t, tracker.DraftEmpty, tr.Draft.Draft().State)
}

func TestLogFocusDeletesSelectedEntry(t *testing.T) {
	api := newMemBackend()
	m, tr := newTestModel(t, api)
	ctx := context.Background()
	require.NoError(t, tr.Day.LogFood(ctx, model.LogFoodRequest{FoodName: "Chicken Breast", QuantityGrams: 100, MealType: model.MealBreakfast}))
	require.NoError(t, tr.Day.LogFood(ctx, model.LogFoodRequest{FoodName: "Chicken Thigh", QuantityGrams: 100, MealType: model.MealDinner}))
	m, _ = update(m, dayMsg(tr.Day.Snapshot()))

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, focusLog, m.focus)
	m, _ = press(m, tea.KeyDown)
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	m, _ = update(m, dayMsg(tr.Day.Snapshot()))

	assert.Empty(t, m.day.Log.Entries(model.MealDinner))
	assert.Len(t, m.day.Log.Entries(model.MealBreakfast), 1)
	assert.Equal(t, 0, m.entryCursor)
}

func TestNoticesAreCapped(t *testing.T) {
	m, _ := newTestModel(t, newMemBackend())
	for i := 0; i < 5; i++ {
		m, _ = update(m, noticeMsg(tracker.Notice{Level: tracker.NoticeInfo, Text: string(rune('a' + i))}))
	}
	require.Len(t, m.notices, maxNotices)
	assert.Equal(t, "c", m.notices[0].Text)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), progressBar(0, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), progressBar(50, 10))
	assert.Equal(t, strings.Repeat("█", 10), progressBar(140, 10))
	assert.Equal(t, strings.Repeat("░", 10), progressBar(-3, 10))
}

func TestStepMealWraps(t *testing.T) {
	assert.Equal(t, model.MealLunch, stepMeal(model.MealBreakfast, 1))
	assert.Equal(t, model.MealBreakfast, stepMeal(model.MealDinner, 1))
	assert.Equal(t, model.MealDinner, stepMeal(model.MealBreakfast, -1))
	assert.Equal(t, model.MealBreakfast, stepMeal("", 1))
}

func TestBridgeDeliversInOrderWithoutBlocking(t *testing.T) {
	b := NewBridge()
	for i := 0; i < 100; i++ {
		b.Post(noticeMsg(tracker.Notice{Text: string(rune('0' + i%10))}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var mu sync.Mutex
	var got []tea.Msg
	go b.Run(ctx, func(msg tea.Msg) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 100
	}, 2*time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	for i, msg := range got {
		assert.Equal(t, string(rune('0'+i%10)), msg.(noticeMsg).Text)
	}
}

func TestHookRoutesTrackerCallbacks(t *testing.T) {
	b := NewBridge()
	cfg := tracker.Config{Debounce: time.Hour, Now: fixedNow}
	b.Hook(&cfg)
	tr := tracker.New(newMemBackend(), cfg)
	defer tr.Close()

	require.NoError(t, tr.Draft.Select(model.FoodProfile{Name: "Egg"}))
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.pending)
	_, ok := b.pending[len(b.pending)-1].(draftMsg)
	assert.True(t, ok)
}
