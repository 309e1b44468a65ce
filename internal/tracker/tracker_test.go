package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

func TestTrackerSearchSelectScaleLogReload(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	api.catalog["chicken breast"] = []model.FoodProfile{chickenBreast}
	rec := &noticeRecorder{}
	tr := New(api, Config{Debounce: 30 * time.Millisecond, Now: fixedNow, Notify: rec.record})
	defer tr.Close()

	tr.Search.SetQuery("chicken breast")
	require.Eventually(t, func() bool { return tr.Search.State().Visible }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"chicken breast"}, api.searchCalls())

	require.NoError(t, tr.Choose(0))
	require.NoError(t, tr.Draft.SetQuantity(150))
	require.NoError(t, tr.Draft.SetMeal(model.MealLunch))
	assert.Equal(t, service.ScaleMacros(chickenBreast, 150), tr.Draft.Draft().Preview)
	assert.False(t, tr.Search.State().Visible)
	assert.Equal(t, "chicken breast", tr.Search.State().Query)

	require.NoError(t, tr.Submit(context.Background()))

	assert.Equal(t, 1, api.dailyCallCount())
	assert.Equal(t, DraftEmpty, tr.Draft.Draft().State)
	st := tr.Search.State()
	assert.Equal(t, "", st.Query)
	assert.Empty(t, st.Results)

	snap := tr.Day.Snapshot()
	require.Len(t, snap.Log.Entries(model.MealLunch), 1)
	assert.InDelta(t, 247.5, snap.Log.TotalMacros.Calories, 1e-9)
	assert.Equal(t, 12, snap.Summary.Progress[0].Percent)
	assert.Len(t, rec.byLevel(NoticeSuccess), 1)
}

func TestTrackerResubmitAfterFailureReloadsOnce(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	api.catalog["chicken breast"] = []model.FoodProfile{chickenBreast}
	api.logErrs = []error{errBackendDown}
	tr := New(api, Config{Debounce: time.Hour, Now: fixedNow})
	defer tr.Close()

	tr.Search.SetQuery("chicken breast")
	tr.Search.Flush()
	require.Eventually(t, func() bool { return tr.Search.State().Visible }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, tr.Choose(0))
	require.NoError(t, tr.Draft.SetQuantity(150))

	require.Error(t, tr.Submit(context.Background()))
	assert.Equal(t, 0, api.dailyCallCount())
	d := tr.Draft.Draft()
	assert.Equal(t, DraftDrafting, d.State)
	assert.Equal(t, 150.0, d.QuantityGrams)
	assert.Equal(t, "chicken breast", tr.Search.State().Query)

	require.NoError(t, tr.Submit(context.Background()))
	assert.Equal(t, 1, api.dailyCallCount())
	assert.Equal(t, 1, api.loggedCount())
	assert.Equal(t, DraftEmpty, tr.Draft.Draft().State)
}

func TestTrackerChooseOutOfRange(t *testing.T) {
	t.Parallel()
	tr := New(newFakeBackend(today), Config{Now: fixedNow})
	defer tr.Close()
	assert.Error(t, tr.Choose(0))
	assert.Equal(t, DraftEmpty, tr.Draft.Draft().State)
}

func TestTrackerZeroConfigDebouncesSearch(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	api.catalog["chicken"] = []model.FoodProfile{chickenBreast}
	tr := New(api, Config{})
	defer tr.Close()

	for _, q := range []string{"ch", "chi", "chic", "chick", "chicke", "chicken"} {
		tr.Search.SetQuery(q)
		time.Sleep(20 * time.Millisecond)
	}
	assert.Empty(t, api.searchCalls())

	require.Eventually(t, func() bool { return tr.Search.State().Visible }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"chicken"}, api.searchCalls())
}
