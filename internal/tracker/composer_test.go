package tracker

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
)

func TestComposerPreviewFollowsQuantity(t *testing.T) {
	t.Parallel()
	c := NewComposer(newFakeBackend(today), ComposerConfig{})

	d := c.Draft()
	assert.Equal(t, DraftEmpty, d.State)
	assert.Equal(t, 100.0, d.QuantityGrams)
	assert.Equal(t, model.MealBreakfast, d.Meal)
	assert.Equal(t, model.MacroValues{}, d.Preview)

	require.NoError(t, c.Select(chickenBreast))
	assert.InDelta(t, 165, c.Draft().Preview.Calories, 1e-9)

	require.NoError(t, c.SetQuantity(150))
	d = c.Draft()
	assert.Equal(t, DraftDrafting, d.State)
	assert.InDelta(t, 247.5, d.Preview.Calories, 1e-9)
	assert.InDelta(t, 46.5, d.Preview.Protein, 1e-9)
	assert.InDelta(t, 0, d.Preview.Carbs, 1e-9)
	assert.InDelta(t, 5.4, d.Preview.Fat, 1e-9)

	require.NoError(t, c.SetQuantity(-20))
	assert.Equal(t, model.MacroValues{}, c.Draft().Preview)
}

func TestComposerRejectsNonFiniteQuantityAndUnknownMeal(t *testing.T) {
	t.Parallel()
	c := NewComposer(newFakeBackend(today), ComposerConfig{})
	assert.True(t, errs.IsValidation(c.SetQuantity(math.NaN())))
	assert.True(t, errs.IsValidation(c.SetQuantity(math.Inf(1))))
	assert.True(t, errs.IsValidation(c.SetMeal("brunch")))
	assert.Equal(t, 100.0, c.Draft().QuantityGrams)
}

func TestComposerSubmitWithoutFoodIsValidationError(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	rec := &noticeRecorder{}
	c := NewComposer(api, ComposerConfig{Notify: rec.record})

	err := c.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Len(t, rec.byLevel(NoticeError), 1)
	assert.Equal(t, 0, api.loggedCount())
}

func TestComposerSubmitNonPositiveQuantityIsValidationError(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	c := NewComposer(api, ComposerConfig{})
	require.NoError(t, c.Select(chickenBreast))
	require.NoError(t, c.SetQuantity(0))

	err := c.Submit(context.Background())
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, DraftDrafting, c.Draft().State)
	assert.Equal(t, 0, api.loggedCount())
}

func TestComposerFailedSubmitKeepsDraftThenRetrySucceeds(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	api.catalog["chicken breast"] = []model.FoodProfile{chickenBreast}
	api.logErrs = []error{errBackendDown}
	rec := &noticeRecorder{}
	var logged []model.LogFoodRequest
	c := NewComposer(api, ComposerConfig{
		Notify:   rec.record,
		OnLogged: func(req model.LogFoodRequest) { logged = append(logged, req) },
	})

	require.NoError(t, c.Select(chickenBreast))
	require.NoError(t, c.SetQuantity(150))
	require.NoError(t, c.SetMeal(model.MealLunch))

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, errBackendDown)
	d := c.Draft()
	assert.Equal(t, DraftDrafting, d.State)
	require.NotNil(t, d.Food)
	assert.Equal(t, "Chicken Breast", d.Food.Name)
	assert.Equal(t, 150.0, d.QuantityGrams)
	assert.Equal(t, model.MealLunch, d.Meal)
	assert.Len(t, rec.byLevel(NoticeError), 1)
	assert.Empty(t, logged)

	require.NoError(t, c.Submit(context.Background()))
	d = c.Draft()
	assert.Equal(t, DraftEmpty, d.State)
	assert.Nil(t, d.Food)
	assert.Equal(t, 100.0, d.QuantityGrams)
	assert.Equal(t, model.MealBreakfast, d.Meal)
	require.Len(t, logged, 1)
	assert.Equal(t, model.LogFoodRequest{FoodName: "Chicken Breast", QuantityGrams: 150, MealType: model.MealLunch}, logged[0])
	assert.Len(t, rec.byLevel(NoticeSuccess), 1)
}

func TestComposerBlocksEditsWhileSubmitting(t *testing.T) {
	t.Parallel()
	api := newFakeBackend(today)
	entered := make(chan struct{})
	release := make(chan struct{})
	api.logFn = func(context.Context, model.LogFoodRequest) error {
		close(entered)
		<-release
		return nil
	}
	c := NewComposer(api, ComposerConfig{})
	require.NoError(t, c.Select(chickenBreast))

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("submission never reached the backend")
	}

	assert.Equal(t, DraftSubmitting, c.Draft().State)
	assert.True(t, errs.IsValidation(c.SetQuantity(200)))
	assert.True(t, errs.IsValidation(c.Submit(context.Background())))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, DraftEmpty, c.Draft().State)
	assert.Equal(t, 1, api.loggedCount())
}

func TestComposerCancelResetsDraft(t *testing.T) {
	t.Parallel()
	c := NewComposer(newFakeBackend(today), ComposerConfig{DefaultQuantity: 50, DefaultMeal: model.MealDinner})
	require.NoError(t, c.Select(chickenBreast))
	require.NoError(t, c.SetQuantity(300))
	require.NoError(t, c.Cancel())

	d := c.Draft()
	assert.Equal(t, DraftEmpty, d.State)
	assert.Nil(t, d.Food)
	assert.Equal(t, 50.0, d.QuantityGrams)
	assert.Equal(t, model.MealDinner, d.Meal)
}
