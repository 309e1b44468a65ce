package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

type countingSource struct {
	calls int
	foods []model.FoodProfile
	err   error
}

func (s *countingSource) SearchFoods(_ context.Context, _ string, _ int) ([]model.FoodProfile, error) {
	s.calls++
	return s.foods, s.err
}

func TestCachedCatalogServesRepeatQueriesFromCache(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	src := &countingSource{foods: []model.FoodProfile{
		{Name: "Apple", MacroValues: model.MacroValues{Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2}},
		{Name: "Apple Pie", MacroValues: model.MacroValues{Calories: 237, Protein: 1.9, Carbs: 34, Fat: 11}},
	}}
	c := &service.CachedCatalog{DB: db, Source: src, TTL: time.Hour, Now: func() time.Time { return now }}

	first, err := c.SearchFoods(context.Background(), "Apple", 20)
	require.NoError(t, err)
	second, err := c.SearchFoods(context.Background(), "  apple!", 20)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "Apple", second[0].Name)

	items, err := service.ListCatalogCache(db, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ResultCount)
}

func TestCachedCatalogRefetchesAfterExpiry(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	src := &countingSource{foods: []model.FoodProfile{{Name: "Rice"}}}
	c := &service.CachedCatalog{DB: db, Source: src, TTL: time.Hour, Now: func() time.Time { return now }}

	_, err := c.SearchFoods(context.Background(), "rice", 20)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	_, err = c.SearchFoods(context.Background(), "rice", 20)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	purged, err := service.PurgeCatalogCache(db, true, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestCachedCatalogDoesNotCacheFailures(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	src := &countingSource{err: errors.New("boom")}
	c := &service.CachedCatalog{DB: db, Source: src}

	_, err := c.SearchFoods(context.Background(), "oats", 20)
	require.Error(t, err)
	_, err = c.SearchFoods(context.Background(), "oats", 20)
	require.Error(t, err)
	assert.Equal(t, 2, src.calls)
}
