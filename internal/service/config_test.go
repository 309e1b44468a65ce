package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

func TestConfigRoundTripAndDelete(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	require.NoError(t, service.SetConfig(db, "API_URL", " http://localhost:9000/api "))
	v, ok, err := service.GetConfig(db, service.ConfigAPIURL)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:9000/api", v)

	require.NoError(t, service.DeleteConfig(db, service.ConfigAPIURL))
	_, ok, err = service.GetConfig(db, service.ConfigAPIURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	assert.True(t, errs.IsValidation(service.SetConfig(db, "barcode_provider", "usda")))
	assert.True(t, errs.IsValidation(service.DeleteConfig(db, " ")))
	_, _, err := service.GetConfig(db, "nope")
	assert.True(t, errs.IsValidation(err))
}

func TestListConfigFlagsSecrets(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	require.NoError(t, service.SetConfig(db, service.ConfigSessionToken, "tok"))
	require.NoError(t, service.SetConfig(db, service.ConfigSessionEmail, "ana@example.com"))

	items, err := service.ListConfig(db)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, service.ConfigSessionEmail, items[0].Key)
	assert.False(t, items[0].Secret)
	assert.Equal(t, service.ConfigSessionToken, items[1].Key)
	assert.True(t, items[1].Secret)
	assert.False(t, items[1].UpdatedAt.IsZero())
}
