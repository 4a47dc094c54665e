package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/services"
	"github.com/ersonp/family-core/internal/infrastructure/config"
)

func TestFamilyHandler_Lifecycle(t *testing.T) {
	ctx := context.Background()
	families, store := newTestFamilies(t)
	handler := NewFamilyHandler(families, services.ImportOptions{AgeSpans: []int{1, 1, 1, 1, 1, 1, 1}})

	require.NoError(t, handler.Create(ctx, "smith"))
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1}, store.Docs["smith"].AgeSpans)
	assert.Equal(t, "smith", store.Docs["smith"].FamilyName)

	err := handler.Create(ctx, "smith")
	assert.ErrorContains(t, err, "already exists")

	list, err := handler.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "smith", list[0].Name)

	day, err := handler.AdvanceDay(ctx, "smith", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, day)

	day, err = handler.Day(ctx, "smith")
	require.NoError(t, err)
	assert.Equal(t, 3, day)

	_, err = handler.AdvanceDay(ctx, "smith", -1)
	assert.ErrorIs(t, err, entities.ErrInvalidEdit)

	history, err := handler.History(ctx, "smith", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Details["current_day"])

	require.NoError(t, handler.Delete(ctx, "smith"))
	assert.Empty(t, store.Docs)
	assert.ErrorIs(t, handler.Delete(ctx, "smith"), services.ErrFamilyNotFound)
}

func TestInitHandler_Handle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvSQLitePath, "")
	handler := NewInitHandler()

	result, err := handler.Handle(dir)
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFilePath(dir), result.ConfigPath)
	assert.Equal(t, entities.DefaultAgeSpans, result.AgeSpans)

	_, err = handler.Handle(dir)
	assert.ErrorContains(t, err, "already initialized")
}
