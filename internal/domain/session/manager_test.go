package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
	"github.com/GriffinCanCode/SessionKeeper/internal/testutil"
)

func TestSavePersistsSession(t *testing.T) {
	env := newTestEnv(t)
	env.browser.Seed(
		testutil.LiveWindow("https://a.com", "https://b.com"),
		testutil.LiveWindow("https://c.com"),
	)
	ctx := context.Background()

	s, err := env.manager.Save(ctx, "Research")
	require.NoError(t, err)
	assert.Equal(t, types.SourceManual, s.Source)
	assert.Len(t, s.Windows, 2)
	assert.Equal(t, 3, s.TabCount())

	got, err := env.manager.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSaveRespectsLimit(t *testing.T) {
	env := newTestEnv(t)
	env.settings.settings.MaxSessions = 3
	env.browser.Seed(testutil.LiveWindow("https://a.com"))
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		env.clock.Advance(time.Second)
		_, err := env.manager.Save(ctx, "")
		require.NoError(t, err)

		list, err := env.manager.List(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), 3)
	}

	list, err := env.manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess_6", "sess_5", "sess_4"}, testutil.IDs(list))
}

func TestGetValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = env.manager.Get(ctx, "bad id!")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = env.manager.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "session not found", err.Error())
}

func TestUpdateReplacesWindows(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testutil.Session("a", 100, testutil.Window("https://old.com")))
	env.browser.Seed(testutil.LiveWindow("https://new.com"))
	ctx := context.Background()

	s, err := env.manager.Update(ctx, "a", "")
	require.NoError(t, err)
	assert.Equal(t, "Session a", s.Name)
	assert.Equal(t, int64(100), s.CreatedAt)
	assert.Equal(t, env.clock.t.UnixMilli(), s.UpdatedAt)
	assert.Equal(t, []string{"https://new.com"}, testutil.URLs(s))

	s, err = env.manager.Update(ctx, "a", " Renamed ")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", s.Name)
}

func TestUpdateEmptyCaptureIsNoop(t *testing.T) {
	env := newTestEnv(t)
	original := testutil.Session("a", 100, testutil.Window("https://old.com"))
	env.seed(t, original)
	env.browser.Seed(types.LiveWindow{Type: types.WindowTypeNormal, Tabs: []types.LiveTab{{URL: ""}}})

	s, err := env.manager.Update(context.Background(), "a", "new name")
	require.NoError(t, err)
	assert.Equal(t, original, s)

	stored, err := env.manager.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestUpdateFallsBackToUpdatedAtForCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, types.Session{ID: "legacy", Name: "Legacy", UpdatedAt: 42, Source: types.SourceManual})
	env.browser.Seed(testutil.LiveWindow("https://a.com"))

	s, err := env.manager.Update(context.Background(), "legacy", "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.CreatedAt)
}

func TestUpdateErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Update(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = env.manager.Update(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.manager.Update(ctx, types.AutosaveID, "")
	assert.ErrorIs(t, err, ErrNothingToAutosave)
}

func TestUpdateAutosaveDelegates(t *testing.T) {
	env := newTestEnv(t)
	env.browser.Seed(testutil.LiveWindow("https://a.com"))

	s, err := env.manager.Update(context.Background(), types.AutosaveID, "ignored")
	require.NoError(t, err)
	assert.Equal(t, types.AutosaveID, s.ID)
	assert.Equal(t, AutosaveName, s.Name)
	assert.Equal(t, types.SourceAuto, s.Source)
}

func TestUpsertAutosave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.manager.UpsertAutosave(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	env.browser.Seed(testutil.LiveWindow("https://a.com"))
	first, err := env.manager.UpsertAutosave(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	created := first.CreatedAt

	env.clock.Advance(time.Minute)
	env.browser.CloseAll()
	env.browser.Seed(testutil.LiveWindow("https://b.com"))

	second, err := env.manager.UpsertAutosave(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, created, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, created)
	assert.Equal(t, []string{"https://b.com"}, testutil.URLs(*second))

	env.browser.CloseAll()
	third, err := env.manager.UpsertAutosave(ctx)
	require.NoError(t, err)
	require.NotNil(t, third)
	assert.Equal(t, *second, *third)

	list, err := env.manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{types.AutosaveID}, testutil.IDs(list))
}

func TestAutosaveSurvivesManualSaves(t *testing.T) {
	env := newTestEnv(t)
	env.settings.settings.MaxSessions = 2
	env.browser.Seed(testutil.LiveWindow("https://a.com"))
	ctx := context.Background()

	_, err := env.manager.UpsertAutosave(ctx)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		env.clock.Advance(time.Second)
		_, err := env.manager.Save(ctx, "")
		require.NoError(t, err)
	}

	list, err := env.manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess_4", types.AutosaveID}, testutil.IDs(list))
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testutil.Session("a", 1), testutil.Session("b", 2))
	ctx := context.Background()

	n, err := env.manager.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = env.manager.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = env.manager.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)

	list, err := env.manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, testutil.IDs(list))
}
