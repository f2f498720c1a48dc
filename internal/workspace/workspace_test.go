package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/store"
)

var testNow = time.Date(2026, 5, 10, 8, 30, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ws.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func load(t *testing.T, s *store.Store) (*Workspace, []Notice) {
	t.Helper()
	n := 0
	return Load(context.Background(), s, Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return "attempt-" + string(rune('0'+n))
		},
	})
}

func sampleImport() *exercise.ImportResult {
	return &exercise.ImportResult{
		Exercises: []exercise.Exercise{
			{ID: "fib-1", Title: "Rivers", Type: exercise.TypeFIBRW, RawPassage: "Water _______ downhill.",
				Blanks: []exercise.Blank{{BlankIndex: 0, CorrectAnswer: "flows", Options: []string{"flows", "flies"}}}},
		},
		Resources: &exercise.Resources{KeyTerms: map[string]exercise.KeyTerm{
			"verb": {ID: "verb", Term: "verb", Definition: "An action word."},
		}},
	}
}

func TestLoadEmptyStore(t *testing.T) {
	w, notices := load(t, openStore(t))
	assert.Empty(t, notices)
	assert.Empty(t, w.Exercises())
	assert.Nil(t, w.Resources())
	assert.Equal(t, "system", w.Settings().Theme)
	assert.Zero(t, w.Clock().Total)
	assert.Zero(t, w.Stats().TotalAttempts)
}

func TestLoadMalformedRecords(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	repo := s.RecordRepo()
	require.NoError(t, repo.Put(ctx, store.KeyExercises, []byte(`{"oops"`)))
	require.NoError(t, repo.Put(ctx, store.KeyStats, []byte(`[]`)))
	require.NoError(t, repo.Put(ctx, store.KeySettings, []byte(`"dark"`)))
	require.NoError(t, repo.Put(ctx, store.KeyStudyTime, []byte(`"soon"`)))

	w, notices := load(t, s)
	keys := map[string]bool{}
	for _, n := range notices {
		keys[n.Key] = true
	}
	assert.Equal(t, map[string]bool{
		store.KeyExercises: true, store.KeyStats: true, store.KeySettings: true, store.KeyStudyTime: true,
	}, keys)
	assert.Empty(t, w.Exercises())
	assert.Equal(t, "system", w.Settings().Theme)
	assert.Zero(t, w.Clock().Total)
}

func TestLoadLiftsLegacyResources(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	legacy := `[{"id":"a","title":"A","exerciseType":"DND","rawPassage":"x _______","blanks":[{"blank_index":0,"correct_answer":"y"}],
		"linguistic_resources":{"key_terms":[{"term":"Noun Phrase","definition":"A group of words."}]}},
		{"id":"b","title":"B","exerciseType":"DND","rawPassage":"z","blanks":[]}]`
	require.NoError(t, s.RecordRepo().Put(ctx, store.KeyExercises, []byte(legacy)))

	w, notices := load(t, s)
	require.Len(t, notices, 1)
	require.NotNil(t, w.Resources())
	assert.Contains(t, w.Resources().KeyTerms, "noun_phrase")
	assert.Nil(t, w.Exercises()[0].Resources)

	// Re-saved: a second load sees no legacy data.
	w2, notices := load(t, s)
	assert.Empty(t, notices)
	assert.Contains(t, w2.Resources().KeyTerms, "noun_phrase")
}

func TestImportWritesThrough(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)

	require.NoError(t, w.Import(ctx, sampleImport()))
	ex, ok := w.Exercise("fib-1")
	require.True(t, ok)
	assert.Equal(t, "Rivers", ex.Title)

	w2, _ := load(t, s)
	assert.Len(t, w2.Exercises(), 1)
	assert.Contains(t, w2.Resources().KeyTerms, "verb")

	// An import without resources clears them.
	require.NoError(t, w.Import(ctx, &exercise.ImportResult{Exercises: sampleImport().Exercises}))
	w3, _ := load(t, s)
	assert.Nil(t, w3.Resources())
}

func TestRecordCompletion(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)
	require.NoError(t, w.Import(ctx, sampleImport()))
	ex, _ := w.Exercise("fib-1")

	err := w.RecordCompletion(ctx, ex, scoring.Result{Percentage: 100, Correct: 1, Total: 1},
		map[int]string{0: "flows"}, map[int]scoring.Confidence{0: scoring.Sure}, 95*time.Second)
	require.NoError(t, err)

	assert.True(t, w.Stats().IsCompleted("fib-1"))
	assert.Equal(t, 100, w.Stats().AverageScore())

	attempts, err := s.EventRepo().QueryAttempts(ctx, store.QueryOpts{ExerciseID: "fib-1"})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	a := attempts[0]
	assert.Equal(t, "attempt-1", a.AttemptID)
	assert.Equal(t, "FIB_RW", a.ExerciseType)
	assert.Equal(t, int64(95000), a.ElapsedMs)
	assert.Equal(t, "sure", a.Confidence[0])

	w2, _ := load(t, s)
	assert.Equal(t, 1, w2.Stats().TotalAttempts)
}

func TestTouchStreak(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)

	require.NoError(t, w.TouchStreak(ctx, testNow))
	require.NoError(t, w.TouchStreak(ctx, testNow.Add(24*time.Hour)))
	assert.Equal(t, 2, w.Stats().DailyStreak)

	w2, _ := load(t, s)
	assert.Equal(t, 2, w2.Stats().DailyStreak)
	assert.Equal(t, "2026-05-11", w2.Stats().LastLoginDate)
}

func TestStudyClockAutosave(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)

	w.StartStudyClock()
	for i := 0; i < 59; i++ {
		require.NoError(t, w.TickStudyTime(ctx))
	}
	w2, _ := load(t, s)
	assert.Zero(t, w2.Clock().Total, "nothing saved before the first minute")

	require.NoError(t, w.TickStudyTime(ctx))
	w2, _ = load(t, s)
	assert.Equal(t, 60, w2.Clock().Total)

	require.NoError(t, w.TickStudyTime(ctx))
	require.NoError(t, w.StopStudyClock(ctx))
	w2, _ = load(t, s)
	assert.Equal(t, 61, w2.Clock().Total, "stop saves")
}

func TestStudyClockHonorsTimerSetting(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)

	w.StartStudyClock()
	require.NoError(t, w.TickStudyTime(ctx))
	require.NoError(t, w.UpdateSetting(ctx, "showExerciseTimer", "off"))
	assert.False(t, w.Clock().Running())
	require.NoError(t, w.TickStudyTime(ctx))
	assert.Equal(t, 1, w.Clock().Total)

	w2, _ := load(t, s)
	assert.False(t, w2.Settings().ShowExerciseTimer)
	assert.Equal(t, 1, w2.Clock().Total, "disabling the timer saves the total")

	w2.StartStudyClock()
	assert.False(t, w2.Clock().Running())
}

func TestSettingsUpdateAndReset(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)

	require.NoError(t, w.UpdateSetting(ctx, "theme", "dark"))
	require.NoError(t, w.CycleSetting(ctx, "fontSize"))
	assert.Error(t, w.UpdateSetting(ctx, "theme", "neon"))
	assert.Error(t, w.UpdateSetting(ctx, "volume", "11"))

	w2, _ := load(t, s)
	assert.Equal(t, "dark", w2.Settings().Theme)
	assert.Equal(t, "large", w2.Settings().FontSize)

	require.NoError(t, w.ResetSettings(ctx))
	w3, _ := load(t, s)
	assert.Equal(t, "system", w3.Settings().Theme)
}

func TestClearAll(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	w, _ := load(t, s)
	require.NoError(t, w.Import(ctx, sampleImport()))
	require.NoError(t, w.UpdateSetting(ctx, "theme", "light"))
	ex, _ := w.Exercise("fib-1")
	require.NoError(t, w.RecordCompletion(ctx, ex, scoring.Result{Percentage: 0, Total: 1}, nil, nil, 0))

	require.NoError(t, w.ClearAll(ctx))
	assert.Empty(t, w.Exercises())
	assert.Equal(t, "system", w.Settings().Theme)
	assert.Zero(t, w.Stats().TotalAttempts)

	keys, err := s.RecordRepo().Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	attempts, _ := s.EventRepo().QueryAttempts(ctx, store.QueryOpts{})
	assert.Empty(t, attempts)
}

type failingRecords struct {
	store.RecordRepo
}

func (failingRecords) Put(context.Context, string, []byte) error { return errors.New("disk full") }

type failingBackend struct {
	*store.Store
}

func (b failingBackend) RecordRepo() store.RecordRepo {
	return failingRecords{RecordRepo: b.Store.RecordRepo()}
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	s := openStore(t)
	w, _ := Load(context.Background(), failingBackend{s}, Options{})

	err := w.UpdateSetting(context.Background(), "theme", "dark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "dark", w.Settings().Theme)
}
