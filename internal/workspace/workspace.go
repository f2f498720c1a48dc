// Package workspace owns the learner's persisted state and writes every
// mutation through to the store.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/logger"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/settings"
	"github.com/abhisek/ptenav/internal/stats"
	"github.com/abhisek/ptenav/internal/store"
)

// Backend is the persistence a workspace writes through to. *store.Store
// satisfies it.
type Backend interface {
	RecordRepo() store.RecordRepo
	EventRepo() store.EventRepo
	ClearAll(ctx context.Context) error
}

// Notice reports a non-fatal problem found while loading.
type Notice struct {
	Key     string
	Message string
}

func (n Notice) String() string { return n.Key + ": " + n.Message }

// Options tunes a workspace. Zero values use real clocks and ids.
type Options struct {
	Log   *logger.Logger
	Now   func() time.Time
	NewID func() string
}

// Workspace holds exercises, global resources, stats, settings and study
// time. In-memory state is authoritative; a failed write is logged and
// returned but never rolled back.
type Workspace struct {
	backend Backend
	records store.RecordRepo
	events  store.EventRepo
	log     *logger.Logger
	now     func() time.Time
	newID   func() string

	exercises []exercise.Exercise
	resources *exercise.Resources
	stats     *stats.StudentStats
	settings  settings.AppSettings
	clock     *stats.StudyClock
}

// Load reads every record. Missing or malformed records fall back to empty
// or default values and are reported as notices.
func Load(ctx context.Context, backend Backend, opts Options) (*Workspace, []Notice) {
	w := &Workspace{
		backend: backend,
		records: backend.RecordRepo(),
		events:  backend.EventRepo(),
		log:     opts.Log,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if w.log == nil {
		w.log = logger.Nop()
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}

	var notices []Notice
	notice := func(key string, err error) {
		n := Notice{Key: key, Message: err.Error()}
		w.log.Warn("record reset to default", "record", key, "error", err)
		notices = append(notices, n)
	}

	if _, err := store.LoadJSON(ctx, w.records, store.KeyExercises, &w.exercises); err != nil {
		w.exercises = nil
		notice(store.KeyExercises, err)
	}

	var res exercise.Resources
	ok, err := store.LoadJSON(ctx, w.records, store.KeyResources, &res)
	switch {
	case err != nil:
		notice(store.KeyResources, err)
	case ok && !res.IsEmpty():
		w.resources = &res
	}

	if lifted := exercise.LiftLegacyResources(w.exercises); lifted != nil {
		if w.resources == nil {
			w.resources = lifted
		}
		notices = append(notices, Notice{Key: store.KeyResources, Message: "moved resources embedded in the first exercise to the global set"})
		if err := w.saveExercises(ctx); err != nil {
			notice(store.KeyExercises, err)
		}
	}

	w.stats = stats.New()
	if _, err := store.LoadJSON(ctx, w.records, store.KeyStats, w.stats); err != nil {
		w.stats = stats.New()
		notice(store.KeyStats, err)
	}

	w.settings = settings.Defaults()
	if data, ok, err := w.records.Get(ctx, store.KeySettings); err != nil {
		notice(store.KeySettings, err)
	} else if ok {
		merged, err := settings.Merge(data)
		if err != nil {
			notice(store.KeySettings, err)
		}
		w.settings = merged
	}

	var total int
	if _, err := store.LoadJSON(ctx, w.records, store.KeyStudyTime, &total); err != nil {
		total = 0
		notice(store.KeyStudyTime, err)
	}
	w.clock = stats.NewStudyClock(total)

	w.log.Info("workspace loaded", "exercises", len(w.exercises), "notices", len(notices))
	return w, notices
}

// Exercises returns the exercise set.
func (w *Workspace) Exercises() []exercise.Exercise { return w.exercises }

// Exercise finds an exercise by id.
func (w *Workspace) Exercise(id string) (*exercise.Exercise, bool) {
	for i := range w.exercises {
		if w.exercises[i].ID == id {
			return &w.exercises[i], true
		}
	}
	return nil, false
}

// Resources returns the global linguistic resources, or nil.
func (w *Workspace) Resources() *exercise.Resources { return w.resources }

// Stats returns the live stats.
func (w *Workspace) Stats() *stats.StudentStats { return w.stats }

// Settings returns a copy of the settings.
func (w *Workspace) Settings() settings.AppSettings { return w.settings }

// Clock returns the study clock.
func (w *Workspace) Clock() *stats.StudyClock { return w.clock }

// Events exposes the attempt log for history views.
func (w *Workspace) Events() store.EventRepo { return w.events }

func (w *Workspace) save(ctx context.Context, key string, v any) error {
	if err := store.SaveJSON(ctx, w.records, key, v); err != nil {
		w.log.Error("write-through failed", "record", key, "error", err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (w *Workspace) saveExercises(ctx context.Context) error {
	if err := w.save(ctx, store.KeyExercises, w.exercises); err != nil {
		return err
	}
	return w.saveResources(ctx)
}

func (w *Workspace) saveResources(ctx context.Context) error {
	if w.resources == nil {
		if err := w.records.Delete(ctx, store.KeyResources); err != nil {
			w.log.Error("write-through failed", "record", store.KeyResources, "error", err)
			return fmt.Errorf("clear %s: %w", store.KeyResources, err)
		}
		return nil
	}
	return w.save(ctx, store.KeyResources, w.resources)
}

// Import replaces the exercise set and the global resources. Nil resources
// clear the global set.
func (w *Workspace) Import(ctx context.Context, res *exercise.ImportResult) error {
	w.exercises = res.Exercises
	w.resources = res.Resources
	if w.resources.IsEmpty() {
		w.resources = nil
	}
	w.log.Info("exercises imported", "count", len(w.exercises), "legacy", res.Legacy, "warnings", len(res.Warnings))
	return w.saveExercises(ctx)
}

// RecordCompletion counts a scored submission in the stats and appends it
// to the attempt log.
func (w *Workspace) RecordCompletion(ctx context.Context, ex *exercise.Exercise, result scoring.Result,
	answers map[int]string, confidence map[int]scoring.Confidence, elapsed time.Duration) error {
	w.stats.RecordCompletion(ex.ID, result.Percentage)
	statsErr := w.save(ctx, store.KeyStats, w.stats)

	conf := make(map[int]string, len(confidence))
	for k, v := range confidence {
		conf[k] = string(v)
	}
	err := w.events.AppendAttempt(ctx, store.AttemptEventData{
		AttemptID:    w.newID(),
		ExerciseID:   ex.ID,
		ExerciseType: string(ex.Type),
		Score:        result.Percentage,
		Correct:      result.Correct,
		Total:        result.Total,
		ElapsedMs:    elapsed.Milliseconds(),
		Answers:      answers,
		Confidence:   conf,
	})
	if err != nil {
		w.log.Error("attempt not recorded", "exercise", ex.ID, "error", err)
		return fmt.Errorf("record attempt: %w", err)
	}
	w.log.Info("exercise completed", "exercise", ex.ID, "score", result.Percentage)
	return statsErr
}

// TouchStreak updates the daily streak for today and saves it when it
// changed.
func (w *Workspace) TouchStreak(ctx context.Context, today time.Time) error {
	if !w.stats.UpdateStreak(today) {
		return nil
	}
	return w.save(ctx, store.KeyStats, w.stats)
}

// StartStudyClock runs the study clock when the exercise timer is enabled.
func (w *Workspace) StartStudyClock() {
	w.clock.Start(w.settings.ShowExerciseTimer, w.settings.AutoSaveProgress)
}

// StopStudyClock halts the clock, saving the total when autosave is on.
func (w *Workspace) StopStudyClock(ctx context.Context) error {
	if w.clock.Stop() {
		return w.SaveStudyTime(ctx)
	}
	return nil
}

// TickStudyTime advances the clock by one second, saving every minute when
// autosave is on.
func (w *Workspace) TickStudyTime(ctx context.Context) error {
	if w.clock.Tick() {
		return w.SaveStudyTime(ctx)
	}
	return nil
}

// SaveStudyTime writes the study time total.
func (w *Workspace) SaveStudyTime(ctx context.Context) error {
	return w.save(ctx, store.KeyStudyTime, w.clock.Total)
}

// UpdateSetting parses and stores one setting.
func (w *Workspace) UpdateSetting(ctx context.Context, key, value string) error {
	if err := w.settings.Set(key, value); err != nil {
		return err
	}
	return w.settingsChanged(ctx)
}

// CycleSetting toggles a boolean setting or advances an enumerated one.
func (w *Workspace) CycleSetting(ctx context.Context, key string) error {
	if err := w.settings.Cycle(key); err != nil {
		return err
	}
	return w.settingsChanged(ctx)
}

// ResetSettings restores the defaults.
func (w *Workspace) ResetSettings(ctx context.Context) error {
	w.settings = settings.Defaults()
	return w.settingsChanged(ctx)
}

func (w *Workspace) settingsChanged(ctx context.Context) error {
	err := w.save(ctx, store.KeySettings, w.settings)
	if w.clock.Running() {
		w.StartStudyClock()
		if !w.clock.Running() {
			if saveErr := w.SaveStudyTime(ctx); err == nil {
				err = saveErr
			}
		}
	}
	return err
}

// ClearAll deletes every record and event and resets memory to a fresh
// install.
func (w *Workspace) ClearAll(ctx context.Context) error {
	w.exercises = nil
	w.resources = nil
	w.stats = stats.New()
	w.settings = settings.Defaults()
	w.clock.Stop()
	w.clock = stats.NewStudyClock(0)

	if err := w.backend.ClearAll(ctx); err != nil {
		w.log.Error("clear all failed", "error", err)
		return fmt.Errorf("clear all: %w", err)
	}
	w.log.Info("all data cleared")
	return nil
}
