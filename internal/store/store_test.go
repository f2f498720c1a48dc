package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, want := range []string{"records", "attempt_events", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", want,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", want, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.RecordRepo().Put(ctx, KeyStats, []byte(`{"dailyStreak":3}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, ok, err := s.RecordRepo().Get(ctx, KeyStats)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"dailyStreak":3}` {
		t.Errorf("value = %s", got)
	}
}

func TestRecordRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.RecordRepo()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, KeySettings)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}

	if err := repo.Put(ctx, KeySettings, []byte(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, KeySettings, []byte(`{"theme":"light"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Put(ctx, KeyExercises, []byte(`[]`)); err != nil {
		t.Fatalf("put exercises: %v", err)
	}

	got, ok, err := repo.Get(ctx, KeySettings)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"theme":"light"}` {
		t.Errorf("value = %s, want overwritten value", got)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{KeyExercises, KeySettings}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	if err := repo.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, KeySettings); ok {
		t.Error("key still present after delete")
	}
}

func TestLoadSaveJSON(t *testing.T) {
	s := openTestStore(t)
	repo := s.RecordRepo()
	ctx := context.Background()

	type doc struct {
		Total int `json:"total"`
	}

	var d doc
	ok, err := LoadJSON(ctx, repo, KeyStudyTime, &d)
	if err != nil || ok {
		t.Fatalf("load missing: ok=%v err=%v", ok, err)
	}

	if err := SaveJSON(ctx, repo, KeyStudyTime, doc{Total: 125}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, err = LoadJSON(ctx, repo, KeyStudyTime, &d)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if d.Total != 125 {
		t.Errorf("total = %d, want 125", d.Total)
	}

	if err := repo.Put(ctx, KeyStudyTime, []byte("{not json")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err = LoadJSON(ctx, repo, KeyStudyTime, &d)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !ok {
		t.Error("malformed record should still report presence")
	}
}

func TestAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	repo := s.EventRepo()
	ctx := context.Background()

	attempts := []AttemptEventData{
		{AttemptID: "a1", ExerciseID: "fib-1", ExerciseType: "FIB_RW", Score: 50, Correct: 1, Total: 2,
			ElapsedMs: 42000, Answers: map[int]string{0: "rose", 1: "fell"}, Confidence: map[int]string{0: "sure", 1: "guessing"}},
		{AttemptID: "a2", ExerciseID: "dnd-1", ExerciseType: "DND", Score: 100, Correct: 1, Total: 1},
		{AttemptID: "a3", ExerciseID: "fib-1", ExerciseType: "FIB_RW", Score: 100, Correct: 2, Total: 2},
	}
	for _, a := range attempts {
		if err := repo.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append %s: %v", a.AttemptID, err)
		}
	}

	all, err := repo.QueryAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].AttemptID != "a3" || all[2].AttemptID != "a1" {
		t.Errorf("order = %s,%s,%s, want most recent first", all[0].AttemptID, all[1].AttemptID, all[2].AttemptID)
	}

	first := all[2]
	if first.Answers[1] != "fell" || first.Confidence[1] != "guessing" {
		t.Errorf("answers/confidence not round-tripped: %v %v", first.Answers, first.Confidence)
	}
	if first.ElapsedMs != 42000 {
		t.Errorf("elapsed = %d, want 42000", first.ElapsedMs)
	}
	if want := time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC); !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if all[1].Answers == nil || len(all[1].Answers) != 0 {
		t.Errorf("nil answers should load as empty map, got %v", all[1].Answers)
	}

	fib, err := repo.QueryAttempts(ctx, QueryOpts{ExerciseID: "fib-1", Limit: 1})
	if err != nil {
		t.Fatalf("query fib-1: %v", err)
	}
	if len(fib) != 1 || fib[0].AttemptID != "a3" {
		t.Errorf("filtered = %+v, want only a3", fib)
	}

	after, err := repo.QueryAttempts(ctx, QueryOpts{After: first.Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after first: len = %d, want 2", len(after))
	}

	window, err := repo.QueryAttempts(ctx, QueryOpts{
		From: time.Date(2026, 3, 1, 9, 2, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 1, 9, 2, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("query window: %v", err)
	}
	if len(window) != 1 || window[0].AttemptID != "a2" {
		t.Errorf("window = %+v, want only a2", window)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "claude-haiku", Model: "claude-haiku", Purpose: "pos-tag", InputTokens: 100, OutputTokens: 40, LatencyMs: 200, Success: true, RequestBody: "[user]\nThe cat", ResponseBody: `{"terms":[]}`},
		{Provider: "claude-haiku", Model: "claude-haiku", Purpose: "pos-tag", InputTokens: 50, OutputTokens: 10, LatencyMs: 301, Success: false, ErrorMessage: "timeout"},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "explain", InputTokens: 10, OutputTokens: 5, LatencyMs: 80, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 || list[0].Purpose != "explain" {
		t.Fatalf("list = %+v, want 2 most recent", list)
	}

	first, err := repo.GetLLMEvent(ctx, list[1].ID-1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil {
		t.Fatal("expected event")
	}
	if first.RequestBody != "[user]\nThe cat" || first.ResponseBody != `{"terms":[]}` || !first.Success {
		t.Errorf("event = %+v", first)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	wantPurpose := []LLMPurposeUsage{
		{Purpose: "explain", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 80},
		{Purpose: "pos-tag", Calls: 2, InputTokens: 150, OutputTokens: 50, AvgLatencyMs: 251},
	}
	if !reflect.DeepEqual(byPurpose, wantPurpose) {
		t.Errorf("by purpose = %+v, want %+v", byPurpose, wantPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	wantModel := []LLMModelUsage{
		{Model: "claude-haiku", Calls: 2, InputTokens: 150, OutputTokens: 50},
		{Model: "gpt-4o-mini", Calls: 1, InputTokens: 10, OutputTokens: 5},
	}
	if !reflect.DeepEqual(byModel, wantModel) {
		t.Errorf("by model = %+v, want %+v", byModel, wantModel)
	}
}

func TestClearAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	records := s.RecordRepo()
	events := s.EventRepo()

	if err := records.Put(ctx, KeyStats, []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := events.AppendAttempt(ctx, AttemptEventData{AttemptID: "a1", ExerciseID: "x"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := events.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "pos-tag", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	keys, _ := records.Keys(ctx)
	if len(keys) != 0 {
		t.Errorf("keys after clear = %v", keys)
	}
	attempts, _ := events.QueryAttempts(ctx, QueryOpts{})
	if len(attempts) != 0 {
		t.Errorf("attempts after clear = %d", len(attempts))
	}
	llmEvents, _ := events.QueryLLMEvents(ctx, QueryOpts{})
	if len(llmEvents) != 0 {
		t.Errorf("llm events after clear = %d", len(llmEvents))
	}

	// Sequence numbers are not reused.
	if err := events.AppendAttempt(ctx, AttemptEventData{AttemptID: "a2", ExerciseID: "x"}); err != nil {
		t.Fatalf("append after clear: %v", err)
	}
	attempts, _ = events.QueryAttempts(ctx, QueryOpts{})
	if len(attempts) != 1 || attempts[0].Sequence != 3 {
		t.Errorf("sequence after clear = %+v, want 3", attempts)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PTENAV_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if p != filepath.Join(dir, "explicit", "x.db") {
		t.Errorf("path = %s", p)
	}

	t.Setenv("PTENAV_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("xdg: %v", err)
	}
	if p != filepath.Join(dir, "ptenav", "ptenav.db") {
		t.Errorf("path = %s", p)
	}
}
