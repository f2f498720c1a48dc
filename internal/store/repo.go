package store

import (
	"context"
	"time"
)

// Versioned logical keys of the records table. The names are kept from the
// browser tool so exported data stays recognizable.
const (
	KeyExercises = "pteNavigatorPro_exercises_v7_encapsulated"
	KeyResources = "pteNavigatorPro_linguisticResources_v7_encapsulated"
	KeyStats     = "pteNavigatorPro_stats_v7_encapsulated"
	KeySettings  = "pteNavigatorPro_settings_v2_encapsulated"
	KeyStudyTime = "pteNavigatorPro_studyTime_v2_encapsulated"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	ExerciseID string // attempt events only
}

// RecordRepo reads and writes whole JSON documents under logical keys.
type RecordRepo interface {
	// Get returns the stored value. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// AttemptEventData captures one scored submission.
type AttemptEventData struct {
	AttemptID    string
	ExerciseID   string
	ExerciseType string
	Score        int
	Correct      int
	Total        int
	ElapsedMs    int64
	Answers      map[int]string
	Confidence   map[int]string
}

// AttemptEvent is a stored attempt.
type AttemptEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates requests per purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates requests per model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAttempt records a scored submission.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns attempts, most recent first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, most recent first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
