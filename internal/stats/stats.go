// Package stats tracks learner progress: completed exercises, scores, the
// daily login streak and total study time.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used for LastLoginDate.
const DateLayout = "2006-01-02"

// StudentStats is the learner's progress record.
type StudentStats struct {
	Completed     map[string]bool
	TotalScoreSum int
	TotalAttempts int
	DailyStreak   int
	// LastLoginDate is a DateLayout date, or "" when never set.
	LastLoginDate string
}

// New returns empty stats.
func New() *StudentStats {
	return &StudentStats{Completed: make(map[string]bool)}
}

type statsJSON struct {
	CompletedExercisesSet []string `json:"completedExercisesSet"`
	TotalScoreSum         float64  `json:"totalScoreSum"`
	TotalAttempts         float64  `json:"totalAttemptsAtCompletion"`
	DailyStreak           float64  `json:"dailyStreak"`
	LastLoginDate         *string  `json:"lastLoginDate"`
}

// MarshalJSON encodes the completed set as a sorted array.
func (s *StudentStats) MarshalJSON() ([]byte, error) {
	out := statsJSON{
		CompletedExercisesSet: s.CompletedIDs(),
		TotalScoreSum:         float64(s.TotalScoreSum),
		TotalAttempts:         float64(s.TotalAttempts),
		DailyStreak:           float64(s.DailyStreak),
	}
	if out.CompletedExercisesSet == nil {
		out.CompletedExercisesSet = []string{}
	}
	if s.LastLoginDate != "" {
		d := s.LastLoginDate
		out.LastLoginDate = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes stats; missing fields are zero.
func (s *StudentStats) UnmarshalJSON(data []byte) error {
	var in statsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode student stats: %w", err)
	}
	s.Completed = make(map[string]bool, len(in.CompletedExercisesSet))
	for _, id := range in.CompletedExercisesSet {
		s.Completed[id] = true
	}
	s.TotalScoreSum = int(in.TotalScoreSum)
	s.TotalAttempts = int(in.TotalAttempts)
	s.DailyStreak = int(in.DailyStreak)
	s.LastLoginDate = ""
	if in.LastLoginDate != nil {
		s.LastLoginDate = *in.LastLoginDate
	}
	return nil
}

// CompletedIDs returns the completed exercise ids in sorted order.
func (s *StudentStats) CompletedIDs() []string {
	ids := make([]string, 0, len(s.Completed))
	for id := range s.Completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsCompleted reports whether the exercise has been scored at least once.
func (s *StudentStats) IsCompleted(id string) bool {
	return s.Completed[id]
}

// RecordCompletion marks an exercise completed and adds its score.
func (s *StudentStats) RecordCompletion(id string, percentage int) {
	if s.Completed == nil {
		s.Completed = make(map[string]bool)
	}
	s.Completed[id] = true
	s.TotalScoreSum += percentage
	s.TotalAttempts++
}

// AverageScore is the rounded mean score across attempts, or 0.
func (s *StudentStats) AverageScore() int {
	if s.TotalAttempts <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalScoreSum) / float64(s.TotalAttempts)))
}

// UpdateStreak records a login on today's date. A login the day after the
// previous one extends the streak; any other gap resets it to 1. It reports
// whether the stats changed.
func (s *StudentStats) UpdateStreak(today time.Time) bool {
	day := today.Format(DateLayout)
	if s.LastLoginDate == day {
		return false
	}
	if s.LastLoginDate == today.AddDate(0, 0, -1).Format(DateLayout) {
		s.DailyStreak++
	} else {
		s.DailyStreak = 1
	}
	s.LastLoginDate = day
	return true
}

// Merge overlays restored stats onto s.
func (s *StudentStats) Merge(o *StudentStats) {
	if o == nil {
		return
	}
	s.Completed = make(map[string]bool, len(o.Completed))
	for id := range o.Completed {
		s.Completed[id] = true
	}
	s.TotalScoreSum = o.TotalScoreSum
	s.TotalAttempts = o.TotalAttempts
	s.DailyStreak = o.DailyStreak
	s.LastLoginDate = o.LastLoginDate
}
