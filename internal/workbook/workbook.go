// Package workbook writes a learner's data as an Excel workbook for review
// outside the app.
package workbook

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/ptenav/internal/stats"
	"github.com/abhisek/ptenav/internal/store"
	"github.com/abhisek/ptenav/internal/workspace"
)

// Sheet names, in workbook order.
const (
	SheetExercises = "Exercises"
	SheetBlanks    = "Blanks"
	SheetStats     = "Stats"
	SheetAttempts  = "Attempts"
)

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Write renders the backup and the attempt log into an .xlsx document.
func Write(w io.Writer, b workspace.Backup, attempts []store.AttemptEvent) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []sheet{
		exerciseSheet(b),
		blankSheet(b),
		statsSheet(b),
		attemptSheet(attempts),
	}
	for i, s := range sheets {
		index, err := f.NewSheet(s.name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeRows(f, s); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, s sheet) error {
	all := append([][]any{toAny(s.headers)}, s.rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+1, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func exerciseSheet(b workspace.Backup) sheet {
	s := sheet{
		name:    SheetExercises,
		headers: []string{"ID", "Title", "Type", "Difficulty", "Blanks", "Completed", "Passage"},
	}
	for _, ex := range b.Exercises {
		done := b.StudentStats != nil && b.StudentStats.IsCompleted(ex.ID)
		s.rows = append(s.rows, []any{
			ex.ID, ex.Title, string(ex.Type), ex.DifficultyLabel(), len(ex.Blanks), yesNo(done), ex.RawPassage,
		})
	}
	return s
}

func blankSheet(b workspace.Backup) sheet {
	s := sheet{
		name:    SheetBlanks,
		headers: []string{"Exercise ID", "Blank", "Correct Answer", "Options", "POS", "Primary Reason"},
	}
	for _, ex := range b.Exercises {
		for _, bl := range ex.SortedBlanks() {
			var pos, reason string
			if bl.Hint != nil {
				pos, reason = bl.Hint.POSTag, bl.Hint.PrimaryReason
			}
			options := bl.Options
			if len(options) == 0 {
				options = ex.DraggableOptions
			}
			s.rows = append(s.rows, []any{
				ex.ID, bl.BlankIndex + 1, bl.CorrectAnswer, strings.Join(options, ", "), pos, reason,
			})
		}
	}
	return s
}

func statsSheet(b workspace.Backup) sheet {
	st := b.StudentStats
	if st == nil {
		st = stats.New()
	}
	last := st.LastLoginDate
	if last == "" {
		last = "never"
	}
	return sheet{
		name:    SheetStats,
		headers: []string{"Metric", "Value"},
		rows: [][]any{
			{"Exercises", len(b.Exercises)},
			{"Completed", len(st.CompletedIDs())},
			{"Scored attempts", st.TotalAttempts},
			{"Average score (%)", st.AverageScore()},
			{"Daily streak", st.DailyStreak},
			{"Last visit", last},
			{"Study time", stats.FormatStudyTime(b.TotalStudyTime)},
			{"Exported at", b.Timestamp.Format(time.RFC3339)},
		},
	}
}

func attemptSheet(attempts []store.AttemptEvent) sheet {
	s := sheet{
		name:    SheetAttempts,
		headers: []string{"Time", "Exercise ID", "Type", "Score (%)", "Correct", "Total", "Seconds", "Answers"},
	}
	for _, a := range attempts {
		s.rows = append(s.rows, []any{
			a.Timestamp.UTC().Format(time.RFC3339),
			a.ExerciseID,
			a.ExerciseType,
			a.Score,
			a.Correct,
			a.Total,
			a.ElapsedMs / 1000,
			formatAnswers(a.Answers, a.Confidence),
		})
	}
	return s
}

func formatAnswers(answers, confidence map[int]string) string {
	idx := make([]int, 0, len(answers))
	for k := range answers {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for i, k := range idx {
		parts[i] = fmt.Sprintf("%d=%s", k+1, answers[k])
		if c := confidence[k]; c != "" {
			parts[i] += " (" + c + ")"
		}
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
