package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	answers, err := marshalMap(data.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	confidence, err := marshalMap(data.Confidence)
	if err != nil {
		return fmt.Errorf("encode confidence: %w", err)
	}

	err = r.insertEvent(ctx, AttemptEventsTable.Name,
		[]string{"attempt_id", "exercise_id", "exercise_type", "score", "correct", "total", "elapsed_ms", "answers", "confidence"},
		[]any{data.AttemptID, data.ExerciseID, data.ExerciseType, data.Score, data.Correct, data.Total, data.ElapsedMs, answers, confidence},
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	sel := builder().
		Select("id", "sequence", "timestamp", "attempt_id", "exercise_id", "exercise_type",
			"score", "correct", "total", "elapsed_ms", "answers", "confidence").
		From(builder().Table(AttemptEventsTable.Name))
	if opts.ExerciseID != "" {
		sel.Where(entsql.EQ("exercise_id", opts.ExerciseID))
	}
	query, args := applyOpts(sel, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			e                   AttemptEvent
			ts                  int64
			answers, confidence string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.AttemptID, &e.ExerciseID, &e.ExerciseType,
			&e.Score, &e.Correct, &e.Total, &e.ElapsedMs, &answers, &confidence); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		if err := json.Unmarshal([]byte(answers), &e.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of attempt %s: %w", e.AttemptID, err)
		}
		if err := json.Unmarshal([]byte(confidence), &e.Confidence); err != nil {
			return nil, fmt.Errorf("decode confidence of attempt %s: %w", e.AttemptID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalMap(m map[int]string) (string, error) {
	if m == nil {
		m = map[int]string{}
	}
	b, err := json.Marshal(m)
	return string(b), err
}
