package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records one scored exercise submission.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			Unique().
			Comment("UUID of the attempt"),
		field.String("exercise_id"),
		field.String("exercise_type").
			Comment("FIB_RW or DND"),
		field.Int("score").
			Comment("Percentage 0-100"),
		field.Int("correct"),
		field.Int("total"),
		field.Int64("elapsed_ms").
			Default(0),
		field.JSON("answers", map[int]string{}).
			Comment("Answers keyed by blank_index"),
		field.JSON("confidence", map[int]string{}).
			Comment("Confidence levels keyed by blank_index"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("exercise_id"),
	}
}
