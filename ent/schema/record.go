package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Record is a versioned key/value slot holding one JSON aggregate
// (exercises, resources, stats, settings, study time).
type Record struct {
	ent.Schema
}

func (Record) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			Immutable().
			Comment("Versioned logical key"),
		field.Text("value").
			Comment("JSON document"),
		field.Int64("updated_at").
			Comment("Unix milliseconds of the last write"),
	}
}
