package store

import (
	"reflect"
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/ptenav/ent/schema"
)

type entSchema interface {
	Fields() []ent.Field
	Mixin() []ent.Mixin
}

func fieldColumns(s entSchema) []string {
	var fields []ent.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)

	var cols []string
	for _, f := range fields {
		d := f.Descriptor()
		if d.StorageKey != "" {
			cols = append(cols, d.StorageKey)
			continue
		}
		cols = append(cols, d.Name)
	}
	return cols
}

func tableColumns(t *entschema.Table) []string {
	var cols []string
	for _, c := range t.Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

// The hand-declared tables must match the ent schema definitions.
func TestTablesMatchSchema(t *testing.T) {
	tests := []struct {
		table  *entschema.Table
		schema entSchema
		id     bool
	}{
		{RecordsTable, schema.Record{}, false},
		{AttemptEventsTable, schema.AttemptEvent{}, true},
		{LlmRequestEventsTable, schema.LLMRequestEvent{}, true},
	}

	for _, tt := range tests {
		want := fieldColumns(tt.schema)
		if tt.id {
			want = append([]string{"id"}, want...)
		}
		if got := tableColumns(tt.table); !reflect.DeepEqual(got, want) {
			t.Errorf("%s columns = %v, want %v", tt.table.Name, got, want)
		}
	}
}
