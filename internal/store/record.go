package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type recordRepo struct {
	drv *entsql.Driver
	now func() time.Time
}

func (r *recordRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := builder().
		Select("value").
		From(builder().Table(RecordsTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, false, fmt.Errorf("get record %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan record %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *recordRepo) Put(ctx context.Context, key string, value []byte) error {
	query, args := builder().
		Insert(RecordsTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, string(value), toMillis(r.now())).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put record %s: %w", key, err)
	}
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().
		Delete(RecordsTable.Name).
		Where(entsql.EQ("key", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

func (r *recordRepo) Keys(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("key").
		From(builder().Table(RecordsTable.Name)).
		OrderBy("key").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list record keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan record key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadJSON decodes the record under key into v. It returns false when the
// key is absent; v is untouched in that case.
func LoadJSON(ctx context.Context, repo RecordRepo, key string, v any) (bool, error) {
	data, ok, err := repo.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode record %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, repo RecordRepo, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	return repo.Put(ctx, key, data)
}
