package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
)

// ImportRecords appends records to a collection and returns how many were
// new. Uses ON CONFLICT(collection, hash) DO NOTHING for idempotency -
// records already present in the collection are silently skipped.
//
// Records are stored as written (not normalized); the hash is taken over
// their canonical JSON.
func (s *Store) ImportRecords(ctx context.Context, collection string, recs []record.Object) (int, error) {
	if collection == "" {
		return 0, fmt.Errorf("import records: collection is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("import records: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, hash, body)
		VALUES (?, ?, ?)
		ON CONFLICT(collection, hash) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("import records: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i, rec := range recs {
		hash, err := record.Hash(rec)
		if err != nil {
			return 0, fmt.Errorf("import records: record %d: %w", i, err)
		}
		body, err := record.MarshalValue(rec)
		if err != nil {
			return 0, fmt.Errorf("import records: record %d: %w", i, err)
		}
		result, err := stmt.ExecContext(ctx, collection, hash, string(body))
		if err != nil {
			return 0, fmt.Errorf("import records: record %d: %w", i, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("import records: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import records: commit: %w", err)
	}

	s.logger.Info("records imported",
		zap.String("collection", collection),
		zap.Int("received", len(recs)),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

// Records returns the records of a collection that satisfy state, in
// import order. The result equals filter.Apply over the whole collection.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Records(ctx context.Context, collection string, descs []filter.Descriptor, state filter.State) ([]record.Object, error) {
	query, params, err := s.compiler.Compile(collection, descs, state)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}

	candidates, err := s.scanRecords(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	result := filter.Apply(candidates, descs, state)

	s.logger.Debug("records read",
		zap.String("collection", collection),
		zap.Strings("pushed_down", s.compiler.PushedDown(descs, state)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(result)),
	)
	return result, nil
}

// AllRecords returns every record of a collection in import order.
func (s *Store) AllRecords(ctx context.Context, collection string) ([]record.Object, error) {
	return s.Records(ctx, collection, nil, nil)
}

func (s *Store) scanRecords(ctx context.Context, query string, params ...any) ([]record.Object, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	recs := []record.Object{}
	for rows.Next() {
		var (
			id   int64
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		v, err := record.Decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", id, err)
		}
		obj, ok := v.(record.Object)
		if !ok {
			return nil, fmt.Errorf("decode record %d: expected object, got %s", id, record.Describe(v))
		}
		recs = append(recs, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return recs, nil
}

// Collection summarizes one stored collection.
type Collection struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// Collections lists the stored collections in name order.
func (s *Store) Collections(ctx context.Context) ([]Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT collection, COUNT(*)
		FROM records
		GROUP BY collection
		ORDER BY collection COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	collections := []Collection{}
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.Name, &c.Records); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	return collections, nil
}

// DeleteCollection removes every record of a collection and returns how
// many were deleted. Snapshots are kept.
func (s *Store) DeleteCollection(ctx context.Context, collection string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, collection)
	if err != nil {
		return 0, fmt.Errorf("delete collection: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete collection: rows affected: %w", err)
	}
	s.logger.Info("collection deleted", zap.String("collection", collection), zap.Int64("records", n))
	return int(n), nil
}
