package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/filter"
)

// ErrSnapshotNotFound is returned by Snapshot for unknown IDs.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StoredSnapshot is a filter snapshot saved for a collection.
type StoredSnapshot struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Snapshot   filter.Snapshot `json:"snapshot"`
}

// SaveSnapshot stores a snapshot for a collection and returns its new ID.
func (s *Store) SaveSnapshot(ctx context.Context, collection string, snap filter.Snapshot) (string, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	id := s.ids.Generate()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, collection, created_at, result_count, body)
		VALUES (?, ?, ?, ?, ?)
	`,
		id,
		collection,
		snap.Timestamp.UTC().Format(time.RFC3339Nano),
		snap.ResultCount,
		string(body),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		zap.String("id", id),
		zap.String("collection", collection),
		zap.Int("filters", len(snap.Filters)),
		zap.Int("result_count", snap.ResultCount),
	)
	return id, nil
}

// Snapshots lists the snapshots of a collection, oldest first.
//
// Returns an empty slice (not nil) if none exist.
func (s *Store) Snapshots(ctx context.Context, collection string) ([]StoredSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection, body
		FROM snapshots
		WHERE collection = ?
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []StoredSnapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Snapshot returns the snapshot with the given ID.
func (s *Store) Snapshot(ctx context.Context, id string) (StoredSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, collection, body FROM snapshots WHERE id = ?
	`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredSnapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return snap, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (StoredSnapshot, error) {
	var (
		snap StoredSnapshot
		body string
	)
	if err := row.Scan(&snap.ID, &snap.Collection, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snap, err
		}
		return snap, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &snap.Snapshot); err != nil {
		return snap, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}
