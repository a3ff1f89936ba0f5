package store

import (
	"context"
	"errors"

	"github.com/indredK/history-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordStore keeps every resource in one table keyed by (resource, id).
type RecordStore struct {
	db *pgxpool.Pool
}

func NewRecordStore(db *pgxpool.Pool) *RecordStore {
	return &RecordStore{db: db}
}

// List returns one page of a resource in asset order plus the total count.
// A non-positive limit returns every record.
func (s *RecordStore) List(ctx context.Context, resource string, opts domain.ListOpts) ([]domain.Record, int, error) {
	total, err := s.Count(ctx, resource)
	if err != nil {
		return nil, 0, err
	}

	var limit any
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	offset := max(opts.Offset, 0)

	rows, err := s.db.Query(ctx,
		`SELECT resource, id, position, payload, created_at, updated_at
		 FROM records WHERE resource = $1
		 ORDER BY position, id
		 LIMIT $2 OFFSET $3`,
		resource, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var (
			r  domain.Record
			id string
		)
		if err := rows.Scan(&r.Resource, &id, &r.Position, &r.Payload, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		r.ID = domain.ID(id)
		records = append(records, r)
	}
	return records, total, rows.Err()
}

func (s *RecordStore) GetByID(ctx context.Context, resource string, id domain.ID) (*domain.Record, error) {
	r := &domain.Record{ID: id}
	err := s.db.QueryRow(ctx,
		`SELECT resource, position, payload, created_at, updated_at
		 FROM records WHERE resource = $1 AND id = $2`,
		resource, string(id),
	).Scan(&r.Resource, &r.Position, &r.Payload, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *RecordStore) Upsert(ctx context.Context, r *domain.Record) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO records (resource, id, position, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (resource, id) DO UPDATE
		 SET position = EXCLUDED.position, payload = EXCLUDED.payload, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		r.Resource, string(r.ID), r.Position, r.Payload,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *RecordStore) Count(ctx context.Context, resource string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM records WHERE resource = $1`,
		resource,
	).Scan(&n)
	return n, err
}
