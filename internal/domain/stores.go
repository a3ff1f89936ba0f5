package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Record is a stored resource item. Payload is the item's JSON as served.
type Record struct {
	Resource  string          `json:"resource"`
	ID        ID              `json:"id"`
	Position  int             `json:"position"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ListOpts struct {
	Limit  int
	Offset int
}

type RecordStore interface {
	List(ctx context.Context, resource string, opts ListOpts) ([]Record, int, error)
	GetByID(ctx context.Context, resource string, id ID) (*Record, error)
	Upsert(ctx context.Context, r *Record) error
	Count(ctx context.Context, resource string) (int, error)
}
