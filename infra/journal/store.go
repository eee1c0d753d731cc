// Package journal persists simulation notifications as JSON lines so runs can
// be inspected after the fact.
package journal

import (
	"context"
	"encoding/json"
	"time"
)

// Record is one notification of one run.
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	RunID     string          `json:"run_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
}

// Query filters records. Zero values match everything.
type Query struct {
	RunID string
	Kinds []string
}

func (q Query) match(r Record) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if len(q.Kinds) == 0 {
		return true
	}
	for _, k := range q.Kinds {
		if k == r.Kind {
			return true
		}
	}
	return false
}

// Store persists records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
