package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/logger"
)

// Sink appends every notification of one run to a Store.
type Sink struct {
	store Store
	runID string
	log   logger.Logger
	now   func() time.Time
}

// NewSink returns a Sink tagging records with runID.
func NewSink(store Store, runID string, log logger.Logger) *Sink {
	return &Sink{store: store, runID: runID, log: log, now: time.Now}
}

func (s *Sink) Notify(n events.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Errorf("journal: marshal %s: %v", n.Kind(), err)
		return
	}
	rec := Record{Timestamp: s.now().UTC(), RunID: s.runID, Kind: n.Kind(), Payload: payload}
	if err := s.store.Append(context.Background(), rec); err != nil {
		s.log.Errorf("journal: append %s: %v", n.Kind(), err)
	}
}
