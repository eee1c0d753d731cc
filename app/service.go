// Package app wires the simulation kernel to its inputs and outputs.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/kilianp07/emsim/config"
	"github.com/kilianp07/emsim/core/engine"
	"github.com/kilianp07/emsim/core/events"
	coremetrics "github.com/kilianp07/emsim/core/metrics"
	"github.com/kilianp07/emsim/core/registry"
	"github.com/kilianp07/emsim/infra/feed"
	"github.com/kilianp07/emsim/infra/journal"
	"github.com/kilianp07/emsim/infra/loader"
	"github.com/kilianp07/emsim/infra/logger"
	"github.com/kilianp07/emsim/infra/metrics"
	"github.com/kilianp07/emsim/infra/trace"
	"github.com/kilianp07/emsim/internal/eventbus"
)

// Service runs one simulation and fans its notifications out to the trace,
// the journal, the MQTT feed and the metric sinks.
type Service struct {
	RunID string

	cfg     *config.Config
	log     logger.Logger
	trace   *trace.Writer
	bus     *eventbus.TypedBus[events.Notification]
	journal journal.Store
	feed    *feed.MQTTPublisher
	metrics coremetrics.MetricsSink
	done    []<-chan struct{}
	cancel  context.CancelFunc
}

// New builds the consumers enabled in cfg. The trace is written to out.
func New(cfg *config.Config, out io.Writer) (*Service, error) {
	if cfg == nil || out == nil {
		return nil, fmt.Errorf("app: nil parameter provided to New")
	}
	s := &Service{
		RunID: uuid.NewString(),
		cfg:   cfg,
		log:   logger.New("service"),
		trace: trace.NewWriter(out),
		bus:   eventbus.NewTyped[events.Notification](eventbus.WithBlocking(), eventbus.WithBuffer(64)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if err := s.start(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.log.Infof("run %s prepared", s.RunID)
	return s, nil
}

func (s *Service) start(ctx context.Context) error {
	if s.cfg.Logging.Enabled {
		store, err := openJournal(s.cfg.Logging)
		if err != nil {
			return fmt.Errorf("app: journal: %w", err)
		}
		s.journal = store
		sink := journal.NewSink(store, s.RunID, logger.New("journal"))
		s.done = append(s.done, eventbus.Drain(ctx, s.bus, sink.Notify))
		s.log.Infof("journal enabled at %s", s.cfg.Logging.Path)
	}
	if s.cfg.MQTT.Enabled {
		pub, err := feed.NewMQTTPublisher(s.cfg.MQTT, s.RunID)
		if err != nil {
			return fmt.Errorf("app: feed: %w", err)
		}
		s.feed = pub
		s.done = append(s.done, pub.Start(ctx, s.bus))
		s.log.Infof("mqtt feed enabled on %s", s.cfg.MQTT.Broker)
	}
	if len(s.cfg.Metrics.Sinks) > 0 {
		sink, err := coremetrics.NewMetricsSink(s.cfg.Metrics.Sinks)
		if err != nil {
			return fmt.Errorf("app: metrics: %w", err)
		}
		s.metrics = sink
		c := metrics.NewCollector(sink, s.RunID, logger.New("metrics"))
		s.done = append(s.done, metrics.StartEventCollector(ctx, s.bus, c))
		s.log.Infof("%d metric sinks enabled", len(s.cfg.Metrics.Sinks))
	}
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return nil
}

func openJournal(c config.LoggingConfig) (journal.Store, error) {
	if c.Backend == "sqlite" {
		return journal.NewSQLiteStore(c.Path)
	}
	return journal.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
}

// Sink returns the notification sink of the run: the trace first, then the bus.
func (s *Service) Sink() events.Sink {
	return events.Multi{s.trace, events.SinkFunc(s.bus.Publish)}
}

// Run loads the inputs and simulates them. It waits for the asynchronous
// consumers to drain before returning. Run may be called once.
func (s *Service) Run(ctx context.Context, paths loader.Paths, maxTicks int) (registry.Statistics, error) {
	defer s.drain()
	sink := s.Sink()
	world, err := loader.Load(paths, sink)
	if err != nil {
		return registry.Statistics{}, err
	}
	reg, err := world.Registry()
	if err != nil {
		return registry.Statistics{}, err
	}
	sim, err := engine.New(reg, sink, logger.New("engine"))
	if err != nil {
		return registry.Statistics{}, err
	}
	stats, err := sim.Run(ctx, maxTicks)
	if err != nil {
		return stats, err
	}
	if err := s.trace.Err(); err != nil {
		return stats, fmt.Errorf("app: trace: %w", err)
	}
	return stats, nil
}

func (s *Service) drain() {
	s.bus.Close()
	for _, d := range s.done {
		<-d
	}
	s.done = nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.drain()
	s.cancel()
	var errs []error
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	if s.feed != nil {
		s.feed.Disconnect()
	}
	if c, ok := s.metrics.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
