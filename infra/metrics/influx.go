package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/emsim/core/metrics"
	"github.com/kilianp07/emsim/infra/logger"
)

// InfluxSink writes simulation records to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func (s *InfluxSink) writePoint(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunStatistics writes the end of run counts.
func (s *InfluxSink) RecordRunStatistics(st coremetrics.RunStatistics) error {
	p := write.NewPointWithMeasurement("run_statistics").
		AddTag("run_id", st.RunID).
		AddField("ticks", st.Ticks).
		AddField("received", st.Received).
		AddField("resolved", st.Resolved).
		AddField("failed", st.Failed).
		AddField("ongoing", st.Ongoing).
		AddField("rerouted", st.Rerouted).
		SetTime(st.Time)
	return s.writePoint(p)
}

// RecordTick writes one point per simulated tick.
func (s *InfluxSink) RecordTick(tp coremetrics.TickPoint) error {
	p := write.NewPointWithMeasurement("simulation_tick").
		AddTag("run_id", tp.RunID).
		AddField("tick", tp.Tick).
		AddField("ongoing", tp.Ongoing).
		AddField("allocations", tp.Allocations).
		AddField("arrivals", tp.Arrivals).
		AddField("rerouted", tp.Rerouted).
		SetTime(tp.Time)
	return s.writePoint(p)
}

// RecordDispatch writes a matcher decision.
func (s *InfluxSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	p := write.NewPointWithMeasurement("dispatch_decision").
		AddTag("run_id", ev.RunID).
		AddTag("kind", string(ev.Kind)).
		AddTag("emergency_id", strconv.Itoa(ev.Emergency))
	if ev.Vehicle >= 0 {
		p = p.AddTag("vehicle_id", strconv.Itoa(ev.Vehicle))
	}
	if ev.Station >= 0 {
		p = p.AddTag("station_id", strconv.Itoa(ev.Station))
	}
	p = p.AddField("tick", ev.Tick).
		AddField("eta", ev.ETA).
		SetTime(ev.Time)
	return s.writePoint(p)
}

// RecordIncident writes an incident transition.
func (s *InfluxSink) RecordIncident(ev coremetrics.IncidentEvent) error {
	p := write.NewPointWithMeasurement("incident_transition").
		AddTag("run_id", ev.RunID).
		AddTag("emergency_id", strconv.Itoa(ev.Emergency)).
		AddTag("outcome", ev.Outcome).
		AddField("tick", ev.Tick).
		SetTime(ev.Time)
	return s.writePoint(p)
}
