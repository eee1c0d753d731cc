// Package feed publishes kernel notifications to an MQTT broker, one JSON
// message per notification on topic "<prefix>/<kind>".
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/emsim/core/events"
	coremon "github.com/kilianp07/emsim/core/monitoring"
	"github.com/kilianp07/emsim/infra/logger"
	"github.com/kilianp07/emsim/internal/eventbus"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Message is the JSON envelope of one published notification.
type Message struct {
	RunID     string              `json:"run_id"`
	Kind      string              `json:"kind"`
	Timestamp int64               `json:"timestamp"`
	Payload   events.Notification `json:"payload"`
}

// MQTTPublisher implements events.Sink on top of Eclipse Paho.
type MQTTPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	runID      string
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewMQTTPublisher connects to the broker described by cfg.
func NewMQTTPublisher(cfg Config, runID string) (*MQTTPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_feed")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("feed: connect %s: %w", cfg.Broker, token.Error())
	}
	return &MQTTPublisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		runID:      runID,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// Topic returns the topic a notification of the given kind is published on.
func (p *MQTTPublisher) Topic(kind string) string {
	return p.prefix + "/" + kind
}

// Publish sends n, retrying with exponential backoff.
func (p *MQTTPublisher) Publish(n events.Notification) error {
	payload, err := json.Marshal(Message{
		RunID:     p.runID,
		Kind:      n.Kind(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   n,
	})
	if err != nil {
		return err
	}
	topic := p.Topic(n.Kind())
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d on %s failed: %v", attempt+1, topic, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	coremon.CaptureException(publishErr, map[string]string{"module": "feed", "kind": n.Kind(), "run_id": p.runID})
	return publishErr
}

// Notify publishes n and logs failures.
func (p *MQTTPublisher) Notify(n events.Notification) {
	if err := p.Publish(n); err != nil {
		p.log.Warnf("feed: drop %s: %v", n.Kind(), err)
	}
}

// Start publishes the notifications of the bus until it is closed.
func (p *MQTTPublisher) Start(ctx context.Context, bus *eventbus.TypedBus[events.Notification]) <-chan struct{} {
	return eventbus.Drain(ctx, bus, p.Notify)
}

// Disconnect gracefully closes the MQTT connection.
func (p *MQTTPublisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
