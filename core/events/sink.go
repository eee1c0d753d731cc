package events

import "sync"

// Sink consumes notifications in emission order.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Multi forwards every notification to each sink in order.
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) {}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Of returns the recorded notifications of type T.
func Of[T Notification](r *Recorder) []T {
	var out []T
	for _, n := range r.All() {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
