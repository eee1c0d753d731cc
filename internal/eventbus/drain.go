package eventbus

import "context"

// Drain subscribes handle to the bus and calls it for every value until the
// bus is closed. Values received after ctx is canceled are discarded so a
// blocking publisher never stalls. The returned channel is closed once the
// subscriber stopped.
func Drain[T any](ctx context.Context, bus *TypedBus[T], handle func(T)) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || handle == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		for v := range sub {
			if ctx.Err() == nil {
				handle(v)
			}
		}
	}()
	return done
}
