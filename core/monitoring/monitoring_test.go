package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordMonitor struct {
	errs    []error
	tags    map[string]string
	panics  []any
	flushed time.Duration
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(v any)    { r.panics = append(r.panics, v) }
func (r *recordMonitor) Flush(d time.Duration) { r.flushed = d }

func TestGlobalMonitor(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(NopMonitor{})

	Init(nil)
	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"module": "feed"})
	CapturePanic(nil)
	CapturePanic("invariant broken")
	Flush(time.Second)

	assert.Len(t, mon.errs, 1)
	assert.Equal(t, "feed", mon.tags["module"])
	assert.Equal(t, []any{"invariant broken"}, mon.panics)
	assert.Equal(t, time.Second, mon.flushed)
}

func TestRecoverAndRepanic(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(NopMonitor{})

	assert.PanicsWithValue(t, "kaboom", func() {
		defer func() {
			if r := recover(); r != nil {
				CapturePanic(r)
				Flush(time.Millisecond)
				panic(r)
			}
		}()
		panic("kaboom")
	})
	assert.Equal(t, []any{"kaboom"}, mon.panics)
	assert.Equal(t, time.Millisecond, mon.flushed)
}
