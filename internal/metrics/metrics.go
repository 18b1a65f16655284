package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the process-wide counters surfaced by the admin summary
// endpoint.
type Registry struct {
	Requests      Counter
	RequestErrors Counter
	OrdersCreated Counter
	OrdersPaid    Counter
}

// Snapshot is a point-in-time read of every counter, shaped for a JSON
// response.
type Snapshot struct {
	Requests      uint64 `json:"requests"`
	RequestErrors uint64 `json:"requestErrors"`
	OrdersCreated uint64 `json:"ordersCreated"`
	OrdersPaid    uint64 `json:"ordersPaid"`
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		Requests:      r.Requests.Load(),
		RequestErrors: r.RequestErrors.Load(),
		OrdersCreated: r.OrdersCreated.Load(),
		OrdersPaid:    r.OrdersPaid.Load(),
	}
}

var Default = &Registry{}
