package incident

import "container/heap"

// Queue pops emergencies by priority. The same emergency may be pushed
// again while it is waiting.
type Queue struct {
	h items
}

type items []*Emergency

func (h items) Len() int           { return len(h) }
func (h items) Less(i, j int) bool { return Less(h[i], h[j]) }
func (h items) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *items) Push(x any)        { *h = append(*h, x.(*Emergency)) }
func (h *items) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NewQueue returns a queue seeded with es.
func NewQueue(es []*Emergency) *Queue {
	q := &Queue{h: append(items(nil), es...)}
	heap.Init(&q.h)
	return q
}

func (q *Queue) Push(e *Emergency) { heap.Push(&q.h, e) }

// Pop removes the most urgent emergency. It returns nil when empty.
func (q *Queue) Pop() *Emergency {
	if q.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*Emergency)
}

func (q *Queue) Len() int { return q.h.Len() }
