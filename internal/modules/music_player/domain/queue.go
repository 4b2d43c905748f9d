package domain

import "math/rand/v2"

// Queue is a bounded first-in-first-out queue of items waiting to be played.
// It is not safe for concurrent use; the owning scheduler serializes access.
type Queue struct {
	items   []*QueueItem
	maxSize int
}

// NewQueue creates a new empty Queue holding at most maxSize items.
// A non-positive maxSize means unbounded.
func NewQueue(maxSize int) *Queue {
	return &Queue{
		items:   make([]*QueueItem, 0),
		maxSize: maxSize,
	}
}

// Push appends an item. It returns ErrQueueFull, leaving the queue untouched,
// when the queue already holds maxSize items.
func (q *Queue) Push(item *QueueItem) error {
	if q.IsFull() {
		return ErrQueueFull
	}
	q.items = append(q.items, item)
	return nil
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (*QueueItem, bool) {
	if q.IsEmpty() {
		return nil, false
	}

	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head, true
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return len(q.items)
}

// IsEmpty returns true if nothing is queued.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// IsFull returns true if another Push would fail.
func (q *Queue) IsFull() bool {
	return q.maxSize > 0 && q.Len() >= q.maxSize
}

// List returns a copy of the queued items in play order.
func (q *Queue) List() []*QueueItem {
	result := make([]*QueueItem, q.Len())
	copy(result, q.items)
	return result
}

// Shuffle randomly permutes the queued items in place.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// Clear removes every queued item.
func (q *Queue) Clear() {
	q.items = make([]*QueueItem, 0)
}
