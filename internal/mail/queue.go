package mail

import (
	"container/heap"
	"context"
	"log"
	"sync"
)

const maxQueueAttempts = 2

// Item is one queued send. Data carries template parameters as strings so the
// queue stays storage-agnostic.
type Item struct {
	Type     string
	Priority int // higher drains first
	Data     map[string]string
	Attempts int
}

// QueueStore is the storage contract for the email queue. MemoryQueue is the
// single-instance default; a hosted queue can replace it without touching the
// drain logic.
type QueueStore interface {
	Push(item Item)
	Pop() (Item, bool)
	Len() int
}

// Queue buffers best-effort sends until the cron drain runs them. Not
// durable: a process restart loses queued items.
type Queue struct {
	store QueueStore
}

func NewQueue(store QueueStore) *Queue {
	return &Queue{store: store}
}

func (q *Queue) Push(itemType string, priority int, data map[string]string) {
	q.store.Push(Item{Type: itemType, Priority: priority, Data: data})
}

func (q *Queue) Len() int { return q.store.Len() }

// DrainResult reports what one drain pass did.
type DrainResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Requeued  int `json:"requeued"`
}

// Drain pops items by priority and hands each to send. A failed item is
// pushed back once; after that it is dropped and counted as skipped.
func (q *Queue) Drain(ctx context.Context, send func(ctx context.Context, item Item) error) DrainResult {
	var res DrainResult
	// bound the pass to the items present at start so requeues don't loop
	for n := q.store.Len(); n > 0; n-- {
		item, ok := q.store.Pop()
		if !ok {
			break
		}
		if err := send(ctx, item); err != nil {
			item.Attempts++
			if item.Attempts < maxQueueAttempts {
				q.store.Push(item)
				res.Requeued++
			} else {
				log.Printf("mail_queue_drop type=%s attempts=%d err=%v", item.Type, item.Attempts, err)
				res.Skipped++
			}
			continue
		}
		res.Processed++
	}
	return res
}

// MemoryQueue is a mutex-guarded binary heap ordered by priority.
type MemoryQueue struct {
	mu    sync.Mutex
	items itemHeap
	seq   int
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Push(item Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	heap.Push(&q.items, heapEntry{Item: item, seq: q.seq})
}

func (q *MemoryQueue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return Item{}, false
	}
	entry := heap.Pop(&q.items).(heapEntry)
	return entry.Item, true
}

func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

type heapEntry struct {
	Item
	seq int // FIFO within the same priority
}

type itemHeap []heapEntry

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(heapEntry)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
