package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryQueuePriorityAndFIFO(t *testing.T) {
	q := NewMemoryQueue()

	q.Push(Item{Type: "low-a", Priority: 1})
	q.Push(Item{Type: "high", Priority: 5})
	q.Push(Item{Type: "low-b", Priority: 1})

	item, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, "high", item.Type)

	// same priority drains in insertion order
	item, _ = q.Pop()
	require.Equal(t, "low-a", item.Type)
	item, _ = q.Pop()
	require.Equal(t, "low-b", item.Type)

	_, ok = q.Pop()
	require.False(t, ok)
}

func TestDrainSendsEverything(t *testing.T) {
	queue := NewQueue(NewMemoryQueue())
	queue.Push("receipt", 3, map[string]string{"user_id": "1"})
	queue.Push("reminder", 2, map[string]string{"user_id": "2"})

	var sent []string
	res := queue.Drain(context.Background(), func(ctx context.Context, item Item) error {
		sent = append(sent, item.Type)
		return nil
	})

	require.Equal(t, DrainResult{Processed: 2}, res)
	require.Equal(t, []string{"receipt", "reminder"}, sent)
	require.Equal(t, 0, queue.Len())
}

func TestDrainRequeuesOnceThenDrops(t *testing.T) {
	queue := NewQueue(NewMemoryQueue())
	queue.Push("flaky", 1, nil)

	attempts := 0
	fail := func(ctx context.Context, item Item) error {
		attempts++
		return errors.New("smtp down")
	}

	// first pass: the failed item goes back once
	res := queue.Drain(context.Background(), fail)
	require.Equal(t, DrainResult{Requeued: 1}, res)
	require.Equal(t, 1, queue.Len())

	// second pass: out of attempts, dropped
	res = queue.Drain(context.Background(), fail)
	require.Equal(t, DrainResult{Skipped: 1}, res)
	require.Equal(t, 0, queue.Len())
	require.Equal(t, 2, attempts)
}

func TestDrainBoundsPassToInitialLength(t *testing.T) {
	queue := NewQueue(NewMemoryQueue())
	queue.Push("a", 1, nil)

	calls := 0
	res := queue.Drain(context.Background(), func(ctx context.Context, item Item) error {
		calls++
		return errors.New("always fails")
	})

	// one item present at start means exactly one send in this pass,
	// even though the failure pushed it back
	require.Equal(t, 1, calls)
	require.Equal(t, DrainResult{Requeued: 1}, res)
}
