// Package yaupdates holds the pending-update queue between the webhook listener and the
// dispatcher.
//
// Producers push without ever blocking; a single consumer pulls the items in push order
// through the Stream returned by Queue.Stream.
//
// Example usage:
//
//	queue := yaupdates.NewQueue()
//
//	stream, err := queue.Stream()
//	if err != nil {
//		// Handle error
//	}
//
//	go func() {
//		_ = queue.Push(update)
//		queue.Close()
//	}()
//
//	for item := range stream.All(ctx) {
//		// Handle item
//	}
package yaupdates

import (
	"context"
	"iter"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

// Item is either a decoded update or an ingestion error marker.
type Item struct {
	Update yatgtypes.Update
	Err    yaerrors.Error
}

// Queue is an unbounded many-producer, single-consumer FIFO of Items.
type Queue struct {
	cond    *sync.Cond
	buffer  []Item
	closed  bool
	taken   atomic.Bool
	pending atomic.Int64
	out     chan Item
}

// NewQueue creates an empty queue and starts the goroutine that feeds its stream.
//
// Example usage:
//
//	queue := yaupdates.NewQueue()
//	defer queue.Close()
func NewQueue() *Queue {
	queue := &Queue{
		cond: sync.NewCond(&sync.Mutex{}),
		out:  make(chan Item),
	}

	go queue.pump()

	return queue
}

// Push appends update to the queue. It fails with ErrQueueClosed after Close.
func (q *Queue) Push(update yatgtypes.Update) yaerrors.Error {
	return q.push(Item{Update: update})
}

// PushError appends an ingestion error marker to the queue.
func (q *Queue) PushError(err yaerrors.Error) yaerrors.Error {
	return q.push(Item{Err: err})
}

func (q *Queue) push(item Item) yaerrors.Error {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	if q.closed {
		return yaerrors.FromError(http.StatusInternalServerError, ErrQueueClosed, "failed to push update")
	}

	q.buffer = append(q.buffer, item)
	q.pending.Add(1)

	q.cond.Signal()

	return nil
}

// Close stops accepting pushes. Items already queued are still delivered, after which the
// stream ends. Close is idempotent.
func (q *Queue) Close() {
	q.cond.L.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.cond.L.Unlock()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	return q.closed
}

// Len returns the number of pushed items the consumer has not received yet.
func (q *Queue) Len() int {
	return int(q.pending.Load())
}

// Stream hands out the consuming half of the queue. Only one stream exists per queue; later
// calls fail with ErrStreamTaken.
func (q *Queue) Stream() (*Stream, yaerrors.Error) {
	if !q.taken.CompareAndSwap(false, true) {
		return nil, yaerrors.FromError(http.StatusConflict, ErrStreamTaken, "failed to take update stream")
	}

	return &Stream{queue: q}, nil
}

// pump moves items from the buffer to the stream channel one at a time and closes the
// channel once the queue is closed and drained.
func (q *Queue) pump() {
	for {
		q.cond.L.Lock()

		for len(q.buffer) == 0 && !q.closed {
			q.cond.Wait()
		}

		if len(q.buffer) == 0 {
			q.cond.L.Unlock()
			close(q.out)

			return
		}

		item := q.buffer[0]
		q.buffer[0] = Item{}
		q.buffer = q.buffer[1:]

		q.cond.L.Unlock()

		q.out <- item
	}
}

// Stream is the lazy, sequential, non-restartable view of a Queue.
type Stream struct {
	queue *Queue
}

// Next blocks until an item is available. It returns false once the queue is closed and
// drained, or when ctx is done.
//
// Example usage:
//
//	for {
//		item, ok := stream.Next(ctx)
//		if !ok {
//			break
//		}
//		// Handle item
//	}
func (s *Stream) Next(ctx context.Context) (Item, bool) {
	select {
	case item, ok := <-s.queue.out:
		if !ok {
			return Item{}, false
		}

		s.queue.pending.Add(-1)

		return item, true
	case <-ctx.Done():
		return Item{}, false
	}
}

// All returns the remaining items as an iterator. Breaking out of the loop leaves the rest
// of the items in the queue for a later Next or All call.
func (s *Stream) All(ctx context.Context) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for {
			item, ok := s.Next(ctx)
			if !ok || !yield(item) {
				return
			}
		}
	}
}
