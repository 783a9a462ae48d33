package evictingqueue

import "sync"

//
// EvictingQueue is a thread-safe queue structure that automatically maintains the desired maximum
// size by evicting its oldest element if a new element is being added when at capacity. It is
// modeled after the EvictingQueue class from the Google Guava library for Java.
//
type EvictingQueue[T comparable] struct {
	mu    *sync.Mutex
	size  int
	queue []T
}

//
// New instantiates a new evicting queue with the specified maximum size. A size below one is
// treated as one.
//
func New[T comparable](maxSize int) *EvictingQueue[T] {
	if maxSize < 1 {
		maxSize = 1
	}

	return &EvictingQueue[T]{
		mu:    &sync.Mutex{},
		size:  maxSize,
		queue: make([]T, 0, maxSize),
	}
}

//
// Add appends the provided element to the evicting queue and evicts the oldest element if necessary
// to maintain its maximum size.
//
func (o *EvictingQueue[T]) Add(e T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Remove the oldest element from the tail of the queue if we are currently at capacity.
	//
	if len(o.queue) == o.size {
		o.queue = o.queue[1:]
	}

	//
	// Append the new element to head of the queue.
	//
	o.queue = append(o.queue, e)
}

//
// Get returns the element that exists at the specified index of the queue and a true sentinel, or
// the zero value and a false sentinel if the index is out-of-range.
//
func (o *EvictingQueue[T]) Get(index int) (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if index < 0 || index >= len(o.queue) {
		var zero T

		return zero, false
	}

	return o.queue[index], true
}

//
// Contains returns whether or not the provided element is currently held by the queue.
//
func (o *EvictingQueue[T]) Contains(e T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, v := range o.queue {
		if v == e {
			return true
		}
	}

	return false
}

//
// AddIfAbsent appends the provided element unless it is already held, and reports whether it was
// added. The check and the append happen atomically.
//
func (o *EvictingQueue[T]) AddIfAbsent(e T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, v := range o.queue {
		if v == e {
			return false
		}
	}

	if len(o.queue) == o.size {
		o.queue = o.queue[1:]
	}

	o.queue = append(o.queue, e)

	return true
}

//
// Len returns the current length of the queue.
//
func (o *EvictingQueue[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.queue)
}
