package util

import (
	"sync"
)

// ExecutorPool runs a worker function over submitted items with a bound on
// how many run at once. Doc generation uses it to keep a fixed number of
// model calls in flight.
type ExecutorPool[T any] struct {
	worker func(T)
	queue  chan T
	slots  chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewExecutorPool starts a pool of at most maxConcurrent workers reading
// from a queue of bufferSize. Submit blocks once the queue is full.
func NewExecutorPool[T any](maxConcurrent int, bufferSize int, worker func(T)) *ExecutorPool[T] {
	p := &ExecutorPool[T]{
		worker: worker,
		queue:  make(chan T, bufferSize),
		slots:  make(chan struct{}, maxConcurrent),
		done:   make(chan struct{}),
	}
	go p.dispatch()
	return p
}

func (p *ExecutorPool[T]) dispatch() {
	defer close(p.done)
	for item := range p.queue {
		p.slots <- struct{}{}
		p.wg.Add(1)
		go func(item T) {
			defer func() {
				<-p.slots
				p.wg.Done()
			}()
			p.worker(item)
		}(item)
	}
	p.wg.Wait()
}

// Submit queues one item for processing. Submissions after Close are
// dropped.
func (p *ExecutorPool[T]) Submit(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue <- item
}

// Close stops accepting work and blocks until every queued item has been
// processed
func (p *ExecutorPool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
}
