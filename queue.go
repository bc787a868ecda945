package lumen

import "sync"

// opQueue is an unbounded FIFO with any number of senders and one receiver.
// Sends never block.
type opQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []RenderOp
	head   int
	closed bool
}

func newOpQueue() *opQueue {
	q := &opQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// send panics once the receiver is gone: a frame outliving its renderer is
// a protocol violation.
func (q *opQueue) send(op RenderOp) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		panic("lumen: render op sent after the renderer finished")
	}
	q.items = append(q.items, op)
	q.cond.Signal()
}

// recv blocks until an op is available.
func (q *opQueue) recv() RenderOp {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) {
		q.cond.Wait()
	}
	op := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return op
}

// close drops the receive side; pending ops are discarded.
func (q *opQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.head = 0
	q.mu.Unlock()
}

func (q *opQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
