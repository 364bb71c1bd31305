package drive

import (
	"context"
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sync/errgroup"

	"github.com/NetPo4ki/go-steplocal/steplocal"
)

// Scheduler is a cooperative round-robin scheduler: submitted
// executions sit in a FIFO run queue, worker goroutines pop one,
// advance it a single step, and re-enqueue it while it is pending. A
// task is out of the queue while it is being stepped, so no execution
// is ever stepped concurrently, but successive steps of one execution
// land on arbitrary workers.
type Scheduler struct {
	mu      sync.Mutex
	q       *queue.Queue // of task
	pending int          // submitted and not yet completed
	wake    chan struct{}
}

type task func(ctx context.Context) bool

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{q: queue.New(), wake: make(chan struct{}, 1)}
}

// Submit enqueues e and returns a handle resolving to its output.
// Submitting before or during Run are both fine.
func Submit[O any](s *Scheduler, e steplocal.Execution[O]) *Ticket[O] {
	t := &Ticket[O]{done: make(chan struct{})}
	s.enqueue(func(ctx context.Context) bool {
		out, done := e.Step(ctx)
		if done {
			t.out = out
			close(t.done)
		}
		return done
	})
	return t
}

// Run steps submitted executions across n worker goroutines until every
// one of them has completed, or ctx is canceled. A non-positive n means
// one worker.
func (s *Scheduler) Run(ctx context.Context, n int) error {
	if n <= 0 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for {
				t, err := s.next(ctx)
				if err != nil || t == nil {
					return err
				}
				if t(ctx) {
					s.finish()
				} else {
					s.requeue(t)
				}
			}
		})
	}
	return g.Wait()
}

func (s *Scheduler) enqueue(t task) {
	s.mu.Lock()
	s.q.Add(t)
	s.pending++
	s.mu.Unlock()
	s.kick()
}

func (s *Scheduler) requeue(t task) {
	s.mu.Lock()
	s.q.Add(t)
	s.mu.Unlock()
	s.kick()
}

func (s *Scheduler) finish() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	s.kick()
}

func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// next pops the next runnable task, blocking while the queue is empty
// but unfinished tasks are still in flight. It returns a nil task when
// all submitted work is done.
func (s *Scheduler) next(ctx context.Context) (task, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.q.Length() > 0 {
			t := s.q.Remove().(task)
			s.mu.Unlock()
			return t, nil
		}
		idle := s.pending == 0
		s.mu.Unlock()
		if idle {
			// Cascade the wakeup so sibling workers drain too.
			s.kick()
			return nil, nil
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ticket resolves to a submitted execution's output.
type Ticket[O any] struct {
	done chan struct{}
	out  O
}

// Wait blocks until the execution completes or ctx is canceled.
func (t *Ticket[O]) Wait(ctx context.Context) (O, error) {
	select {
	case <-t.done:
		return t.out, nil
	case <-ctx.Done():
		var zero O
		return zero, ctx.Err()
	}
}
