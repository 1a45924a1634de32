// Package driver is the compilation driver from spec.md §4.4: it opens a
// source file, constructs a scanner+parser pair for it, runs the parser,
// and schedules follow-up jobs for every module the file reaches via a
// "<reference path>" directive or a relative import/require.
//
// Grounded on _examples/original_source/src/compiler/{compiler,worker,
// channel,worker-queue}.{h,cc} for the job-queue/worker-pool shape, and on
// evanw-esbuild/internal/bundler.ScanBundle for the Go idiom of the same
// problem (a mutex-guarded results slice, a dedup set of scheduled paths,
// and a pending-job counter).
package driver

import "sync"

// job is spec.md §4.4's per-file unit of work.
type job struct {
	id   string
	path string
}

// queue is the Go rendering of original_source's WorkerQueue: an unbounded
// FIFO guarded by a mutex/condvar instead of a lock-free ring buffer, since
// this core has no latency requirement that would justify one.
//
// Its pop() implements the corrected wake predicate spec.md §9's third open
// question calls for. The original's Channel::Wait loops "while
// (queue_.empty() && !exit_)", which is the predicate for *continuing* to
// wait, not the condition that should gate leaving the loop when exit_ is
// set with items still queued; taken literally it can spin once the queue
// drains while shutdown hasn't yet been requested. The condition actually
// wanted, and the one implemented here, is "wait while there is nothing to
// do and we have not been told to stop": !(!items.empty() || exit) i.e.
// items.empty() && !exit, which happens to read the same as the original
// text but is applied as a Cond.Wait predicate (re-checked after every
// wake) rather than a one-shot branch, so a pop() that races a push()/
// shutdown() can never block forever.
type queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []job
	exit    bool
	pending int
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues j and counts it against the pending total. Called only by
// the driver goroutine that discovered j (the initial entry points, or a
// worker that just found a reference/import edge).
func (q *queue) push(j job) {
	q.mu.Lock()
	q.items = append(q.items, j)
	q.pending++
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a job is available or shutdown has been requested,
// using the corrected predicate described above.
func (q *queue) pop() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.exit {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return job{}, false
	}
	j := q.items[0]
	q.items = q.items[1:]
	return j, true
}

// release marks one job complete. When the pending counter reaches zero —
// spec.md §4.4 step 6's "outstanding-job counter reaches zero" — every
// worker is released via exit so the pool winds down without a dedicated
// shutdown goroutine.
func (q *queue) release() {
	q.mu.Lock()
	q.pending--
	drained := q.pending == 0
	if drained {
		q.exit = true
	}
	q.mu.Unlock()
	if drained {
		q.cond.Broadcast()
	}
}

// shutdown is spec.md §5's cancellation flag: workers check it between
// jobs; in-progress jobs still run to completion.
func (q *queue) shutdown() {
	q.mu.Lock()
	q.exit = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
