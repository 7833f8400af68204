package tape

import (
	"go.uber.org/zap"

	"railfeed/pkg/feed"
)

const (
	// DefaultSize bounds the recent-execution ring.
	DefaultSize = 256
	// DefaultMilestone is how many delta batches pass between count log lines.
	DefaultMilestone = 10
)

// Aggregator tracks completed executions arriving off the stream: a
// monotone batch count, per-role totals and a bounded ring of the most
// recent executions for inspection. State is purely additive; there are
// no error conditions.
//
// Like the book, an Aggregator is owned by a single pipeline consumer and
// is not safe for concurrent use.
type Aggregator struct {
	log *zap.SugaredLogger

	batches    uint64
	executions uint64
	makers     uint64
	takers     uint64

	ring      []feed.Execution
	next      int
	wrapped   bool
	milestone uint64
}

// New creates an aggregator keeping the last size executions and logging
// a milestone every interval batches. Non-positive arguments fall back to
// the defaults.
func New(log *zap.SugaredLogger, size, interval int) *Aggregator {
	if size <= 0 {
		size = DefaultSize
	}
	if interval <= 0 {
		interval = DefaultMilestone
	}
	return &Aggregator{
		log:       log,
		ring:      make([]feed.Execution, size),
		milestone: uint64(interval),
	}
}

// Prime seeds the ring from the initial completedOrders snapshot. Primed
// executions are visible through Recent but do not advance the batch
// count, which tracks deltas only.
func (a *Aggregator) Prime(executions []feed.Execution) {
	for _, e := range executions {
		a.push(e)
	}
	a.log.Infow("initial_completed_orders_primed", "executions", len(executions))
}

// Record ingests one delta batch, in list order, and logs the running
// batch count at every milestone.
func (a *Aggregator) Record(batch []feed.Execution) {
	a.batches++
	for _, e := range batch {
		a.executions++
		if e.Role == feed.Maker {
			a.makers++
		} else {
			a.takers++
		}
		a.push(e)
	}
	if a.batches%a.milestone == 0 {
		a.log.Infow("completed_delta_milestone",
			"batches", a.batches,
			"executions", a.executions,
			"makers", a.makers,
			"takers", a.takers)
	}
}

func (a *Aggregator) push(e feed.Execution) {
	a.ring[a.next] = e
	a.next++
	if a.next == len(a.ring) {
		a.next = 0
		a.wrapped = true
	}
}

// Recent returns a copy of the retained executions, oldest first.
func (a *Aggregator) Recent() []feed.Execution {
	if !a.wrapped {
		out := make([]feed.Execution, a.next)
		copy(out, a.ring[:a.next])
		return out
	}
	out := make([]feed.Execution, 0, len(a.ring))
	out = append(out, a.ring[a.next:]...)
	out = append(out, a.ring[:a.next]...)
	return out
}

// Batches returns the number of delta batches recorded so far.
func (a *Aggregator) Batches() uint64 { return a.batches }

// Executions returns the number of individual executions recorded so far,
// not counting the primed snapshot.
func (a *Aggregator) Executions() uint64 { return a.executions }
