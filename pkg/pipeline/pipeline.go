package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"railfeed/pkg/book"
	"railfeed/pkg/feed"
	"railfeed/pkg/tape"
)

// DefaultCapacity bounds each delta channel when the config leaves it unset.
const DefaultCapacity = 16

type Config struct {
	// Capacity bounds each delta channel. A full channel suspends the
	// sender until the consumer drains a batch, which propagates
	// backpressure all the way to the stream reader.
	Capacity int
}

// Pipeline fans the single stream reader out to the two sequential
// consumers that own the order book and the execution aggregator. Each
// logical stream gets its own bounded FIFO channel with exactly one
// consumer goroutine, so batches are applied in send order and no two
// deltas for one state machine ever run concurrently.
type Pipeline struct {
	orders     chan []feed.Order
	executions chan []feed.Execution

	book *book.Book
	tape *tape.Aggregator
	log  *zap.SugaredLogger

	// OnBook runs on the book consumer after each applied batch with
	// level copies of both sides, ascending by price. Set before Start.
	OnBook func(bids, offers []book.PriceLevel)
	// OnTape runs on the execution consumer after each recorded batch
	// with a copy of the retained executions. Set before Start.
	OnTape func(recent []feed.Execution)

	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
	failOnce  sync.Once
	err       error
}

// New wires a pipeline around the given state machines. Ownership of the
// book and the aggregator passes to the consumer goroutines once Start
// runs; callers must not touch them directly afterwards.
func New(cfg Config, bk *book.Book, agg *tape.Aggregator, log *zap.SugaredLogger) *Pipeline {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pipeline{
		orders:     make(chan []feed.Order, capacity),
		executions: make(chan []feed.Execution, capacity),
		book:       bk,
		tape:       agg,
		log:        log,
		done:       make(chan struct{}),
	}
}

// Start primes the book and the tape from the initial snapshot, then
// launches both consumer loops. Priming completes before either consumer
// runs, so no delta can ever reach an uninitialized book through the
// pipeline.
func (p *Pipeline) Start(snap feed.Snapshot) {
	p.book.ApplySnapshot(snap.Orders)
	p.tape.Prime(snap.Executions)

	p.wg.Add(2)
	go p.consumeOrders()
	go p.consumeExecutions()
}

// SendOrderDeltas enqueues one batch of order deltas, blocking while the
// channel is full. Returns the context error on cancellation, or the
// pipeline's failure if a consumer has already torn down.
func (p *Pipeline) SendOrderDeltas(ctx context.Context, batch []feed.Order) error {
	select {
	case p.orders <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return p.Err()
	}
}

// SendExecutions enqueues one batch of completed executions, blocking
// while the channel is full.
func (p *Pipeline) SendExecutions(ctx context.Context, batch []feed.Execution) error {
	select {
	case p.executions <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return p.Err()
	}
}

// Close closes both channels. Consumers drain whatever is enqueued and
// exit; this is the orderly-shutdown path. No sends may follow Close.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		close(p.orders)
		close(p.executions)
	})
}

// Wait blocks until both consumers have exited and returns the first
// consumer failure, or nil after an orderly shutdown.
func (p *Pipeline) Wait() error {
	p.wg.Wait()
	return p.Err()
}

// Err returns the recorded consumer failure, if any.
func (p *Pipeline) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// fail records the first consumer error and unblocks pending senders.
func (p *Pipeline) fail(err error) {
	p.failOnce.Do(func() {
		p.err = err
		close(p.done)
		p.log.Errorw("pipeline_consumer_failed", "err", err)
	})
}

func (p *Pipeline) consumeOrders() {
	defer p.wg.Done()
	for batch := range p.orders {
		for _, d := range batch {
			if err := p.book.ApplyDelta(d); err != nil {
				p.fail(fmt.Errorf("pipeline: apply order delta: %w", err))
				return
			}
		}
		if p.OnBook != nil {
			p.OnBook(p.book.Levels(feed.Buy), p.book.Levels(feed.Sell))
		}
	}
}

func (p *Pipeline) consumeExecutions() {
	defer p.wg.Done()
	for batch := range p.executions {
		p.tape.Record(batch)
		if p.OnTape != nil {
			p.OnTape(p.tape.Recent())
		}
	}
}
