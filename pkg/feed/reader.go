package feed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrStreamClosed is returned by FrameSource.Next after the peer closes
// the stream in an orderly way.
var ErrStreamClosed = errors.New("feed: stream closed")

// FrameSource yields complete, defragmented text frames in the order the
// remote sender produced them.
type FrameSource interface {
	Next() ([]byte, error)
}

// DeltaSink receives decoded delta batches in stream order. A send may
// block while the downstream channel is full; that backpressure is what
// keeps this reader from pulling frames faster than the consumers can
// apply them.
type DeltaSink interface {
	SendOrderDeltas(ctx context.Context, batch []Order) error
	SendExecutions(ctx context.Context, batch []Execution) error
}

// ReadSnapshot consumes frames until the initial orderBook and
// completedOrders messages have both arrived. Either may come first;
// frames with other tags are skipped. The stream closing before both have
// arrived is a protocol error.
func ReadSnapshot(src FrameSource, dec *Decoder, log *zap.SugaredLogger) (Snapshot, error) {
	var (
		snap           Snapshot
		haveOrders     bool
		haveExecutions bool
	)
	for !haveOrders || !haveExecutions {
		msg, err := src.Next()
		if err != nil {
			return Snapshot{}, fmt.Errorf("feed: stream ended before initial snapshot: %w", err)
		}
		switch {
		case !haveOrders && IsKind(msg, KindOrderBook):
			if snap.Orders, err = dec.Orders(msg, KindOrderBook); err != nil {
				return Snapshot{}, err
			}
			haveOrders = true
			log.Infow("initial_order_book", "orders", len(snap.Orders))
		case !haveExecutions && IsKind(msg, KindCompletedOrders):
			if snap.Executions, err = dec.Executions(msg, KindCompletedOrders); err != nil {
				return Snapshot{}, err
			}
			haveExecutions = true
			log.Infow("initial_completed_orders", "executions", len(snap.Executions))
		}
	}
	return snap, nil
}

// Run is the steady-state read loop: classify each frame, decode the
// delta batch and forward it to the sink. Frames with unrecognized tags
// are ignored. Returns nil on orderly stream closure; decode and send
// errors end the loop.
func Run(ctx context.Context, src FrameSource, dec *Decoder, sink DeltaSink) error {
	for {
		msg, err := src.Next()
		if errors.Is(err, ErrStreamClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case IsKind(msg, KindOrderBookDelta):
			batch, err := dec.Orders(msg, KindOrderBookDelta)
			if err != nil {
				return err
			}
			if err := sink.SendOrderDeltas(ctx, batch); err != nil {
				return err
			}
		case IsKind(msg, KindCompletedOrdersDelta):
			batch, err := dec.Executions(msg, KindCompletedOrdersDelta)
			if err != nil {
				return err
			}
			if err := sink.SendExecutions(ctx, batch); err != nil {
				return err
			}
		}
	}
}
