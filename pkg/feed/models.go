package feed

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the book side an order rests on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// UnmarshalJSON accepts exactly "buy" or "sell". Anything else is a
// decode error, never a silent default.
func (s *Side) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"buy"`:
		*s = Buy
	case `"sell"`:
		*s = Sell
	default:
		return fmt.Errorf("feed: unknown order type %s", b)
	}
	return nil
}

// Role is the participant's role in a matched trade: the resting order
// (maker) or the aggressing order (taker).
type Role int

const (
	Maker Role = iota
	Taker
)

func (r Role) String() string {
	if r == Maker {
		return "maker"
	}
	return "taker"
}

// UnmarshalJSON accepts exactly "maker" or "taker".
func (r *Role) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"maker"`:
		*r = Maker
	case `"taker"`:
		*r = Taker
	default:
		return fmt.Errorf("feed: unknown execution type %s", b)
	}
	return nil
}

// Order is one order-book snapshot entry or one incremental update.
// Prices and quantities arrive as decimal strings on the wire. A delta
// with zero Quantity instructs removal of the price level.
type Order struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Side     Side            `json:"orderType"`
}

// Execution is one completed trade off the completed-orders stream.
// MatchID uniquely identifies the execution event; the stream contract
// guarantees uniqueness, so no deduplication happens here.
type Execution struct {
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	MatchID   uuid.UUID       `json:"matchId"`
	UpdatedAt int64           `json:"updatedAt"`
	Side      Side            `json:"orderType"`
	Role      Role            `json:"executionType"`
}

// Snapshot is the initial state pair delivered once at stream start.
type Snapshot struct {
	Orders     []Order
	Executions []Execution
}
