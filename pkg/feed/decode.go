package feed

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrShortMessage reports an envelope too short to contain the payload
// window computed for its kind.
var ErrShortMessage = errors.New("feed: message shorter than payload window")

// Decoder extracts and parses record payloads out of classified stream
// messages. The payload offsets depend on the market name embedded in the
// envelope, so one Decoder serves one stream session.
type Decoder struct {
	market string
}

func NewDecoder(market string) *Decoder {
	return &Decoder{market: market}
}

// payload slices the JSON array out of msg: it starts right after the
// envelope prefix, tag and market fields, and ends before the two closure
// bytes. The bounds are validated so envelope drift surfaces as an error
// instead of a bad slice.
func (d *Decoder) payload(msg []byte, kind Kind) ([]byte, error) {
	start := tagOffset + len(kind) + marketPrefix + len(d.market) + payloadPrefix
	end := len(msg) - trailerLen
	if start > end {
		return nil, fmt.Errorf("%w: len=%d kind=%s", ErrShortMessage, len(msg), kind)
	}
	return msg[start:end], nil
}

// Orders parses the records of an orderBook or orderBookDelta message.
// Malformed numbers, unknown enum values and truncated arrays are hard
// errors: the stream defines no per-message recovery.
func (d *Decoder) Orders(msg []byte, kind Kind) ([]Order, error) {
	raw, err := d.payload(msg, kind)
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("feed: decode %s payload: %w", kind, err)
	}
	return orders, nil
}

// Executions parses the records of a completedOrders or
// completedOrdersDelta message.
func (d *Decoder) Executions(msg []byte, kind Kind) ([]Execution, error) {
	raw, err := d.payload(msg, kind)
	if err != nil {
		return nil, err
	}
	var executions []Execution
	if err := json.Unmarshal(raw, &executions); err != nil {
		return nil, fmt.Errorf("feed: decode %s payload: %w", kind, err)
	}
	return executions, nil
}
