package feed

// Kind tags the logical message carried by one stream envelope.
type Kind string

const (
	// KindOrderBook is the full order-book snapshot, sent once at stream start.
	KindOrderBook Kind = "orderBook"
	// KindCompletedOrders is the completed-executions snapshot, sent once at stream start.
	KindCompletedOrders Kind = "completedOrders"
	// KindOrderBookDelta carries incremental order-book updates.
	KindOrderBookDelta Kind = "orderBookDelta"
	// KindCompletedOrdersDelta carries incremental completed executions.
	KindCompletedOrdersDelta Kind = "completedOrdersDelta"
)

// The upstream envelope is serialized canonically, with no whitespace and
// a fixed field order:
//
//	{"streamType":"<tag>","market":"<market>","data":{"list":[ ... ]}}
//
// so the type tag always starts at the same byte offset and the payload
// array sits at an offset computed from the tag and market lengths. This
// lets the reader sniff the message kind without parsing the whole frame.
const (
	tagOffset     = len(`{"streamType":"`)
	marketPrefix  = len(`","market":"`)
	payloadPrefix = len(`","data":{"list":`)
	trailerLen    = len(`}}`)
)

// IsKind reports whether msg carries the given kind. The byte window at
// the tag offset must equal the tag and be followed by the closing quote;
// the quote check keeps a tag that prefixes another ("orderBook" vs
// "orderBookDelta") from matching. Messages too short to hold the window
// never match, so the comparison cannot read out of bounds.
func IsKind(msg []byte, kind Kind) bool {
	end := tagOffset + len(kind)
	if len(msg) <= end {
		return false
	}
	return string(msg[tagOffset:end]) == string(kind) && msg[end] == '"'
}
