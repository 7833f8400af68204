package api

// API response types for REST endpoints and WebSocket messages

// PriceLevel is one [price, quantity] pair, both as decimal strings.
type PriceLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// BookSnapshot is the current reconstructed book state.
type BookSnapshot struct {
	Market    string       `json:"market"`
	Bids      []PriceLevel `json:"bids"`      // ascending price
	Offers    []PriceLevel `json:"offers"`    // ascending price
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
}

// TradeInfo is one completed execution off the stream.
type TradeInfo struct {
	MatchID   string `json:"matchId"`
	Price     string `json:"price"`
	Quantity  string `json:"quantity"`
	Side      string `json:"side"` // "buy" or "sell"
	Role      string `json:"role"` // "maker" or "taker"
	UpdatedAt int64  `json:"updatedAt"`
}

// BookUpdate is broadcast to WebSocket clients after each applied batch.
type BookUpdate struct {
	Type string `json:"type"` // "book"
	BookSnapshot
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
