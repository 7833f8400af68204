package feed

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestDecodeOrders(t *testing.T) {
	dec := NewDecoder("ETH-USD")
	msg := envelope("orderBook",
		`[{"quantity":"2","price":"100.5","orderType":"buy"},`+
			`{"quantity":"3","price":"101","orderType":"sell"}]`)

	orders, err := dec.Orders(msg, KindOrderBook)
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}

	if !orders[0].Price.Equal(decimal.RequireFromString("100.5")) {
		t.Errorf("orders[0].Price = %s, want 100.5", orders[0].Price)
	}
	if !orders[0].Quantity.Equal(decimal.RequireFromString("2")) {
		t.Errorf("orders[0].Quantity = %s, want 2", orders[0].Quantity)
	}
	if orders[0].Side != Buy {
		t.Errorf("orders[0].Side = %v, want buy", orders[0].Side)
	}
	if orders[1].Side != Sell {
		t.Errorf("orders[1].Side = %v, want sell", orders[1].Side)
	}
}

func TestDecodeOrders_Errors(t *testing.T) {
	dec := NewDecoder("ETH-USD")
	tests := []struct {
		name string
		msg  []byte
	}{
		{
			name: "malformed number",
			msg:  envelope("orderBookDelta", `[{"quantity":"abc","price":"100","orderType":"buy"}]`),
		},
		{
			name: "unknown order type",
			msg:  envelope("orderBookDelta", `[{"quantity":"1","price":"100","orderType":"hold"}]`),
		},
		{
			name: "truncated array",
			msg:  envelope("orderBookDelta", `[{"quantity":"1"`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dec.Orders(tt.msg, KindOrderBookDelta); err == nil {
				t.Error("decode must fail hard, got nil error")
			}
		})
	}
}

func TestDecodeOrders_ShortMessage(t *testing.T) {
	dec := NewDecoder("ETH-USD")
	_, err := dec.Orders([]byte(`{"streamType":"orderBookDelta"}`), KindOrderBookDelta)
	if !errors.Is(err, ErrShortMessage) {
		t.Fatalf("got %v, want ErrShortMessage", err)
	}
}

func TestDecodeExecutions(t *testing.T) {
	dec := NewDecoder("ETH-USD")
	id := "7f9c24e5-2b8a-4f6d-9e1c-3d5a8b7c6f4e"
	msg := envelope("completedOrders",
		`[{"price":"100.5","quantity":"0.25","matchId":"`+id+`",`+
			`"updatedAt":1712345678,"orderType":"sell","executionType":"taker"}]`)

	executions, err := dec.Executions(msg, KindCompletedOrders)
	if err != nil {
		t.Fatalf("Executions: %v", err)
	}
	if len(executions) != 1 {
		t.Fatalf("got %d executions, want 1", len(executions))
	}

	e := executions[0]
	if e.MatchID != uuid.MustParse(id) {
		t.Errorf("MatchID = %s, want %s", e.MatchID, id)
	}
	if e.UpdatedAt != 1712345678 {
		t.Errorf("UpdatedAt = %d, want 1712345678", e.UpdatedAt)
	}
	if e.Side != Sell {
		t.Errorf("Side = %v, want sell", e.Side)
	}
	if e.Role != Taker {
		t.Errorf("Role = %v, want taker", e.Role)
	}
}

func TestDecodeExecutions_Errors(t *testing.T) {
	dec := NewDecoder("ETH-USD")
	tests := []struct {
		name string
		msg  []byte
	}{
		{
			name: "invalid match id",
			msg: envelope("completedOrdersDelta",
				`[{"price":"1","quantity":"1","matchId":"not-a-uuid","updatedAt":1,"orderType":"buy","executionType":"maker"}]`),
		},
		{
			name: "unknown execution type",
			msg: envelope("completedOrdersDelta",
				`[{"price":"1","quantity":"1","matchId":"7f9c24e5-2b8a-4f6d-9e1c-3d5a8b7c6f4e","updatedAt":1,"orderType":"buy","executionType":"broker"}]`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dec.Executions(tt.msg, KindCompletedOrdersDelta); err == nil {
				t.Error("decode must fail hard, got nil error")
			}
		})
	}
}
