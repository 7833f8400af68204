package feed

import "testing"

// envelope builds a canonical stream message around the given payload array.
func envelope(tag, payload string) []byte {
	return []byte(`{"streamType":"` + tag + `","market":"ETH-USD","data":{"list":` + payload + `}}`)
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		kind Kind
		want bool
	}{
		{
			name: "exact match",
			msg:  envelope("orderBook", `[]`),
			kind: KindOrderBook,
			want: true,
		},
		{
			name: "delta matches delta",
			msg:  envelope("orderBookDelta", `[]`),
			kind: KindOrderBookDelta,
			want: true,
		},
		{
			name: "prefix must not match longer tag",
			msg:  envelope("orderBookDelta", `[]`),
			kind: KindOrderBook,
			want: false,
		},
		{
			name: "longer tag must not match prefix",
			msg:  envelope("orderBook", `[]`),
			kind: KindOrderBookDelta,
			want: false,
		},
		{
			name: "completedOrders vs its delta",
			msg:  envelope("completedOrdersDelta", `[]`),
			kind: KindCompletedOrders,
			want: false,
		},
		{
			name: "unrecognized tag",
			msg:  envelope("heartbeat", `[]`),
			kind: KindOrderBook,
			want: false,
		},
		{
			name: "message shorter than tag window",
			msg:  []byte(`{"streamType":"orde`),
			kind: KindOrderBook,
			want: false,
		},
		{
			name: "empty message",
			msg:  nil,
			kind: KindOrderBook,
			want: false,
		},
		{
			name: "tag window exactly at end without quote",
			msg:  []byte(`{"streamType":"orderBook`),
			kind: KindOrderBook,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.msg, tt.kind); got != tt.want {
				t.Errorf("IsKind(%q, %q) = %v, want %v", tt.msg, tt.kind, got, tt.want)
			}
		})
	}
}
