package book

import (
	"bytes"
	"testing"

	"railfeed/pkg/feed"
)

func TestRender_Format(t *testing.T) {
	b := New()
	b.ApplySnapshot([]feed.Order{
		order("100.5", "2", feed.Buy),
		order("99", "1.5", feed.Buy),
		order("101", "3", feed.Sell),
	})

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	if err := r.Render(b.Levels(feed.Buy), b.Levels(feed.Sell)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "===== Bids =====\n" +
		"99.00: 1.5\n" +
		"100.50: 2\n" +
		"===== End Bids =====\n" +
		"===== Offers =====\n" +
		"101.00: 3\n" +
		"===== End Offers =====\n"
	if buf.String() != want {
		t.Errorf("rendered output mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRender_EmptyBook(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf).Render(nil, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "===== Bids =====\n===== End Bids =====\n" +
		"===== Offers =====\n===== End Offers =====\n"
	if buf.String() != want {
		t.Errorf("rendered output mismatch\ngot:\n%q\nwant:\n%q", buf.String(), want)
	}
}
