package book

import (
	"errors"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"railfeed/pkg/feed"
)

// ErrNotInitialized reports a delta applied before the initial snapshot.
// The book has no live state until ApplySnapshot runs, so such a delta is
// a protocol violation upstream.
var ErrNotInitialized = errors.New("book: delta before initial snapshot")

// PriceLevel is one resting price and its aggregate quantity. Quantity is
// strictly positive while the level exists; a level reaching zero is
// removed, never stored as zero.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func levelLess(a, b PriceLevel) bool {
	return a.Price.LessThan(b.Price)
}

// Book holds the current bid and offer price levels for one instrument,
// each side keyed uniquely by price in ascending order. No cross-side
// invariant is enforced: a crossed book from stale upstream data is
// stored as delivered.
//
// Book is not safe for concurrent use. By contract a single pipeline
// consumer owns it and is its sole mutator (see pkg/pipeline).
type Book struct {
	bids        *btree.BTreeG[PriceLevel]
	offers      *btree.BTreeG[PriceLevel]
	initialized bool
}

func New() *Book {
	return &Book{
		bids:   btree.NewG(2, levelLess),
		offers: btree.NewG(2, levelLess),
	}
}

func (b *Book) side(s feed.Side) *btree.BTreeG[PriceLevel] {
	if s == feed.Buy {
		return b.bids
	}
	return b.offers
}

// ApplySnapshot replaces both sides wholesale from the initial order-book
// message and moves the book to its live state. A later entry for the
// same price overwrites an earlier one.
func (b *Book) ApplySnapshot(orders []feed.Order) {
	b.bids.Clear(false)
	b.offers.Clear(false)
	for _, o := range orders {
		b.side(o.Side).ReplaceOrInsert(PriceLevel{Price: o.Price, Quantity: o.Quantity})
	}
	b.initialized = true
}

// ApplyDelta upserts one price level, or removes it when the delta
// quantity is exactly zero. Removing an absent level is a no-op, not an
// error.
func (b *Book) ApplyDelta(d feed.Order) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	side := b.side(d.Side)
	if d.Quantity.IsZero() {
		side.Delete(PriceLevel{Price: d.Price})
		return nil
	}
	side.ReplaceOrInsert(PriceLevel{Price: d.Price, Quantity: d.Quantity})
	return nil
}

// Levels returns the side's levels in ascending price order. Both sides
// are stored ascending; a presentation layer may walk bids backwards for
// best-bid-first output.
func (b *Book) Levels(s feed.Side) []PriceLevel {
	side := b.side(s)
	levels := make([]PriceLevel, 0, side.Len())
	side.Ascend(func(l PriceLevel) bool {
		levels = append(levels, l)
		return true
	})
	return levels
}

// Len returns the number of levels resting on the side.
func (b *Book) Len(s feed.Side) int {
	return b.side(s).Len()
}
