package book

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Renderer writes both sides of the book as labeled sections, one
// "<price>: <quantity>" line per level in ascending price order, with
// prices formatted to two decimals.
type Renderer struct {
	w io.Writer
}

// NewRenderer renders to w, defaulting to stdout when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{w: w}
}

// Render writes the bid section then the offer section. The level slices
// are copies taken by the owning consumer, so Render never touches the
// live book.
func (r *Renderer) Render(bids, offers []PriceLevel) error {
	w := bufio.NewWriter(r.w)
	writeSide(w, "Bids", bids)
	writeSide(w, "Offers", offers)
	return w.Flush()
}

func writeSide(w *bufio.Writer, name string, levels []PriceLevel) {
	fmt.Fprintf(w, "===== %s =====\n", name)
	for _, l := range levels {
		fmt.Fprintf(w, "%s: %s\n", l.Price.StringFixed(2), l.Quantity.String())
	}
	fmt.Fprintf(w, "===== End %s =====\n", name)
}
