package layout

// Slot is one realized item inside a line.
type Slot[E any] struct {
	Element      E
	Index        Index
	DisplayIndex int
	// Extent and Breadth are the measured (and stretched) size of the item.
	Extent  int
	Breadth int
	// BreadthOffset is the item's position across the line, relative to the
	// line's breadth origin.
	BreadthOffset int
}

// Line is the atomic unit of fill and unfill: one or more items sharing a
// single extent band. Slots are in index order.
type Line[E any] struct {
	First  Index
	Last   Index
	Extent int
	Slots  []Slot[E]
}

// NewLine builds a line from slots given in index order. The line's extent
// is that of its tallest slot.
func NewLine[E any](slots ...Slot[E]) Line[E] {
	if len(slots) == 0 {
		return Line[E]{}
	}
	l := Line[E]{
		First: slots[0].Index,
		Last:  slots[len(slots)-1].Index,
		Slots: slots,
	}
	for _, s := range slots {
		l.Extent = max(l.Extent, s.Extent)
	}
	return l
}

func (l Line[E]) breadth() int {
	b := 0
	for _, s := range l.Slots {
		b = max(b, s.BreadthOffset+s.Breadth)
	}
	return b
}

func (l Line[E]) contains(idx Index) bool {
	return l.First.Compare(idx) <= 0 && idx.Compare(l.Last) <= 0
}
