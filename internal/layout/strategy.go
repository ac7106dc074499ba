package layout

// LineRequest describes the line the engine wants next.
type LineRequest struct {
	Direction Direction
	// Seed is the next unmaterialized item in Direction. A strategy must
	// include it in the line.
	Seed             Index
	AvailableBreadth int
	// IsNewGroup is set when the line is the first one of its group.
	IsNewGroup bool
}

// LineContext is handed to a LineStrategy so it can realize items and walk
// the collection.
type LineContext[E any] interface {
	// Realize materializes and measures the item at idx for the given
	// breadth.
	Realize(idx Index, breadth int) (Slot[E], error)
	NextIndex(idx Index, dir Direction) (Index, bool)
}

// LineStrategy builds one line. Lines never span groups. Slots realized by a
// strategy that then fails are released by the engine.
type LineStrategy[E any] func(lc LineContext[E], req LineRequest) (Line[E], error)

// SingleColumn puts exactly one item on every line.
func SingleColumn[E any]() LineStrategy[E] {
	return func(lc LineContext[E], req LineRequest) (Line[E], error) {
		slot, err := lc.Realize(req.Seed, req.AvailableBreadth)
		if err != nil {
			return Line[E]{}, err
		}
		return NewLine(slot), nil
	}
}

// Grid packs up to columns items per line. Rows are aligned on multiples of
// columns within a group, so filling back from the last item of a partial
// row produces the same line as filling forward into it.
func Grid[E any](columns int) LineStrategy[E] {
	columns = max(columns, 1)
	return func(lc LineContext[E], req LineRequest) (Line[E], error) {
		breadth := max(req.AvailableBreadth/columns, 0)
		idx := Index{Group: req.Seed.Group, Row: req.Seed.Row - req.Seed.Row%columns}

		slots := make([]Slot[E], 0, columns)
		for c := range columns {
			if c > 0 {
				next, ok := lc.NextIndex(idx, Forward)
				if !ok || next.Group != idx.Group {
					break
				}
				idx = next
			}
			slot, err := lc.Realize(idx, breadth)
			if err != nil {
				return Line[E]{}, err
			}
			slot.BreadthOffset = c * breadth
			slots = append(slots, slot)
		}
		return NewLine(slots...), nil
	}
}
