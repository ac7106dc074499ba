package layout

import "math"

// SnapPoints returns the snap point of every realized element in content
// coordinates, or nil when snapping is off.
func (e *Engine[E]) SnapPoints() []float64 {
	if e.opts.snap == SnapNone {
		return nil
	}
	var points []float64
	for p := range e.Elements() {
		start, end := e.axis.start(p.Frame), e.axis.end(p.Frame)
		offset := float64(e.st.contentOffset)
		switch e.opts.snap {
		case SnapNear:
			points = append(points, offset+float64(start))
		case SnapCenter:
			points = append(points, offset+float64(start+end)/2)
		case SnapFar:
			points = append(points, offset+float64(end))
		}
	}
	return points
}

// nearestSnapPoint is the snap point closest to the viewport's aligned edge.
func (e *Engine[E]) nearestSnapPoint() (float64, bool) {
	points := e.SnapPoints()
	if len(points) == 0 {
		return 0, false
	}
	target := e.alignedOffset()
	best, bestDist := 0.0, math.Inf(1)
	for _, p := range points {
		if d := math.Abs(p - target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, true
}

// alignedOffset is the content coordinate of the viewport edge (or centre)
// that snap points are matched against.
func (e *Engine[E]) alignedOffset() float64 {
	offset := float64(e.st.contentOffset)
	switch e.opts.snap {
	case SnapCenter:
		return offset + float64(e.extent())/2
	case SnapFar:
		return offset + float64(e.extent())
	}
	return offset
}

// remainingSnapDistance is how far the content must scroll for the viewport
// to rest on snap.
func (e *Engine[E]) remainingSnapDistance(snap float64) int {
	return int(math.Round(snap - e.alignedOffset()))
}
