package layout

import "math"

// Unbounded is reported as an available extent when the host imposes no
// size along the scroll axis.
const Unbounded = math.MaxInt

// Orientation is the axis the list scrolls along.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a width/height pair in host units (cells for terminal hosts).
type Size struct {
	Width, Height int
}

// Rect is a frame in host coordinates, relative to the viewport origin.
type Rect struct {
	X, Y, Width, Height int
}

// Padding is a four-sided inset in host units.
type Padding struct {
	Top, Right, Bottom, Left int
}

// axis maps sizes and frames between the host's width/height space and the
// engine's extent/breadth space. All layout math is done in the latter.
//
// Extent is the dimension parallel to scrolling, breadth the orthogonal one.
type axis Orientation

func (a axis) extent(s Size) int {
	if Orientation(a) == Horizontal {
		return s.Width
	}
	return s.Height
}

func (a axis) breadth(s Size) int {
	if Orientation(a) == Horizontal {
		return s.Height
	}
	return s.Width
}

func (a axis) size(extent, breadth int) Size {
	if Orientation(a) == Horizontal {
		return Size{Width: extent, Height: breadth}
	}
	return Size{Width: breadth, Height: extent}
}

func (a axis) frame(extentOffset, breadthOffset, extent, breadth int) Rect {
	if Orientation(a) == Horizontal {
		return Rect{X: extentOffset, Y: breadthOffset, Width: extent, Height: breadth}
	}
	return Rect{X: breadthOffset, Y: extentOffset, Width: breadth, Height: extent}
}

func (a axis) start(r Rect) int {
	if Orientation(a) == Horizontal {
		return r.X
	}
	return r.Y
}

func (a axis) end(r Rect) int {
	if Orientation(a) == Horizontal {
		return r.X + r.Width
	}
	return r.Y + r.Height
}

func (a axis) initialExtentPadding(p Padding) int {
	if Orientation(a) == Horizontal {
		return p.Left
	}
	return p.Top
}

func (a axis) finalExtentPadding(p Padding) int {
	if Orientation(a) == Horizontal {
		return p.Right
	}
	return p.Bottom
}

func (a axis) initialBreadthPadding(p Padding) int {
	if Orientation(a) == Horizontal {
		return p.Top
	}
	return p.Left
}

func (a axis) finalBreadthPadding(p Padding) int {
	if Orientation(a) == Horizontal {
		return p.Bottom
	}
	return p.Right
}
