package layout

// HeaderPlacement controls where a group header sits relative to its items.
type HeaderPlacement int

const (
	// PlacementInline stacks the header before the items along the extent.
	PlacementInline HeaderPlacement = iota
	// PlacementAdjacent puts the header beside the items, along the breadth.
	PlacementAdjacent
)

func (p HeaderPlacement) String() string {
	if p == PlacementAdjacent {
		return "adjacent"
	}
	return "inline"
}

// SnapPointsAlignment selects which edge of an element acts as its snap
// point.
type SnapPointsAlignment int

const (
	SnapNone SnapPointsAlignment = iota
	SnapNear
	SnapCenter
	SnapFar
)

func (s SnapPointsAlignment) String() string {
	switch s {
	case SnapNear:
		return "near"
	case SnapCenter:
		return "center"
	case SnapFar:
		return "far"
	default:
		return "none"
	}
}

// ScrollAlignment controls where ScrollToPosition leaves its target.
type ScrollAlignment int

const (
	// AlignDefault brings the target fully into view with the smallest move.
	AlignDefault ScrollAlignment = iota
	// AlignLeading puts the target flush with the leading edge, even if it
	// was already visible.
	AlignLeading
	// AlignCenter centres the target in the viewport.
	AlignCenter
)

func (a ScrollAlignment) String() string {
	switch a {
	case AlignLeading:
		return "leading"
	case AlignCenter:
		return "center"
	default:
		return "default"
	}
}

type options struct {
	orientation   Orientation
	padding       Padding
	stickyHeaders bool
	placement     HeaderPlacement
	snap          SnapPointsAlignment
	assertions    bool
}

type Option func(*options)

// WithOrientation sets the scroll orientation.
func WithOrientation(o Orientation) Option {
	return func(opts *options) {
		opts.orientation = o
	}
}

// WithPadding sets the padding around the content.
func WithPadding(p Padding) Option {
	return func(opts *options) {
		opts.padding = p
	}
}

// WithStickyHeaders keeps group headers inside the viewport while any part
// of their group is visible.
func WithStickyHeaders(sticky bool) Option {
	return func(opts *options) {
		opts.stickyHeaders = sticky
	}
}

func WithHeaderPlacement(p HeaderPlacement) Option {
	return func(opts *options) {
		opts.placement = p
	}
}

func WithSnapPoints(s SnapPointsAlignment) Option {
	return func(opts *options) {
		opts.snap = s
	}
}

// WithAssertions makes every fill/unfill pass verify the engine invariants
// and panic with an *InvariantError when one is broken.
func WithAssertions(enabled bool) Option {
	return func(opts *options) {
		opts.assertions = enabled
	}
}
