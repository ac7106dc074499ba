package layout

// ViewType is the role a realized element plays in the layout.
type ViewType int

const (
	ItemView ViewType = iota
	GroupHeaderView
	HeaderView
	FooterView
)

func (v ViewType) String() string {
	switch v {
	case GroupHeaderView:
		return "group-header"
	case HeaderView:
		return "header"
	case FooterView:
		return "footer"
	default:
		return "item"
	}
}

// Host is the surface that owns concrete elements. The engine never creates,
// draws or destroys an element itself: it asks the host to materialize one
// for a display position, measures it, tells the host where it goes and hands
// it back when it scrolls out of view.
type Host[E any] interface {
	// Materialize realizes (or reuses) an element for a flattened display
	// position.
	Materialize(displayIndex int, kind ViewType) (E, error)
	// Measure returns the desired size of el under constraint. A constraint
	// dimension equal to Unbounded means the element may take what it needs.
	Measure(el E, constraint Size) Size
	// Arrange places el at frame, relative to the viewport origin.
	Arrange(el E, frame Rect)
	// Release returns el to the host. With detachOnly the host should keep
	// it bound so a later Materialize for the same position can reuse it
	// without rebinding.
	Release(el E, detachOnly bool)
	// Rebind points an already realized element at a new display position.
	Rebind(el E, displayIndex int) error
}

// Adapter exposes the shape of the collection to the engine.
//
// Display positions are flat: when shown, the list header occupies position
// 0 and the footer the position right after it; group headers and items
// follow in collection order.
type Adapter interface {
	ItemCount() int
	IsGrouping() bool
	GroupCount() int

	// FirstIndex and LastIndex return the first and last items of the
	// collection, skipping empty groups.
	FirstIndex() (Index, bool)
	LastIndex() (Index, bool)
	// NextIndex returns the item following (Forward) or preceding (Back)
	// current, or false at the boundary.
	NextIndex(current Index, dir Direction) (Index, bool)

	FlattenIndex(idx Index) int
	GroupHeaderDisplayIndex(group int) int
	// Ordinal is the position of idx among items only.
	Ordinal(idx Index) int

	ShowHeader() bool
	ShowFooter() bool

	// ApproachingEnd is told the last visible display position after every
	// pass, so more data can be loaded upstream.
	ApproachingEnd(lastVisibleDisplayIndex int)
}

// GroupOpKind is the kind of a structural change to the collection.
type GroupOpKind int

const (
	GroupInsert GroupOpKind = iota
	GroupRemove
)

func (k GroupOpKind) String() string {
	if k == GroupRemove {
		return "remove"
	}
	return "insert"
}

// GroupOperation records a group inserted into or removed from the
// collection. Operations are queued and consumed by the next layout pass.
type GroupOperation struct {
	Kind       GroupOpKind
	GroupIndex int
}
