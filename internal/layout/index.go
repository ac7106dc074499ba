package layout

import "fmt"

// Index locates a logical item: its group and its row inside that group.
// Ungrouped collections put every item in group 0.
type Index struct {
	Group int
	Row   int
}

// Compare orders indexes lexicographically by (group, row).
func (i Index) Compare(o Index) int {
	switch {
	case i.Group < o.Group:
		return -1
	case i.Group > o.Group:
		return 1
	case i.Row < o.Row:
		return -1
	case i.Row > o.Row:
		return 1
	}
	return 0
}

func (i Index) Less(o Index) bool {
	return i.Compare(o) < 0
}

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.Group, i.Row)
}

// Direction is the direction the window is filled in.
type Direction int

const (
	// Forward fills toward larger indexes and larger extent coordinates.
	Forward Direction = iota
	// Back fills toward smaller indexes.
	Back
)

func (d Direction) String() string {
	if d == Back {
		return "back"
	}
	return "forward"
}

func (d Direction) sign() int {
	if d == Back {
		return -1
	}
	return 1
}

func directionOf(offset int) Direction {
	if offset < 0 {
		return Back
	}
	return Forward
}
