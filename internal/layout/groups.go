package layout

import (
	"iter"

	"github.com/gammazero/deque"
)

// groupSequence is the ordered run of materialized groups. Removed groups are
// kept on a free list and reused so steady-state scrolling does not allocate.
type groupSequence[E any] struct {
	d    deque.Deque[*group[E]]
	free []*group[E]
}

func (s *groupSequence[E]) len() int {
	return s.d.Len()
}

func (s *groupSequence[E]) at(i int) *group[E] {
	return s.d.At(i)
}

func (s *groupSequence[E]) first() *group[E] {
	if s.d.Len() == 0 {
		return nil
	}
	return s.d.Front()
}

func (s *groupSequence[E]) last() *group[E] {
	if s.d.Len() == 0 {
		return nil
	}
	return s.d.Back()
}

func (s *groupSequence[E]) leading(dir Direction) *group[E] {
	if dir == Forward {
		return s.last()
	}
	return s.first()
}

func (s *groupSequence[E]) trailing(dir Direction) *group[E] {
	if dir == Forward {
		return s.first()
	}
	return s.last()
}

// leadingNonEmpty returns the group furthest in dir that holds a line.
func (s *groupSequence[E]) leadingNonEmpty(dir Direction) *group[E] {
	n := s.d.Len()
	for i := range n {
		j := n - 1 - i
		if dir == Back {
			j = i
		}
		if g := s.d.At(j); g.lines.Len() > 0 {
			return g
		}
	}
	return nil
}

// trailingNonEmpty returns the group furthest against dir that holds a line.
func (s *groupSequence[E]) trailingNonEmpty(dir Direction) *group[E] {
	if dir == Forward {
		return s.leadingNonEmpty(Back)
	}
	return s.leadingNonEmpty(Forward)
}

func (s *groupSequence[E]) acquire(index, start int, placement HeaderPlacement) *group[E] {
	var g *group[E]
	if n := len(s.free); n > 0 {
		g = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		g = &group[E]{}
	}
	g.reset(index, start)
	g.placement = placement
	return g
}

func (s *groupSequence[E]) recycle(g *group[E]) {
	g.reset(0, 0)
	s.free = append(s.free, g)
}

func (s *groupSequence[E]) push(g *group[E], dir Direction) {
	if dir == Forward {
		s.d.PushBack(g)
		return
	}
	s.d.PushFront(g)
}

func (s *groupSequence[E]) popTrailing(dir Direction) {
	var g *group[E]
	if dir == Forward {
		g = s.d.PopFront()
	} else {
		g = s.d.PopBack()
	}
	s.recycle(g)
}

func (s *groupSequence[E]) clear() {
	for s.d.Len() > 0 {
		s.recycle(s.d.PopBack())
	}
}

func (s *groupSequence[E]) all() iter.Seq[*group[E]] {
	return func(yield func(*group[E]) bool) {
		for i := range s.d.Len() {
			if !yield(s.d.At(i)) {
				return
			}
		}
	}
}
