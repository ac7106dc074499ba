// Package source is an in-memory, optionally grouped collection that the
// layout engine reads through its Adapter interface.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/charmbracelet/vlist/internal/layout"
)

var ErrGroupOutOfRange = errors.New("group index out of range")

// Group is one logical group of items.
type Group struct {
	Key   string `json:"key" yaml:"key"`
	Title string `json:"title" yaml:"title"`
	Size  int    `json:"size" yaml:"size"`
}

// LabelFunc produces the text of an item. It is called lazily, only for
// items that get realized.
type LabelFunc func(g Group, row int) string

// Source implements layout.Adapter over a slice of groups.
type Source struct {
	groups   []Group
	grouping bool
	header   bool
	footer   bool
	label    LabelFunc

	// Paging exposes the collection a page at a time. loaded counts the
	// exposed items; zero pageSize exposes everything.
	pageSize  int
	threshold int
	loaded    int
	wantMore  bool

	// Derived from groups and loaded by recompute.
	sizes   []int
	prefix  []int
	visible int
}

type Option func(*Source)

func WithGrouping(grouping bool) Option {
	return func(s *Source) {
		s.grouping = grouping
	}
}

func WithHeader(show bool) Option {
	return func(s *Source) {
		s.header = show
	}
}

func WithFooter(show bool) Option {
	return func(s *Source) {
		s.footer = show
	}
}

func WithLabels(fn LabelFunc) Option {
	return func(s *Source) {
		s.label = fn
	}
}

// WithPaging exposes pageSize items at first and another page each time the
// last visible item comes within threshold display positions of the end.
func WithPaging(pageSize, threshold int) Option {
	return func(s *Source) {
		s.pageSize = max(pageSize, 0)
		s.threshold = max(threshold, 0)
	}
}

// New returns a source over groups. Without grouping the groups are
// concatenated into a single group 0.
func New(groups []Group, opts ...Option) *Source {
	s := &Source{
		groups: append([]Group(nil), groups...),
		label:  defaultLabel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.grouping {
		total := 0
		for _, g := range groups {
			total += g.Size
		}
		s.groups = []Group{{Key: "all", Title: "All", Size: total}}
	}
	s.loaded = s.total()
	if s.pageSize > 0 {
		s.loaded = min(s.pageSize, s.loaded)
	}
	s.recompute()
	return s
}

// Generate builds count groups of perGroup items, named after dataset.
func Generate(dataset string, count, perGroup int) []Group {
	groups := make([]Group, count)
	for i := range groups {
		groups[i] = Group{
			Key:   fmt.Sprintf("%s-%d", dataset, i),
			Title: fmt.Sprintf("Group %d", i),
			Size:  perGroup,
		}
	}
	return groups
}

func defaultLabel(g Group, row int) string {
	return fmt.Sprintf("%s · item %d", g.Title, row)
}

func (s *Source) total() int {
	n := 0
	for _, g := range s.groups {
		n += g.Size
	}
	return n
}

func (s *Source) recompute() {
	s.sizes = s.sizes[:0]
	s.prefix = s.prefix[:0]
	remaining := s.loaded
	count := 0
	for _, g := range s.groups {
		if remaining <= 0 && g.Size > 0 {
			break
		}
		n := min(g.Size, remaining)
		s.prefix = append(s.prefix, count)
		s.sizes = append(s.sizes, n)
		count += n
		remaining -= n
	}
	s.visible = count
}

func (s *Source) chromeCount() int {
	n := 0
	if s.header {
		n++
	}
	if s.footer {
		n++
	}
	return n
}

func (s *Source) ItemCount() int {
	return s.visible
}

func (s *Source) IsGrouping() bool {
	return s.grouping
}

func (s *Source) GroupCount() int {
	return len(s.sizes)
}

func (s *Source) ShowHeader() bool {
	return s.header
}

func (s *Source) ShowFooter() bool {
	return s.footer
}

func (s *Source) FirstIndex() (layout.Index, bool) {
	for g, n := range s.sizes {
		if n > 0 {
			return layout.Index{Group: g}, true
		}
	}
	return layout.Index{}, false
}

func (s *Source) LastIndex() (layout.Index, bool) {
	for g := len(s.sizes) - 1; g >= 0; g-- {
		if n := s.sizes[g]; n > 0 {
			return layout.Index{Group: g, Row: n - 1}, true
		}
	}
	return layout.Index{}, false
}

func (s *Source) NextIndex(cur layout.Index, dir layout.Direction) (layout.Index, bool) {
	if dir == layout.Forward {
		if cur.Group < 0 {
			return s.FirstIndex()
		}
		if cur.Group < len(s.sizes) && cur.Row+1 < s.sizes[cur.Group] {
			return layout.Index{Group: cur.Group, Row: cur.Row + 1}, true
		}
		for g := cur.Group + 1; g < len(s.sizes); g++ {
			if s.sizes[g] > 0 {
				return layout.Index{Group: g}, true
			}
		}
		return layout.Index{}, false
	}

	if cur.Group >= len(s.sizes) {
		return s.LastIndex()
	}
	if cur.Group >= 0 && cur.Row > 0 {
		return layout.Index{Group: cur.Group, Row: min(cur.Row, s.sizes[cur.Group]) - 1}, true
	}
	for g := cur.Group - 1; g >= 0; g-- {
		if n := s.sizes[g]; n > 0 {
			return layout.Index{Group: g, Row: n - 1}, true
		}
	}
	return layout.Index{}, false
}

func (s *Source) FlattenIndex(idx layout.Index) int {
	if idx.Group < 0 || idx.Group >= len(s.prefix) {
		return -1
	}
	base := s.chromeCount() + s.prefix[idx.Group] + idx.Row
	if s.grouping {
		base += idx.Group + 1
	}
	return base
}

func (s *Source) GroupHeaderDisplayIndex(group int) int {
	if !s.grouping || group < 0 || group >= len(s.prefix) {
		return -1
	}
	return s.chromeCount() + s.prefix[group] + group
}

func (s *Source) Ordinal(idx layout.Index) int {
	if idx.Group < 0 || idx.Group >= len(s.prefix) {
		return 0
	}
	return s.prefix[idx.Group] + idx.Row
}

// DisplayCount is the number of display positions, chrome and group headers
// included.
func (s *Source) DisplayCount() int {
	n := s.chromeCount() + s.visible
	if s.grouping {
		n += len(s.sizes)
	}
	return n
}

// ApproachingEnd asks for another page when the window nears the end of
// what is exposed. The page is only exposed by LoadMore, outside of a layout
// pass.
func (s *Source) ApproachingEnd(lastVisible int) {
	if s.pageSize == 0 || s.loaded >= s.total() {
		return
	}
	if lastVisible >= s.DisplayCount()-1-s.threshold {
		s.wantMore = true
	}
}

// LoadMore exposes the next page if one was asked for. It reports whether
// the collection changed.
func (s *Source) LoadMore() bool {
	if !s.wantMore {
		return false
	}
	s.wantMore = false
	s.loaded = min(s.loaded+s.pageSize, s.total())
	s.recompute()
	slog.Debug("Loaded page", "items", s.visible, "total", s.total())
	return true
}

// HasMore reports whether part of the collection is not exposed yet.
func (s *Source) HasMore() bool {
	return s.loaded < s.total()
}

// Entry describes what a display position shows.
type Entry struct {
	Kind  layout.ViewType
	Index layout.Index
	Text  string
}

// Resolve maps a display position back to what it shows.
func (s *Source) Resolve(display int) (Entry, bool) {
	if display < 0 || display >= s.DisplayCount() {
		return Entry{}, false
	}
	if s.header && display == 0 {
		return Entry{Kind: layout.HeaderView, Text: s.headerText()}, true
	}
	if s.footer && display == s.chromeCount()-1 {
		return Entry{Kind: layout.FooterView, Text: s.footerText()}, true
	}
	d := display - s.chromeCount()
	if !s.grouping {
		idx := layout.Index{Row: d}
		return Entry{Kind: layout.ItemView, Index: idx, Text: s.Label(idx)}, true
	}
	// Group g starts at prefix[g]+g once chrome is skipped.
	g := sort.Search(len(s.prefix), func(i int) bool {
		return s.prefix[i]+i > d
	}) - 1
	if d == s.prefix[g]+g {
		return Entry{Kind: layout.GroupHeaderView, Index: layout.Index{Group: g}, Text: s.GroupTitle(g)}, true
	}
	idx := layout.Index{Group: g, Row: d - s.prefix[g] - g - 1}
	return Entry{Kind: layout.ItemView, Index: idx, Text: s.Label(idx)}, true
}

func (s *Source) headerText() string {
	return fmt.Sprintf("%d items in %d groups", s.total(), len(s.groups))
}

func (s *Source) footerText() string {
	if s.HasMore() {
		return fmt.Sprintf("%d of %d loaded", s.loaded, s.total())
	}
	return "end of list"
}

// Label is the text of the item at idx.
func (s *Source) Label(idx layout.Index) string {
	if idx.Group < 0 || idx.Group >= len(s.groups) {
		return ""
	}
	return s.label(s.groups[idx.Group], idx.Row)
}

func (s *Source) GroupTitle(group int) string {
	if group < 0 || group >= len(s.groups) {
		return ""
	}
	g := s.groups[group]
	return fmt.Sprintf("%s (%d)", g.Title, g.Size)
}

// Groups returns a copy of the groups.
func (s *Source) Groups() []Group {
	return append([]Group(nil), s.groups...)
}

// InsertGroup inserts g before position at and returns the operation to
// hand to the engine.
func (s *Source) InsertGroup(at int, g Group) (layout.GroupOperation, error) {
	if !s.grouping {
		return layout.GroupOperation{}, errors.New("insert group: source is not grouped")
	}
	if at < 0 || at > len(s.groups) {
		return layout.GroupOperation{}, fmt.Errorf("insert group %d: %w", at, ErrGroupOutOfRange)
	}
	s.groups = append(s.groups, Group{})
	copy(s.groups[at+1:], s.groups[at:])
	s.groups[at] = g
	if s.pageSize == 0 {
		s.loaded = s.total()
	}
	s.recompute()
	return layout.GroupOperation{Kind: layout.GroupInsert, GroupIndex: at}, nil
}

// RemoveGroup removes the group at position at and returns the operation to
// hand to the engine.
func (s *Source) RemoveGroup(at int) (layout.GroupOperation, error) {
	if !s.grouping {
		return layout.GroupOperation{}, errors.New("remove group: source is not grouped")
	}
	if at < 0 || at >= len(s.groups) {
		return layout.GroupOperation{}, fmt.Errorf("remove group %d: %w", at, ErrGroupOutOfRange)
	}
	s.groups = append(s.groups[:at], s.groups[at+1:]...)
	s.loaded = min(s.loaded, s.total())
	if s.pageSize == 0 {
		s.loaded = s.total()
	}
	s.recompute()
	return layout.GroupOperation{Kind: layout.GroupRemove, GroupIndex: at}, nil
}
