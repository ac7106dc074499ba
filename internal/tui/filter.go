package tui

import (
	"slices"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/sahilm/fuzzy"
)

// matchGroups returns, in dataset order, the indexes of the groups whose
// title fuzzily matches query. An empty query matches every group.
func matchGroups(dataset []source.Group, query string) []int {
	if query == "" {
		all := make([]int, len(dataset))
		for i := range all {
			all[i] = i
		}
		return all
	}
	titles := make([]string, len(dataset))
	for i, g := range dataset {
		titles[i] = g.Title
	}
	matches := fuzzy.Find(query, titles)
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	slices.Sort(idx)
	return idx
}

// applyGroups inserts and removes groups of src until it shows exactly the
// dataset groups in want. shown lists the dataset indexes src shows now.
// It returns the new shown list and the operations to hand to the engine,
// in the order they were applied.
func applyGroups(src *source.Source, dataset []source.Group, shown, want []int) ([]int, []layout.GroupOperation, error) {
	cur := slices.Clone(shown)
	var ops []layout.GroupOperation
	pos, wi := 0, 0
	for pos < len(cur) || wi < len(want) {
		var (
			op  layout.GroupOperation
			err error
		)
		switch {
		case wi < len(want) && (pos >= len(cur) || want[wi] < cur[pos]):
			op, err = src.InsertGroup(pos, dataset[want[wi]])
			if err != nil {
				return cur, ops, err
			}
			cur = slices.Insert(cur, pos, want[wi])
			pos++
			wi++
		case pos < len(cur) && (wi >= len(want) || cur[pos] < want[wi]):
			op, err = src.RemoveGroup(pos)
			if err != nil {
				return cur, ops, err
			}
			cur = slices.Delete(cur, pos, pos+1)
		default:
			pos++
			wi++
			continue
		}
		ops = append(ops, op)
	}
	return cur, ops, nil
}
