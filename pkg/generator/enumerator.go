package generator

import (
	"log"
	"slices"
)

// enumerator walks the search tree depth-first, where depth d branches into the options of groups[d].
// The walk is iterative: the cursor itself is the stack (push on descend, pop and increment on backtrack),
// so resuming from an external position is just a matter of initializing the stack.
//
// Stack invariant:
//   - all the options selected at depths 0..n-1 are pairwise conflict-free
//   - the option under test is cursor[n]
type enumerator struct {
	groups    Groups
	evaluator conflictEvaluator
	visited   uint64 // Nodes tested against their ancestors, for diagnostics
}

func newEnumerator(groups Groups, evaluator conflictEvaluator) *enumerator {
	return &enumerator{
		groups:    groups,
		evaluator: evaluator,
	}
}

// Returns the first conflict-free leaf strictly after prior in lexicographic index order, or the
// first leaf overall when prior is nil. Returns nil when the walk is over.
func (e *enumerator) advance(prior Cursor) Cursor {
	if len(e.groups) == 0 {
		return nil
	}
	e.checkGroups()

	var cursor Cursor
	if prior == nil {
		cursor = Cursor{0}
	} else {
		e.checkLeaf(prior)
		cursor = slices.Clone(prior)
		cursor[len(cursor)-1]++ // Don't repeat the last leaf, go next
	}

	for len(cursor) > 0 {
		depth := len(cursor) - 1
		index := cursor[depth]

		// No more siblings at this depth, backtrack to the next sibling of the parent
		if index >= e.groups[depth].Len() {
			cursor = cursor[:depth]
			if depth > 0 {
				cursor[depth-1]++
			}
			continue
		}

		e.visited++
		if e.conflictsWithAncestors(cursor, depth) {
			cursor[depth]++
			continue
		}

		if depth+1 == len(e.groups) {
			e.checkLeaf(cursor)
			return cursor
		}
		cursor = append(cursor, 0) // Parent is valid, check children
	}

	return nil
}

// Checks whether the option at depth conflicts with any option already committed above it
func (e *enumerator) conflictsWithAncestors(cursor Cursor, depth int) bool {
	for ancestor := 0; ancestor < depth; ancestor++ {
		if e.evaluator.Conflicts(ancestor, cursor[ancestor], depth, cursor[depth]) {
			return true
		}
	}
	return false
}

func (e *enumerator) checkGroups() {
	for g, group := range e.groups {
		if group.Len() == 0 {
			log.Panicf("group %d (%v %v) must have at least one component", g, group.Course, group.Type)
		}
	}
}

func (e *enumerator) checkLeaf(cursor Cursor) {
	if len(cursor) != len(e.groups) {
		log.Panicf("cursor %v must have one index per group: expected %d, got %d", cursor, len(e.groups), len(cursor))
	}
	for g, index := range cursor {
		if index < 0 || index >= e.groups[g].Len() {
			log.Panicf("cursor %v has index %d out of range [0, %d) for group %d", cursor, index, e.groups[g].Len(), g)
		}
	}
}
