package generator

// Returns every conflict-free full cursor of groups in lexicographic order, by plain recursion over
// the whole tree. Serves as the reference the lazy enumerator is checked against.
func constrainedPermutations(groups Groups) []Cursor {
	permutations := make([]Cursor, 0)
	if len(groups) == 0 {
		return permutations
	}
	evaluator := newConflictEvaluator(groups)
	collectPermutations(groups, evaluator, 0, make(Cursor, len(groups)), &permutations)
	return permutations
}

func collectPermutations(groups Groups, evaluator conflictEvaluator, depth int, permutation Cursor, permutations *[]Cursor) {
	if depth >= len(groups) {
		permutationCopy := make(Cursor, len(permutation))
		copy(permutationCopy, permutation)
		*permutations = append(*permutations, permutationCopy)
		return
	}

	for i, n := 0, groups[depth].Len(); i < n; i++ {
		permutation[depth] = i
		if !conflictFree(evaluator, permutation[:depth+1]) {
			continue
		}
		collectPermutations(groups, evaluator, depth+1, permutation, permutations)
	}
}
