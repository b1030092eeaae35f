package generator

type conflictEvaluator interface {
	// Checks whether option i of group g conflicts with option j of group h
	Conflicts(g, i, h, j int) bool
}

// conflictEvaluatorStandard memoizes pairwise component conflicts of one request, since
// backtracking tests the same pairs over and over
type conflictEvaluatorStandard struct {
	groups Groups
	cache  map[[4]int]bool
}

func newConflictEvaluator(groups Groups) conflictEvaluator {
	return &conflictEvaluatorStandard{
		groups: groups,
		cache:  make(map[[4]int]bool),
	}
}

func (evaluator *conflictEvaluatorStandard) Conflicts(g, i, h, j int) bool {
	// The relation is symmetric, so store each pair under a single key
	key := [4]int{g, i, h, j}
	if g > h || (g == h && i > j) {
		key = [4]int{h, j, g, i}
	}

	if conflict, ok := evaluator.cache[key]; ok {
		return conflict
	}
	conflict := evaluator.groups[g].candidates[i].conflicts(evaluator.groups[h].candidates[j])
	evaluator.cache[key] = conflict
	return conflict
}

// Checks whether the components selected by a full or partial cursor are pairwise conflict-free
func conflictFree(evaluator conflictEvaluator, cursor Cursor) bool {
	for h := 1; h < len(cursor); h++ {
		for g := 0; g < h; g++ {
			if evaluator.Conflicts(g, cursor[g], h, cursor[h]) {
				return false
			}
		}
	}
	return true
}
