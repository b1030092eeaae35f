package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

const positionDelimiter = "_"

var (
	ErrStalePosition     = errors.New("position does not match the selected courses")
	ErrMalformedPosition = errors.New("malformed position")
)

// Cursor is a position in the search tree: one option index per group, starting from the first group.
// A full cursor (one index per group) names a schedule.
type Cursor []int

// StalePolicy decides what happens to a position that can not be resolved against the current groups
type StalePolicy int

const (
	RestartPolicy   StalePolicy = iota // Discard the position and start from the first schedule
	ReconcilePolicy                    // Match the ids to groups regardless of their order, restart if impossible
	FailPolicy                         // Report ErrStalePosition
)

var stalePolicies = map[string]StalePolicy{
	"restart":   RestartPolicy,
	"reconcile": ReconcilePolicy,
	"fail":      FailPolicy,
}

func ParseStalePolicy(s string) (StalePolicy, error) {
	policy, ok := stalePolicies[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return RestartPolicy, fmt.Errorf("invalid stale policy \"%v\": allowed values are %v", s, lo.Keys(stalePolicies))
	}
	return policy, nil
}

func (policy StalePolicy) String() string {
	name, _ := lo.FindKey(stalePolicies, policy)
	return name
}

// ParsePosition splits an external position such as "20654_20664_21144" into component ids.
// The empty string stands for "no position".
func ParsePosition(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}

	tokens := strings.Split(s, positionDelimiter)
	ids := make([]uint64, 0, len(tokens))
	for _, token := range tokens {
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w \"%v\": %v", ErrMalformedPosition, s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func FormatPosition(ids []uint64) string {
	return strings.Join(lo.Map(ids, func(id uint64, _ int) string { return strconv.FormatUint(id, 10) }), positionDelimiter)
}

// positionCodec translates external positions into cursors valid against the groups of the
// current request and back. Every stale-position decision lives here.
type positionCodec struct {
	policy StalePolicy
}

// Decodes ids into a full cursor. A nil cursor with a nil error means the walk starts over;
// stale reports whether the given position could not be used as is.
func (codec positionCodec) decode(groups Groups, evaluator conflictEvaluator, ids []uint64) (cursor Cursor, stale bool, err error) {
	if len(ids) == 0 {
		return nil, false, nil
	}

	if cursor, ok := decodeExact(groups, ids); ok && conflictFree(evaluator, cursor) {
		return cursor, false, nil
	}

	switch codec.policy {
	case ReconcilePolicy:
		if cursor, ok := reconcile(groups, ids); ok && conflictFree(evaluator, cursor) {
			return cursor, true, nil
		}
		return nil, true, nil
	case FailPolicy:
		return nil, true, fmt.Errorf("%w: \"%v\"", ErrStalePosition, FormatPosition(ids))
	default:
		return nil, true, nil
	}
}

func (codec positionCodec) encode(groups Groups, cursor Cursor) []uint64 {
	return lo.Map(cursor, func(index int, g int) uint64 {
		return groups[g].candidates[index].component.Id
	})
}

// Resolves ids positionally: ids[i] must belong to groups[i]
func decodeExact(groups Groups, ids []uint64) (Cursor, bool) {
	if len(ids) != len(groups) {
		return nil, false
	}

	cursor := make(Cursor, len(ids))
	for i, id := range ids {
		index, ok := groups[i].indexOf(id)
		if !ok {
			return nil, false
		}
		cursor[i] = index
	}
	return cursor, true
}

// Resolves ids regardless of their order by finding a perfect matching between ids and the groups containing them
func reconcile(groups Groups, ids []uint64) (Cursor, bool) {
	if len(ids) != len(groups) {
		return nil, false
	}

	// Build neighbors predicate based on group membership
	neighbors := func(idAny any, groupAny any) (bool, error) {
		_, ok := groups[groupAny.(int)].indexOf(idAny.(uint64))
		return ok, nil
	}

	// Transform ids and groups to slices of any
	idsAny := lo.Map(ids, func(id uint64, _ int) any { return id })
	groupsAny := lo.Map(lo.Range(len(groups)), func(g int, _ int) any { return g })

	graph, err := bipartitegraph.NewBipartiteGraph(idsAny, groupsAny, neighbors)
	if err != nil {
		return nil, false
	}

	matching := graph.LargestMatching()

	// Check the matching is a perfect one
	if len(matching) < len(groups) {
		return nil, false
	}

	cursor := make(Cursor, len(groups))
	for _, edge := range matching {
		idIndex, group := edge.Node1, edge.Node2-len(ids)
		index, _ := groups[group].indexOf(ids[idIndex])
		cursor[group] = index
	}
	return cursor, true
}
