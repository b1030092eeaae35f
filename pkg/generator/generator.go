package generator

import (
	"github.com/limaJavier/coursegen/pkg/model"

	"go.uber.org/zap"
)

type Generator interface {
	// Returns the conflict-free schedule that follows position (the first one if position is empty)
	// in the given direction, one component per group in group order. Returns nil when the walk is
	// over or no course is given (these are valid outputs where error shall be nil)
	Next(courses []model.Course, position []uint64, direction Direction) ([]model.Component, error)

	// Checks whether schedule picks exactly one component per group of courses, in group order,
	// and no two of them conflict
	Verify(courses []model.Course, schedule []model.Component) bool
}

type backtrackingGenerator struct {
	codec  positionCodec
	logger *zap.Logger
}

func NewGenerator(policy StalePolicy, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backtrackingGenerator{
		codec:  positionCodec{policy: policy},
		logger: logger,
	}
}

func (generator *backtrackingGenerator) Next(courses []model.Course, position []uint64, direction Direction) ([]model.Component, error) {
	//** Build groups
	groups, err := buildGroups(courses, direction)
	if err != nil {
		return nil, err
	} else if len(groups) == 0 { // No course selected, nothing to generate
		return nil, nil
	}

	//** Resolve position
	evaluator := newConflictEvaluator(groups)
	prior, stale, err := generator.codec.decode(groups, evaluator, position)
	if err != nil {
		return nil, err
	} else if stale {
		generator.logger.Info("stale position",
			zap.String("position", FormatPosition(position)),
			zap.Stringer("policy", generator.codec.policy),
			zap.Bool("restarted", prior == nil),
		)
	}

	//** Advance
	enumerator := newEnumerator(groups, evaluator)
	next := enumerator.advance(prior)

	generator.logger.Debug("advanced enumeration",
		zap.Int("groups", len(groups)),
		zap.Stringer("direction", direction),
		zap.Uint64("visited", enumerator.visited),
		zap.Bool("exhausted", next == nil),
	)

	if next == nil {
		return nil, nil
	}
	return groups.components(next), nil
}

func (generator *backtrackingGenerator) Verify(courses []model.Course, schedule []model.Component) bool {
	groups, err := buildGroups(courses, Forward)
	if err != nil {
		return false
	}

	ids := make([]uint64, len(schedule))
	for i, component := range schedule {
		ids[i] = component.Id
	}

	cursor, ok := decodeExact(groups, ids)
	return ok && conflictFree(newConflictEvaluator(groups), cursor)
}
