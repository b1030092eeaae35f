package generator

import (
	"log"
	"math/big"
	"net/url"

	"github.com/limaJavier/coursegen/pkg/model"
	"github.com/samber/lo"
)

// Link is a navigation target: continue from State, backward when Previous is set
type Link struct {
	State    string
	Previous bool
}

// Query renders the link as the query string of the generate endpoint
func (link Link) Query() string {
	values := url.Values{}
	values.Set("state", link.State)
	if link.Previous {
		values.Set("prev", "true")
	}
	return values.Encode()
}

// Page is one step of a navigation session
type Page struct {
	Schedule    []model.Component
	State       string   // External position of Schedule
	Next        Link     // Continues forward from Schedule
	Previous    Link     // Continues backward from Schedule
	Rank        *big.Int // 1-based rank of Schedule within the unpruned product of all groups
	SearchSpace *big.Int // Size of the unpruned product of all groups
}

// Navigate advances from the textual state (empty for a fresh start) and builds the page of the
// resulting schedule. Returns nil when there is no schedule in that direction.
func Navigate(generator Generator, courses []model.Course, state string, previous bool) (*Page, error) {
	position, err := ParsePosition(state)
	if err != nil {
		return nil, err
	}

	direction := Forward
	if previous {
		direction = Backward
	}

	schedule, err := generator.Next(courses, position, direction)
	if err != nil || schedule == nil {
		return nil, err
	}

	ids := lo.Map(schedule, func(component model.Component, _ int) uint64 { return component.Id })
	encoded := FormatPosition(ids)

	// Rank is always expressed in forward order
	groups, err := buildGroups(courses, Forward)
	if err != nil {
		return nil, err
	}
	cursor, ok := decodeExact(groups, ids)
	if !ok {
		log.Panicf("schedule %v does not match the groups it was generated from", encoded)
	}
	indexer := newIndexer(groups.radices())
	rank := indexer.Index(cursor)
	rank.Add(rank, big.NewInt(1))

	return &Page{
		Schedule:    schedule,
		State:       encoded,
		Next:        Link{State: encoded},
		Previous:    Link{State: encoded, Previous: true},
		Rank:        rank,
		SearchSpace: indexer.Size(),
	}, nil
}
