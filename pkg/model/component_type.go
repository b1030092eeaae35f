package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedType = errors.New("malformed component type")

// ComponentType classifies a component into one of the mutually exclusive slots a course offers
type ComponentType uint8

const (
	UnknownType ComponentType = iota
	Lecture
	Lab
	Tutorial
)

// Classifies a sequence code (e.g. "A01", "B03", "T02") by its leading letter
func ParseComponentType(sequence string) (ComponentType, error) {
	sequence = strings.TrimSpace(sequence)
	if sequence == "" {
		return UnknownType, fmt.Errorf("%w: empty sequence code", ErrMalformedType)
	}

	switch sequence[0] {
	case 'A':
		return Lecture, nil
	case 'B':
		return Lab, nil
	case 'T':
		return Tutorial, nil
	default:
		return UnknownType, fmt.Errorf("%w: cannot classify sequence code \"%v\"", ErrMalformedType, sequence)
	}
}

func (componentType ComponentType) Valid() bool {
	return componentType >= Lecture && componentType <= Tutorial
}

func (componentType ComponentType) String() string {
	switch componentType {
	case Lecture:
		return "lecture"
	case Lab:
		return "lab"
	case Tutorial:
		return "tutorial"
	default:
		return "unknown"
	}
}
