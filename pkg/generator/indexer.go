package generator

import (
	"log"
	"math/big"
)

// indexer gives a unique rank to every full cursor of the (unpruned) Cartesian product of the groups.
// The first group is the most significant digit, so ranks follow enumeration order.
type indexer interface {
	// Returns the rank of a full cursor
	Index(cursor Cursor) *big.Int
	// Returns the number of full cursors
	Size() *big.Int
}

type mixedRadixIndexer struct {
	radices []int64
}

func newIndexer(radices []int) indexer {
	converted := make([]int64, len(radices))
	for i, radix := range radices {
		if radix <= 0 {
			log.Panicf("radix %d must be positive: %d", i, radix)
		}
		converted[i] = int64(radix)
	}
	return &mixedRadixIndexer{radices: converted}
}

func (indexer *mixedRadixIndexer) Index(cursor Cursor) *big.Int {
	if len(cursor) != len(indexer.radices) {
		log.Panicf("cursor %v must have %d indices", cursor, len(indexer.radices))
	}

	index := new(big.Int)
	for i, digit := range cursor {
		index.Mul(index, big.NewInt(indexer.radices[i]))
		index.Add(index, big.NewInt(int64(digit)))
	}
	return index
}

func (indexer *mixedRadixIndexer) Size() *big.Int {
	size := big.NewInt(1)
	for _, radix := range indexer.radices {
		size.Mul(size, big.NewInt(radix))
	}
	return size
}
