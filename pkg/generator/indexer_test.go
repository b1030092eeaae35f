package generator

import (
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixedRadixIndexer(t *testing.T) {
	t.Run("Ranks follow lexicographic order", func(t *testing.T) {
		//** Arrange
		radices := []int{2, 3, 4}
		indexer := newIndexer(radices)
		cursor := Cursor{0, 0, 0}

		for expected := 0; expected < 24; expected++ {
			//** Act
			index := indexer.Index(cursor)

			//** Assert
			assert.Equal(t, int64(expected), index.Int64())

			// Increment the cursor as an odometer
			for d := len(cursor) - 1; d >= 0; d-- {
				cursor[d]++
				if cursor[d] < radices[d] {
					break
				}
				cursor[d] = 0
			}
		}
		assert.Equal(t, int64(24), indexer.Size().Int64())
	})

	t.Run("Search spaces beyond 64 bits", func(t *testing.T) {
		//** Arrange
		random := rand.New(rand.NewSource(3))
		radices := make([]int, 40)
		cursor := make(Cursor, 40)
		var digits strings.Builder
		for i := range radices {
			radices[i] = 10
			cursor[i] = random.Intn(10)
			digits.WriteString(strconv.Itoa(cursor[i]))
		}
		indexer := newIndexer(radices)

		//** Act
		index := indexer.Index(cursor)

		//** Assert
		assert.Equal(t, strings.TrimLeft(digits.String(), "0"), index.String())
		assert.Equal(t, 0, indexer.Size().Cmp(new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)))
		assert.Equal(t, -1, index.Cmp(indexer.Size()))
	})

	t.Run("No radices", func(t *testing.T) {
		indexer := newIndexer(nil)
		assert.Equal(t, int64(1), indexer.Size().Int64())
		assert.Equal(t, int64(0), indexer.Index(Cursor{}).Int64())
	})

	t.Run("Invalid input panics", func(t *testing.T) {
		assert.Panics(t, func() { newIndexer([]int{2, 0}) })
		assert.Panics(t, func() { newIndexer([]int{2, 3}).Index(Cursor{1}) })
	})
}
