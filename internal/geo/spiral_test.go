package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpiralOffsetsCount(t *testing.T) {
	for R := 1; R <= 5; R++ {
		offsets := SpiralOffsets(R)
		assert.Equal(t, (2*R+1)*(2*R+1)-1, len(offsets))
	}
}

func TestSpiralOffsetsDistinctAndExcludesCenter(t *testing.T) {
	offsets := SpiralOffsets(3)
	seen := make(map[GridPoint]bool)
	for _, o := range offsets {
		assert.False(t, seen[o], "offset %v repeated", o)
		seen[o] = true
		assert.False(t, o.X == 0 && o.Y == 0, "center must not be included")
	}
}

func TestSpiralOffsetsZeroRadius(t *testing.T) {
	assert.Nil(t, SpiralOffsets(0))
}
