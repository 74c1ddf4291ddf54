package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsUnionAndContains(t *testing.T) {
	a := Bounds{MinLon: 0, MaxLon: 1, MinLat: 0, MaxLat: 1}
	b := Bounds{MinLon: -2, MaxLon: 0.5, MinLat: 0.5, MaxLat: 3}
	assert.Equal(t, Bounds{MinLon: -2, MaxLon: 1, MinLat: 0, MaxLat: 3}, a.Union(b))
	assert.True(t, a.Contains(0.5, 0.5))
	assert.False(t, a.Contains(1.5, 0.5))
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("-71.5, 42.0,-71.0,42.5")
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLon: -71.5, MinLat: 42.0, MaxLon: -71.0, MaxLat: 42.5}, b)

	back, err := ParseBounds(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, back)

	for _, in := range []string{"", "1,2,3", "a,b,c,d", "5,0,1,1"} {
		_, err := ParseBounds(in)
		var invalid *ErrInvalidBounds
		assert.ErrorAs(t, err, &invalid, in)
	}
}
