package quadkey

import (
	"testing"

	"github.com/orange-its/go-mqtt-client/mobility/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Quadkey {
	t.Helper()
	q, err := Parse(s)
	require.NoError(t, err)
	return q
}

func TestParseWithSlash(t *testing.T) {
	q := mustParse(t, "0/1/2/3")
	assert.Equal(t, []Tile{TileZero, TileOne, TileTwo, TileThree}, q.tiles)
}

func TestParseWithoutSlash(t *testing.T) {
	q := mustParse(t, "0123")
	assert.Equal(t, []Tile{TileZero, TileOne, TileTwo, TileThree}, q.tiles)
}

func TestParseAcceptsWildcardTile(t *testing.T) {
	q := mustParse(t, "0/1/#")
	assert.Equal(t, []Tile{TileZero, TileOne, TileAll}, q.tiles)
	assert.Equal(t, "/0/1/#", q.String())
}

func TestParseRejectsInvalidInput(t *testing.T) {
	for _, s := range []string{"", "/", "a", "4", "a/1/2/3", "0/1/a/3", "012a"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q should fail to parse", s)
	}
}

func TestCompareEqual(t *testing.T) {
	for _, s := range []string{"0", "1", "2", "3"} {
		a, b := mustParse(t, s), mustParse(t, s)
		assert.Equal(t, 0, a.Compare(b))
		assert.True(t, a.Equal(b))
	}
}

func TestCompareAncestorIsGreater(t *testing.T) {
	a := mustParse(t, "0")
	for _, s := range []string{"0/0", "0/1", "0/2", "0/3", "0/1/2", "0/0/0"} {
		b := mustParse(t, s)
		assert.Equal(t, 1, a.Compare(b))
		assert.Equal(t, -1, b.Compare(a))
	}
}

func TestPartialCompareSiblingsIncomparable(t *testing.T) {
	a := mustParse(t, "0")
	for _, s := range []string{"1", "2", "3", "1/0", "2/1", "3/2", "3/3", "1/0/0", "1/2/3"} {
		b := mustParse(t, s)
		_, ok := a.PartialCompare(b)
		assert.False(t, ok)
	}
}

func TestPartialCompareSameLengthButNotSiblingsIncomparable(t *testing.T) {
	linas := mustParse(t, "1/2/0/2/2/2/2/3/3/0/0/3/2/0/2/0/1/0/1/0/3/1")
	barcelona := mustParse(t, "1/2/0/2/2/0/0/1/1/2/0/3/1/0/2/1/0/1/2/1/0/3")
	_, ok := linas.PartialCompare(barcelona)
	assert.False(t, ok)
	assert.Equal(t, 1, linas.Compare(barcelona))
}

func TestCompareTotalOrderOverSiblings(t *testing.T) {
	base := "0/1/2/3/0/1/2/3/0/1/2/3/0/1/2/3/0/1/2/3/0/"
	s0, s1, s2, s3 := mustParse(t, base+"0"), mustParse(t, base+"1"), mustParse(t, base+"2"), mustParse(t, base+"3")

	assert.Equal(t, -1, s0.Compare(s1))
	assert.Equal(t, -1, s0.Compare(s2))
	assert.Equal(t, -1, s0.Compare(s3))
	assert.Equal(t, 1, s1.Compare(s0))
	assert.Equal(t, -1, s1.Compare(s2))
	assert.Equal(t, 1, s3.Compare(s2))
}

func TestReduce(t *testing.T) {
	q := mustParse(t, "0/1/2/3/1/3/2/0/3/1")
	q.Reduce(5)
	assert.True(t, q.Equal(mustParse(t, "0/1/2/3/1")))
}

func TestReduceBeyondLengthIsNoop(t *testing.T) {
	q := mustParse(t, "0/1/2/3/1/3/2/0/3/1")
	q.Reduce(30)
	assert.True(t, q.Equal(mustParse(t, "0/1/2/3/1/3/2/0/3/1")))
}

func TestAsReducedLeavesOriginalUnchanged(t *testing.T) {
	q := mustParse(t, "0/1/2/3/1/3/2/0/3/1")
	reduced := q.AsReduced(5)
	assert.Equal(t, 10, q.Len())
	assert.True(t, reduced.Equal(mustParse(t, "0/1/2/3/1")))
}

func TestCoordinatesToQuadkey(t *testing.T) {
	cases := []struct {
		lat, lon float64
		depth    int
		expected string
	}{
		{8.3689428, -14.3165555, 12, "033321211101"},
		{48.6263556, 2.2492123, 12, "120220011203"},
		{48.6263556, 2.2492123, 18, "120220011203100323"},
		{48.6263556, 2.2492123, 24, "120220011203100323112320"},
	}

	for _, c := range cases {
		got := coordinatesToQuadkeyString(c.lat, c.lon, c.depth)
		assert.Equal(t, c.expected, got)
	}
}

func TestFromPosition(t *testing.T) {
	p := position.FromDegrees(48.6263556, 2.2492123, 0)
	q := FromPositionAtDepth(p, 12)
	assert.Equal(t, mustParse(t, "120220011203"), q)
}
