package quadkey

import (
	"math"
	"strings"

	"github.com/orange-its/go-mqtt-client/mobility/position"
)

// defaultDepth is the deepest quadkey needed to represent a region that is
// at most 1m x 1m in size.
const defaultDepth = 26

const (
	minLatitude  = -85.05112878
	maxLatitude  = 85.05112878
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Quadkey is a hierarchical tile path: each Tile narrows the quadrant of
// the previous one. A shorter Quadkey represents a larger region; a
// Quadkey A contains Quadkey B when A is a prefix of B.
type Quadkey struct {
	tiles []Tile
}

// Len returns the depth (number of tiles) of the quadkey.
func (q Quadkey) Len() int {
	return len(q.tiles)
}

// Push appends a tile, descending one level deeper.
func (q *Quadkey) Push(t Tile) {
	q.tiles = append(q.tiles, t)
}

// Reduce truncates the quadkey in place to at most depth tiles.
func (q *Quadkey) Reduce(depth int) {
	if depth < len(q.tiles) {
		q.tiles = q.tiles[:depth]
	}
}

// AsReduced returns a copy of the quadkey truncated to at most depth tiles,
// leaving the receiver unchanged.
func (q Quadkey) AsReduced(depth int) Quadkey {
	if depth >= len(q.tiles) {
		depth = len(q.tiles)
	}
	out := make([]Tile, depth)
	copy(out, q.tiles[:depth])
	return Quadkey{tiles: out}
}

// Equal reports whether two quadkeys hold the exact same tile sequence.
func (q Quadkey) Equal(other Quadkey) bool {
	if len(q.tiles) != len(other.tiles) {
		return false
	}
	for i := range q.tiles {
		if q.tiles[i] != other.tiles[i] {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b []Tile) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Contains reports whether q is a strict-or-equal prefix of other, i.e.
// other names a region inside (or equal to) the region named by q.
func (q Quadkey) Contains(other Quadkey) bool {
	return commonPrefixLen(q.tiles, other.tiles) == len(q.tiles)
}

// Compare provides a total order over quadkeys: shorter (shallower, larger
// region) quadkeys compare as "greater" than any of their descendants, and
// otherwise quadkeys are compared tile-by-tile from the first point of
// divergence. It returns -1, 0 or 1, mirroring sort.Compare semantics.
func (q Quadkey) Compare(other Quadkey) int {
	matching := commonPrefixLen(q.tiles, other.tiles)

	switch {
	case len(q.tiles) == matching && len(other.tiles) == matching:
		return 0
	case len(q.tiles) == matching:
		// q is a prefix (ancestor) of other: q is "greater" (shallower).
		return 1
	case len(other.tiles) == matching:
		return -1
	case len(q.tiles) == len(other.tiles):
		if q.tiles[matching] < other.tiles[matching] {
			return -1
		}
		return 1
	default:
		if len(q.tiles) < len(other.tiles) {
			return -1
		}
		return 1
	}
}

// PartialCompare provides the partial order used by the system: two
// quadkeys are comparable only when one is a strict-or-equal prefix of the
// other (an ancestor/descendant relation). Sibling branches that diverge
// are incomparable, reported via ok=false.
func (q Quadkey) PartialCompare(other Quadkey) (cmp int, ok bool) {
	matching := commonPrefixLen(q.tiles, other.tiles)
	mySize, otherSize := len(q.tiles), len(other.tiles)

	switch {
	case mySize == matching && otherSize == matching:
		return 0, true
	case mySize == matching:
		return 1, true
	case otherSize == matching:
		return -1, true
	default:
		return 0, false
	}
}

// String renders the quadkey as its slash-separated digit form, e.g.
// "/0/1/2/3".
func (q Quadkey) String() string {
	var b strings.Builder
	for _, t := range q.tiles {
		b.WriteByte('/')
		b.WriteString(t.String())
	}
	return b.String()
}

// Parse parses a quadkey from either its slash-separated form ("0/1/2/3")
// or its bare digit form ("0123").
func Parse(s string) (Quadkey, error) {
	if s == "" {
		return Quadkey{}, newParseError(s, nil)
	}

	slashCount := strings.Count(s, "/")
	if slashCount > 0 && slashCount*2+1 == len(s) {
		parts := strings.Split(s, "/")
		tiles := make([]Tile, 0, len(parts))
		for _, part := range parts {
			if len(part) != 1 {
				return Quadkey{}, newParseError(s, nil)
			}
			tile, err := ParseTile(rune(part[0]))
			if err != nil {
				return Quadkey{}, newParseError(s, err)
			}
			tiles = append(tiles, tile)
		}
		return Quadkey{tiles: tiles}, nil
	}

	tiles := make([]Tile, 0, len(s))
	for _, r := range s {
		tile, err := ParseTile(r)
		if err != nil {
			return Quadkey{}, newParseError(s, err)
		}
		tiles = append(tiles, tile)
	}
	return Quadkey{tiles: tiles}, nil
}

// FromPosition computes the quadkey covering a geodesic position at the
// default depth (26, the deepest level needed to resolve a ~1m region).
func FromPosition(p position.Position) Quadkey {
	return FromPositionAtDepth(p, defaultDepth)
}

// FromPositionAtDepth computes the quadkey covering a geodesic position at
// the given depth, via Web Mercator pixel/tile projection.
func FromPositionAtDepth(p position.Position, depth int) Quadkey {
	latitude := p.Latitude * 180 / math.Pi
	longitude := p.Longitude * 180 / math.Pi
	s, err := Parse(coordinatesToQuadkeyString(latitude, longitude, depth))
	if err != nil {
		// coordinatesToQuadkeyString only ever emits digits 0-3, so a
		// parse failure here would indicate a logic error above.
		panic(err)
	}
	return s
}
