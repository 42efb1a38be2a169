package quadkey

// Quadtree is a flat set of quadkeys describing a region of responsibility
// as a union of root-to-leaf branches. It is not a real tree structure,
// just a convenience alias over the branches that define the region.
type Quadtree []Quadkey

// Contains reports whether any branch of the tree is an ancestor of (or
// equal to) the given quadkey, meaning the quadkey's region falls inside
// the tree's region of responsibility.
func (t Quadtree) Contains(q Quadkey) bool {
	for _, branch := range t {
		if branch.Contains(q) {
			return true
		}
	}
	return false
}
