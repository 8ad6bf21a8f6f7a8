// Package spatial provides a point quadtree keyed by entity position.
//
// Entries are stored by point, not by box. Child quadrants overlap their
// siblings by one unit along shared edges, so a point on or next to a split
// line is stored in every child that contains it and a range query can
// return the same id more than once. The tree keeps that contract simple;
// callers that need each id once use Dedup.
package spatial

import "github.com/vovakirdan/poochi/internal/core"

// Defaults for NewQuadTree when a non-positive capacity or depth is given.
const (
	DefaultCapacity = 10
	DefaultMaxDepth = 5
)

// childOverlap is how far each child extends past the split line.
const childOverlap = 1.0

// Entry is one indexed item: the id it belongs to, the point it was
// indexed at and a caller-defined payload.
type Entry[T any] struct {
	ID    uint32
	Pos   core.Vec
	Value T
}

// QuadTree is one node of the index. The root is the node returned by
// NewQuadTree; children are created on demand.
type QuadTree[T any] struct {
	bounds   core.RectF
	capacity int
	maxDepth int
	depth    int
	entries  []Entry[T]
	children []*QuadTree[T] // nil until subdivided, then NW, NE, SW, SE
}

// NewQuadTree creates an empty tree covering bounds.
func NewQuadTree[T any](bounds core.RectF, capacity, maxDepth int) *QuadTree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return newNode[T](bounds, capacity, maxDepth, 0)
}

func newNode[T any](bounds core.RectF, capacity, maxDepth, depth int) *QuadTree[T] {
	return &QuadTree[T]{
		bounds:   bounds,
		capacity: capacity,
		maxDepth: maxDepth,
		depth:    depth,
	}
}

// Bounds returns the area covered by this node.
func (q *QuadTree[T]) Bounds() core.RectF {
	return q.bounds
}

// Divided reports whether the node has been split into children.
func (q *QuadTree[T]) Divided() bool {
	return q.children != nil
}

// Insert indexes value for id at pos. It returns false, and stores nothing,
// when pos lies outside the root boundary.
func (q *QuadTree[T]) Insert(id uint32, pos core.Vec, value T) bool {
	return q.insert(Entry[T]{ID: id, Pos: pos, Value: value})
}

func (q *QuadTree[T]) insert(e Entry[T]) bool {
	if !q.bounds.ContainsPoint(e.Pos) {
		return false
	}

	if q.children == nil {
		if len(q.entries) < q.capacity || q.depth >= q.maxDepth {
			q.entries = append(q.entries, e)
			return true
		}
		q.subdivide()
	}

	inserted := false
	for _, c := range q.children {
		if c.insert(e) {
			inserted = true
		}
	}
	return inserted
}

// subdivide splits the node into four quadrants and moves its entries
// into every child that contains them.
func (q *QuadTree[T]) subdivide() {
	x, y := q.bounds.X, q.bounds.Y
	hw, hh := q.bounds.W/2, q.bounds.H/2
	cw, ch := hw+childOverlap, hh+childOverlap
	d := q.depth + 1

	q.children = []*QuadTree[T]{
		newNode[T](core.RectF{X: x, Y: y, W: cw, H: ch}, q.capacity, q.maxDepth, d),
		newNode[T](core.RectF{X: x + hw - childOverlap, Y: y, W: cw, H: ch}, q.capacity, q.maxDepth, d),
		newNode[T](core.RectF{X: x, Y: y + hh - childOverlap, W: cw, H: ch}, q.capacity, q.maxDepth, d),
		newNode[T](core.RectF{X: x + hw - childOverlap, Y: y + hh - childOverlap, W: cw, H: ch}, q.capacity, q.maxDepth, d),
	}

	old := q.entries
	q.entries = nil
	for _, e := range old {
		for _, c := range q.children {
			c.insert(e)
		}
	}
}

// Remove deletes every entry for id and reports whether any was found.
// Removing an unknown id returns false.
func (q *QuadTree[T]) Remove(id uint32) bool {
	found := false
	for i := 0; i < len(q.entries); i++ {
		if q.entries[i].ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			found = true
			i--
		}
	}
	// Copies may live in several overlapping children.
	for _, c := range q.children {
		if c.Remove(id) {
			found = true
		}
	}
	return found
}

// Update moves id to pos. It returns false when pos is outside the root
// boundary, in which case id is no longer indexed.
func (q *QuadTree[T]) Update(id uint32, pos core.Vec, value T) bool {
	q.Remove(id)
	return q.Insert(id, pos, value)
}

// QueryRange returns every entry whose point lies in rect, edges included.
// Entries near split lines may appear more than once.
func (q *QuadTree[T]) QueryRange(rect core.RectF) []Entry[T] {
	var found []Entry[T]
	return q.query(rect, found)
}

func (q *QuadTree[T]) query(rect core.RectF, found []Entry[T]) []Entry[T] {
	if !q.bounds.Intersects(rect) {
		return found
	}
	for _, e := range q.entries {
		if rect.ContainsPoint(e.Pos) {
			found = append(found, e)
		}
	}
	for _, c := range q.children {
		found = c.query(rect, found)
	}
	return found
}

// Len returns the number of distinct ids in the tree.
func (q *QuadTree[T]) Len() int {
	seen := make(map[uint32]struct{})
	q.walk(func(e Entry[T]) {
		seen[e.ID] = struct{}{}
	})
	return len(seen)
}

// Clear empties the tree and drops all children.
func (q *QuadTree[T]) Clear() {
	q.entries = nil
	q.children = nil
}

func (q *QuadTree[T]) walk(fn func(Entry[T])) {
	for _, e := range q.entries {
		fn(e)
	}
	for _, c := range q.children {
		c.walk(fn)
	}
}

// Dedup returns entries with repeated ids removed, keeping the first
// occurrence of each.
func Dedup[T any](entries []Entry[T]) []Entry[T] {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[uint32]struct{}, len(entries))
	out := make([]Entry[T], 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
