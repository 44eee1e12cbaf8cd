package cell

import (
	"slices"
	"sort"

	"github.com/golang/geo/r3"
)

// Union is a set of cells. Unless stated otherwise, methods expect a
// normalized union: sorted, with no entry containing another and no four
// complete siblings.
type Union []ID

// UnionFromIDs returns the normalized union of ids. ids is not modified.
func UnionFromIDs(ids []ID) Union {
	u := Union(slices.Clone(ids))
	u.Normalize()
	return u
}

// UnionFromNormalized wraps ids without copying or normalizing. The caller
// guarantees ids is already normalized.
func UnionFromNormalized(ids []ID) Union { return Union(ids) }

// UnionFromUint64s returns the normalized union of raw ids.
func UnionFromUint64s(raw []uint64) Union {
	u := make(Union, len(raw))
	for i, v := range raw {
		u[i] = ID(v)
	}
	u.Normalize()
	return u
}

// UnionFromTokens decodes and normalizes tokens.
func UnionFromTokens(tokens []string) (Union, error) {
	u := make(Union, 0, len(tokens))
	for _, t := range tokens {
		id, err := IDFromToken(t)
		if err != nil {
			return nil, err
		}
		u = append(u, id)
	}
	u.Normalize()
	return u, nil
}

// Normalize sorts u, drops entries contained in other entries and replaces
// complete groups of four siblings by their parent, repeatedly.
func (u *Union) Normalize() {
	slices.Sort(*u)

	out := (*u)[:0]
	for _, id := range *u {
		if len(out) > 0 && out[len(out)-1].Contains(id) {
			continue
		}
		for len(out) > 0 && id.Contains(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		for len(out) >= 3 && areSiblings(out[len(out)-3], out[len(out)-2], out[len(out)-1], id) {
			out = out[:len(out)-3]
			id = id.immediateParent()
		}
		out = append(out, id)
	}
	*u = out
}

func areSiblings(a, b, c, d ID) bool {
	if a^b^c != d {
		return false
	}
	mask := d.LSB() << 1
	mask = ^(mask + mask<<1)
	masked := uint64(d) & mask
	return uint64(a)&mask == masked &&
		uint64(b)&mask == masked &&
		uint64(c)&mask == masked &&
		!d.IsFace()
}

// IsValid reports whether u is sorted, non-overlapping and made of valid IDs.
func (u Union) IsValid() bool {
	for i, id := range u {
		if !id.IsValid() {
			return false
		}
		if i > 0 && u[i-1].RangeMax() >= id.RangeMin() {
			return false
		}
	}
	return true
}

// IsNormalized reports whether u is valid and has no four complete siblings.
func (u Union) IsNormalized() bool {
	if !u.IsValid() {
		return false
	}
	for i := 3; i < len(u); i++ {
		if areSiblings(u[i-3], u[i-2], u[i-1], u[i]) {
			return false
		}
	}
	return true
}

// lowerBound returns the first index whose entry ends at or after id.
func (u Union) lowerBound(id ID) int {
	return sort.Search(len(u), func(i int) bool { return u[i].RangeMax() >= id })
}

// ContainsID reports whether id is entirely covered by u.
func (u Union) ContainsID(id ID) bool {
	i := u.lowerBound(id)
	return i < len(u) && u[i].Contains(id)
}

// IntersectsID reports whether id shares any leaf with u.
func (u Union) IntersectsID(id ID) bool {
	i := u.lowerBound(id.RangeMin())
	return i < len(u) && u[i].RangeMin() <= id.RangeMax()
}

// Intersects reports whether u and o share any leaf.
func (u Union) Intersects(o Union) bool {
	if len(u) > len(o) {
		u, o = o, u
	}
	for _, id := range u {
		if o.IntersectsID(id) {
			return true
		}
	}
	return false
}

// ContainsUnion reports whether every cell of o is covered by u.
func (u Union) ContainsUnion(o Union) bool {
	for _, id := range o {
		if !u.ContainsID(id) {
			return false
		}
	}
	return true
}

// Equal reports whether u and o hold the same IDs in the same order.
func (u Union) Equal(o Union) bool {
	return slices.Equal(u, o)
}

// UnionOf returns the normalized union of all inputs.
func UnionOf(unions ...Union) Union {
	var n int
	for _, u := range unions {
		n += len(u)
	}
	out := make(Union, 0, n)
	for _, u := range unions {
		out = append(out, u...)
	}
	out.Normalize()
	return out
}

// IntersectionOf returns the normalized set of leaves covered by both x and y.
// Both inputs must be normalized.
func IntersectionOf(x, y Union) Union {
	var out Union
	for i, j := 0, 0; i < len(x) && j < len(y); {
		iMin, jMin := x[i].RangeMin(), y[j].RangeMin()
		switch {
		case iMin > jMin:
			if x[i] <= y[j].RangeMax() {
				out = append(out, x[i])
				i++
			} else {
				j = y.searchFrom(j+1, iMin)
				if x[i] <= y[j-1].RangeMax() {
					j--
				}
			}
		case jMin > iMin:
			if y[j] <= x[i].RangeMax() {
				out = append(out, y[j])
				j++
			} else {
				i = x.searchFrom(i+1, jMin)
				if y[j] <= x[i-1].RangeMax() {
					i--
				}
			}
		default:
			// Same first leaf: the smaller ID is the finer cell.
			if x[i] < y[j] {
				out = append(out, x[i])
				i++
			} else {
				out = append(out, y[j])
				j++
			}
		}
	}
	out.Normalize()
	return out
}

// searchFrom returns the first index >= begin with u[k] >= id.
func (u Union) searchFrom(begin int, id ID) int {
	return begin + sort.Search(len(u)-begin, func(k int) bool { return u[begin+k] >= id })
}

// Difference returns the cells of x not covered by y. Both inputs must be
// normalized.
func Difference(x, y Union) Union {
	var out Union
	for _, id := range x {
		out = differenceInto(out, id, y)
	}
	out.Normalize()
	return out
}

func differenceInto(out Union, id ID, y Union) Union {
	if !y.IntersectsID(id) {
		return append(out, id)
	}
	if y.ContainsID(id) {
		return out
	}
	for _, child := range id.Children() {
		out = differenceInto(out, child, y)
	}
	return out
}

// Denormalize returns the cells of u with every entry coarser than level
// replaced by its descendants at level. Entries at or above level are left
// unchanged, so the result is a single-resolution grid only when u holds
// nothing finer than level. The result is sorted but may hold complete
// sibling groups.
func (u Union) Denormalize(level int) []ID {
	out := make([]ID, 0, len(u))
	for _, id := range u {
		if id.Level() >= level {
			out = append(out, id)
			continue
		}
		end := id.ChildEndAtLevel(level)
		for c := id.ChildBeginAtLevel(level); c != end; c = c.Next() {
			out = append(out, c)
		}
	}
	return out
}

// LeafCellsCovered returns the number of leaf cells covered by u.
func (u Union) LeafCellsCovered() uint64 {
	var n uint64
	for _, id := range u {
		n += 1 << uint(2*(MaxLevel-id.Level()))
	}
	return n
}

// ExactArea returns the area of u on the unit sphere.
func (u Union) ExactArea() float64 {
	var a float64
	for _, id := range u {
		a += FromID(id).ExactArea()
	}
	return a
}

// ApproxArea returns the area of u from average cell areas.
func (u Union) ApproxArea() float64 {
	var a float64
	for _, id := range u {
		a += AverageArea(id.Level())
	}
	return a
}

// Centroid returns the area-weighted center of u on the unit sphere. The
// zero Point is returned for an empty union.
func (u Union) Centroid() Point {
	var sum r3.Vector
	for _, id := range u {
		c := FromID(id)
		sum = sum.Add(c.Center().Mul(c.ExactArea()))
	}
	return PointFromVector(sum)
}

// IDs returns the raw values of u.
func (u Union) IDs() []uint64 {
	out := make([]uint64, len(u))
	for i, id := range u {
		out[i] = uint64(id)
	}
	return out
}

// Tokens returns the token of every entry.
func (u Union) Tokens() []string {
	out := make([]string, len(u))
	for i, id := range u {
		out[i] = id.ToToken()
	}
	return out
}

// Levels returns the level of every entry.
func (u Union) Levels() []int {
	out := make([]int, len(u))
	for i, id := range u {
		out[i] = id.Level()
	}
	return out
}
