package coverer

import (
	"container/heap"
	"sort"

	"github.com/hupe1980/geoterm/cell"
	"github.com/hupe1980/geoterm/region"
)

type candidate struct {
	cell        cell.Cell
	terminal    bool
	numChildren int
	children    []*candidate
	priority    int
}

// priorityQueue pops the highest priority first, lower IDs breaking ties.
type priorityQueue []*candidate

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority > pq[j].priority
	}
	return pq[i].cell.ID() < pq[j].cell.ID()
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(*candidate)) }

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

type coverer struct {
	opts     Options
	levelMod int
	maxCells int
	region   region.Region
	result   []cell.ID
	pq       priorityQueue
}

func newCoverer(r region.Region, opts Options) *coverer {
	return &coverer{
		opts:     opts,
		levelMod: opts.levelMod(),
		maxCells: opts.maxCells(),
		region:   r,
	}
}

func (c *coverer) newCandidate(cl cell.Cell) *candidate {
	if !c.region.IntersectsCell(cl) {
		return nil
	}
	cand := &candidate{cell: cl}
	level := cl.Level()
	if level >= c.opts.MinLevel && (level+c.levelMod > c.opts.MaxLevel || c.region.ContainsCell(cl)) {
		cand.terminal = true
	}
	return cand
}

// expandChildren adds the descendants of cl numLevels below it that
// intersect the region, and returns how many of them are terminal.
func (c *coverer) expandChildren(cand *candidate, cl cell.Cell, numLevels int) int {
	numLevels--
	var numTerminals int
	for _, id := range cl.ID().Children() {
		child := cell.FromID(id)
		if numLevels > 0 {
			if c.region.IntersectsCell(child) {
				numTerminals += c.expandChildren(cand, child, numLevels)
			}
			continue
		}
		if cc := c.newCandidate(child); cc != nil {
			cand.children = append(cand.children, cc)
			cand.numChildren++
			if cc.terminal {
				numTerminals++
			}
		}
	}
	return numTerminals
}

func (c *coverer) addCandidate(cand *candidate) {
	if cand == nil {
		return
	}
	if cand.terminal {
		c.result = append(c.result, cand.cell.ID())
		return
	}

	level := cand.cell.Level()
	numLevels := c.levelMod
	if level < c.opts.MinLevel {
		numLevels = 1
	}
	numTerminals := c.expandChildren(cand, cand.cell, numLevels)
	maxChildrenShift := uint(2 * c.levelMod)

	switch {
	case cand.numChildren == 0:
		// The cell intersects but none of its children do: keep the cell so
		// the covering stays sound.
		cand.terminal = true
		c.addCandidate(cand)
	case numTerminals == 1<<maxChildrenShift && level >= c.opts.MinLevel:
		// Every descendant is terminal, so the cell itself is.
		cand.terminal = true
		c.addCandidate(cand)
	default:
		cand.priority = -((level<<maxChildrenShift+cand.numChildren)<<maxChildrenShift + numTerminals)
		heap.Push(&c.pq, cand)
	}
}

func (c *coverer) covering() []cell.ID {
	for face := range cell.NumFaces {
		c.addCandidate(c.newCandidate(cell.FromFace(face)))
	}
	for c.pq.Len() > 0 {
		cand := heap.Pop(&c.pq).(*candidate)
		if cand.cell.Level() < c.opts.MinLevel || cand.numChildren == 1 ||
			len(c.result)+c.pq.Len()+cand.numChildren <= c.maxCells {
			for _, child := range cand.children {
				c.addCandidate(child)
			}
		} else {
			cand.terminal = true
			c.addCandidate(cand)
		}
	}
	return c.result
}

// Covering returns a normalized set of cells whose union contains r. The
// covering respects the level options and, unless MinLevel forces more
// cells, holds at most MaxCells entries. Options must be valid.
func Covering(r region.Region, opts Options) cell.Union {
	c := newCoverer(r, opts)
	return Canonicalize(c.covering(), opts)
}

// Canonicalize rewrites ids so that every level lies in
// [MinLevel, TrueMaxLevel] on the LevelMod stride, and then merges cells
// until at most MaxCells remain or no merge keeps levels at or above
// MinLevel. The result covers at least the leaves of ids and is sorted.
func Canonicalize(ids []cell.ID, opts Options) cell.Union {
	levelMod := opts.levelMod()
	maxCells := opts.maxCells()
	maxLevel := opts.TrueMaxLevel()

	u := make(cell.Union, len(ids))
	for i, id := range ids {
		level := id.Level()
		newLevel := opts.adjustLevel(min(level, maxLevel))
		if newLevel != level {
			id = id.MustParent(newLevel)
		}
		u[i] = id
	}
	u.Normalize()
	u = alignLevels(u, opts.MinLevel, levelMod)

	for len(u) > maxCells {
		bestIndex, bestLevel := -1, -1
		for i := 0; i+1 < len(u); i++ {
			level, ok := u[i].CommonAncestorLevel(u[i+1])
			if !ok {
				continue
			}
			level = opts.adjustLevel(level)
			if level > bestLevel {
				bestLevel, bestIndex = level, i
			}
		}
		if bestLevel < opts.MinLevel {
			break
		}

		id := u[bestIndex].MustParent(bestLevel)
		u = replaceWithAncestor(u, id)

		// Merging may complete the children of a coarser stride cell.
		for bestLevel > opts.MinLevel {
			bestLevel -= levelMod
			id = id.MustParent(bestLevel)
			if !containsAllChildren(u, id, levelMod) {
				break
			}
			u = replaceWithAncestor(u, id)
		}
	}
	return u
}

// alignLevels expands every entry of u below minLevel, or finer than
// minLevel but off the levelMod stride, into its descendants at the next
// permitted level. Normalizing may have merged stride cells into such a
// parent.
func alignLevels(u cell.Union, minLevel, levelMod int) cell.Union {
	out := make(cell.Union, 0, len(u))
	for _, id := range u {
		level := id.Level()
		newLevel := max(minLevel, level)
		if r := (newLevel - minLevel) % levelMod; r != 0 {
			newLevel = min(newLevel+levelMod-r, cell.MaxLevel)
		}
		if newLevel == level {
			out = append(out, id)
			continue
		}
		end := id.ChildEndAtLevel(newLevel)
		for c := id.ChildBeginAtLevel(newLevel); c != end; c = c.Next() {
			out = append(out, c)
		}
	}
	return out
}

// replaceWithAncestor replaces every entry contained in id by id.
func replaceWithAncestor(u cell.Union, id cell.ID) cell.Union {
	begin := sort.Search(len(u), func(i int) bool { return u[i] >= id.RangeMin() })
	end := sort.Search(len(u), func(i int) bool { return u[i] > id.RangeMax() })
	if begin == end {
		u = append(u, 0)
		copy(u[begin+1:], u[begin:])
		u[begin] = id
		return u
	}
	u[begin] = id
	return append(u[:begin+1], u[end:]...)
}

// containsAllChildren reports whether all descendants of id levelMod levels
// down are present in u.
func containsAllChildren(u cell.Union, id cell.ID, levelMod int) bool {
	pos := sort.Search(len(u), func(i int) bool { return u[i] >= id.RangeMin() })
	level := id.Level() + levelMod
	end := id.ChildEndAtLevel(level)
	for child := id.ChildBeginAtLevel(level); child != end; child = child.Next() {
		if pos == len(u) || u[pos] != child {
			return false
		}
		pos++
	}
	return true
}

// FaceCount returns the number of cube faces that intersect r.
func FaceCount(r region.Region) int {
	var n int
	for face := range cell.NumFaces {
		if r.IntersectsCell(cell.FromFace(face)) {
			n++
		}
	}
	return n
}
