package cell

import (
	"bytes"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// ID identifies a cell. The zero value is not a valid cell.
type ID uint64

// Sentinel is the ID that sorts after every valid cell.
const Sentinel = ID(^uint64(0))

func lsbForLevel(level int) uint64 {
	return 1 << uint64(2*(MaxLevel-level))
}

// IDFromFace returns the level-0 cell of face.
func IDFromFace(face int) ID {
	return ID(uint64(face)<<posBits + lsbForLevel(0))
}

// IDFromFaceIJ returns the leaf cell at (i, j) on face.
func IDFromFaceIJ(face, i, j int) ID {
	n := uint64(face) << (posBits - 1)
	orientation := face & swapMask
	for k := MaxLevel - 1; k >= 0; k-- {
		ij := ((i>>uint(k))&1)<<1 | (j>>uint(k))&1
		pos := ijToPos[orientation][ij]
		n |= uint64(pos) << uint(2*k)
		orientation ^= posToOrientation[pos]
	}
	return ID(n*2 + 1)
}

// IDFromPoint returns the leaf cell containing p.
func IDFromPoint(p Point) ID {
	return ID(s2.CellFromPoint(p).ID())
}

// IDFromLatLng returns the leaf cell containing ll.
func IDFromLatLng(ll LatLng) ID {
	return ID(s2.CellIDFromLatLng(ll))
}

// CellID returns id as an s2 cell id. Both share the same bit layout.
func (id ID) CellID() s2.CellID { return s2.CellID(id) }

// IDFromToken decodes a token produced by ToToken.
func IDFromToken(token string) (ID, error) {
	if token == "X" || token == "x" {
		return 0, nil
	}
	if token == "" || len(token) > 16 {
		return 0, &ErrToken{Token: token}
	}
	n, err := strconv.ParseUint(token, 16, 64)
	if err != nil {
		return 0, &ErrToken{Token: token}
	}
	id := ID(n << uint(4*(16-len(token))))
	if !id.IsValid() {
		return 0, &ErrToken{Token: token}
	}
	return id, nil
}

// ToToken returns the compact hex form of id.
func (id ID) ToToken() string {
	if id == 0 {
		return "X"
	}
	s := fmt.Sprintf("%016x", uint64(id))
	return strings.TrimRight(s, "0")
}

// Face returns the cube face of id.
func (id ID) Face() int { return int(uint64(id) >> posBits) }

// LSB returns the lowest set bit, which encodes the level.
func (id ID) LSB() uint64 { return uint64(id) & -uint64(id) }

// Level returns the subdivision level, 0 for faces and MaxLevel for leaves.
func (id ID) Level() int {
	return MaxLevel - bits.TrailingZeros64(uint64(id))>>1
}

// IsValid reports whether id encodes a cell.
func (id ID) IsValid() bool {
	return id.Face() < NumFaces && id.LSB()&0x1555555555555555 != 0
}

// IsLeaf reports whether id is at MaxLevel.
func (id ID) IsLeaf() bool { return uint64(id)&1 != 0 }

// IsFace reports whether id is a level-0 cell.
func (id ID) IsFace() bool { return uint64(id)&(lsbForLevel(0)-1) == 0 }

// Parent returns the ancestor of id at level. level may equal id's level.
func (id ID) Parent(level int) (ID, error) {
	if level < 0 || level > id.Level() {
		return 0, &ErrLevel{Level: id.Level(), Requested: level}
	}
	return id.parent(level), nil
}

// MustParent is like Parent but panics on an invalid level.
func (id ID) MustParent(level int) ID {
	p, err := id.Parent(level)
	if err != nil {
		panic(err)
	}
	return p
}

func (id ID) parent(level int) ID {
	lsb := lsbForLevel(level)
	return ID(uint64(id)&-lsb | lsb)
}

func (id ID) immediateParent() ID {
	lsb := id.LSB() << 2
	return ID(uint64(id)&-lsb | lsb)
}

// ChildBegin returns the first child of id. id must not be a leaf.
func (id ID) ChildBegin() ID {
	lsb := id.LSB()
	return ID(uint64(id) - lsb + lsb>>2)
}

// ChildBeginAtLevel returns the first descendant of id at level.
func (id ID) ChildBeginAtLevel(level int) ID {
	return ID(uint64(id) - id.LSB() + lsbForLevel(level))
}

// ChildEndAtLevel returns the ID one past the last descendant of id at level.
func (id ID) ChildEndAtLevel(level int) ID {
	return ID(uint64(id) + id.LSB() + lsbForLevel(level))
}

// Next returns the next cell at the same level along the Hilbert curve.
func (id ID) Next() ID {
	return ID(uint64(id) + id.LSB()<<1)
}

// Children returns the four children of id in curve order.
func (id ID) Children() [4]ID {
	var ch [4]ID
	c := id.ChildBegin()
	for k := range ch {
		ch[k] = c
		c = c.Next()
	}
	return ch
}

// RangeMin returns the smallest leaf ID contained in id.
func (id ID) RangeMin() ID { return ID(uint64(id) - (id.LSB() - 1)) }

// RangeMax returns the largest leaf ID contained in id.
func (id ID) RangeMax() ID { return ID(uint64(id) + (id.LSB() - 1)) }

// Contains reports whether o is id or a descendant of id.
func (id ID) Contains(o ID) bool {
	return id.RangeMin() <= o && o <= id.RangeMax()
}

// Intersects reports whether id and o share any leaf.
func (id ID) Intersects(o ID) bool {
	return o.RangeMin() <= id.RangeMax() && o.RangeMax() >= id.RangeMin()
}

// CommonAncestorLevel returns the level of the deepest cell containing
// both id and o. ok is false when they lie on different faces.
func (id ID) CommonAncestorLevel(o ID) (level int, ok bool) {
	x := uint64(id ^ o)
	if x < id.LSB() {
		x = id.LSB()
	}
	if x < o.LSB() {
		x = o.LSB()
	}
	msb := 63 - bits.LeadingZeros64(x)
	if msb > 60 {
		return 0, false
	}
	return (60 - msb) >> 1, true
}

// ToFaceIJOrientation returns the face, the leaf coordinates of the cell's
// first leaf, and the Hilbert orientation of id.
func (id ID) ToFaceIJOrientation() (face, i, j, orientation int) {
	face = id.Face()
	orientation = face & swapMask
	level := id.Level()
	for k := MaxLevel - 1; k >= MaxLevel-level; k-- {
		pos := int(uint64(id)>>uint(2*k+1)) & 3
		ij := posToIJ[orientation][pos]
		i |= (ij >> 1) << uint(k)
		j |= (ij & 1) << uint(k)
		orientation ^= posToOrientation[pos]
	}
	return face, i, j, orientation
}

// Point returns the center of id on the unit sphere.
func (id ID) Point() Point {
	return id.CellID().Point()
}

// LatLng returns the center of id.
func (id ID) LatLng() LatLng {
	return id.CellID().LatLng()
}

// String returns "face/positions", e.g. "3/0213".
func (id ID) String() string {
	if !id.IsValid() {
		return "Invalid: " + strconv.FormatUint(uint64(id), 16)
	}
	var b bytes.Buffer
	b.WriteByte("012345"[id.Face()])
	b.WriteByte('/')
	for level := 1; level <= id.Level(); level++ {
		b.WriteByte("0123"[id.childPosition(level)])
	}
	return b.String()
}

func (id ID) childPosition(level int) int {
	return int(uint64(id)>>uint(2*(MaxLevel-level)+1)) & 3
}

// Intersection returns the finer of a and b when one contains the other.
// ok is false when they are disjoint.
func Intersection(a, b ID) (ID, bool) {
	switch {
	case a.Contains(b):
		return b, true
	case b.Contains(a):
		return a, true
	}
	return 0, false
}

// Intersection3 is Intersection applied to three cells.
func Intersection3(a, b, c ID) (ID, bool) {
	ab, ok := Intersection(a, b)
	if !ok {
		return 0, false
	}
	return Intersection(ab, c)
}
