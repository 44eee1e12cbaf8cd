package cell

const (
	// NumFaces is the number of cube faces.
	NumFaces = 6
	// MaxLevel is the level of leaf cells.
	MaxLevel = 30

	posBits = 2*MaxLevel + 1
	maxSize = 1 << MaxLevel

	swapMask   = 0x01
	invertMask = 0x02
)

// Hilbert curve tables. An orientation is a combination of swapMask and
// invertMask; ij packs the i and j bits of a child as (i << 1) | j.
var (
	posToIJ = [4][4]int{
		{0, 1, 3, 2}, // canonical
		{0, 2, 3, 1}, // swapped
		{3, 2, 0, 1}, // inverted
		{3, 1, 0, 2}, // swapped and inverted
	}
	ijToPos = [4][4]int{
		{0, 1, 3, 2},
		{0, 3, 1, 2},
		{2, 3, 1, 0},
		{2, 1, 3, 0},
	}
	posToOrientation = [4]int{swapMask, 0, 0, invertMask | swapMask}
)
