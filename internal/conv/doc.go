// Package conv converts between integer widths with bounds checks. It is
// used where lengths and ordinals are written into fixed-width snapshot
// fields.
package conv
