package hash

import (
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Verify reports whether data matches the checksum.
func Verify(data []byte, checksum uint32) bool {
	return CRC32C(data) == checksum
}
