// Package compress frames byte payloads with optional LZ4 or ZSTD
// compression.
//
// Frame layout: [UncompressedSize uint32][CompressedSize uint32][Data...].
// A CompressedSize of zero means Data is stored as is, which happens when
// compression is disabled or does not save at least 10%.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the compression algorithm of a frame.
type Type uint8

const (
	// None stores payloads uncompressed.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses ZSTD (better ratio).
	ZSTD Type = 2
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compress.Type(%d)", uint8(t))
	}
}

// ParseType maps a name accepted by String back to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	}
	return None, fmt.Errorf("unknown compression %q", s)
}

var (
	// ErrCorrupt is returned when a frame is truncated or does not decode.
	ErrCorrupt = errors.New("corrupt compressed frame")

	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

const headerSize = 8

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode returns a frame holding data compressed with t.
func Encode(t Type, data []byte) ([]byte, error) {
	var compressed []byte
	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unsupported compression %s", t)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

// Decode returns the payload of a frame written by Encode with the same t.
func Decode(t Type, frame []byte) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	size := binary.LittleEndian.Uint32(frame[0:])
	csize := binary.LittleEndian.Uint32(frame[4:])
	body := frame[headerSize:]

	if csize == 0 {
		if uint32(len(body)) < size {
			return nil, fmt.Errorf("%w: short body", ErrCorrupt)
		}
		return body[:size], nil
	}
	if uint32(len(body)) < csize {
		return nil, fmt.Errorf("%w: short body", ErrCorrupt)
	}
	body = body[:csize]
	out := make([]byte, size)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != size {
			return nil, fmt.Errorf("%w: size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed frame with type %s", ErrCorrupt, t)
	}
}
