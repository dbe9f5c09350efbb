package asm

import (
	"encoding/binary"
	"fmt"
)

// packFormatSize returns the byte width of a struct-style pack format
// string using standard (non-native) sizes under a '<' little-endian
// prefix: b/B=1, h/H=2, i/I/l/L=4, q/Q=8, f=4, d=8.
func packFormatSize(format string) int {
	if len(format) == 0 {
		return 0
	}
	code := format[len(format)-1]
	switch code {
	case 'b', 'B':
		return 1
	case 'h', 'H':
		return 2
	case 'i', 'I', 'l', 'L', 'f':
		return 4
	case 'q', 'Q', 'd':
		return 8
	default:
		return 0
	}
}

// encodePack packs a single integer value per a struct-style format
// string (e.g. "<B", "<I", ">I"); lowercase codes are signed, uppercase
// unsigned — both pack identically as raw bytes. A leading '<' selects
// little-endian (the default if no prefix is given), '>' big-endian.
func encodePack(format string, value int64) ([]byte, error) {
	size := packFormatSize(format)
	if size == 0 {
		return nil, fmt.Errorf("unsupported pack format: %q", format)
	}
	order := byteOrder(format)
	buf := make([]byte, size)
	switch size {
	case 1:
		buf[0] = byte(value)
	case 2:
		order.PutUint16(buf, uint16(value))
	case 4:
		order.PutUint32(buf, uint32(value))
	case 8:
		order.PutUint64(buf, uint64(value))
	}
	return buf, nil
}

// byteOrder picks the binary.ByteOrder a pack format string's optional
// endianness prefix selects; little-endian unless the format leads with
// '>'.
func byteOrder(format string) binary.ByteOrder {
	if len(format) > 0 && format[0] == '>' {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// sequenceFormat picks the pack-format character for a sequence
// element, selecting the lowercase (signed) spelling when the value is
// negative, per spec.md §4.5 step 10.
func sequenceFormat(kind string, value int64) string {
	neg := value < 0
	switch kind {
	case "bytes":
		if neg {
			return "<b"
		}
		return "<B"
	case "shorts":
		if neg {
			return "<h"
		}
		return "<H"
	case "ints":
		if neg {
			return "<i"
		}
		return "<I"
	case "longs", "longlongs":
		if neg {
			return "<q"
		}
		return "<Q"
	default:
		return "<B"
	}
}
