package utils

import (
	"encoding/binary"
	"encoding/hex"
	"math"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

// Int64ToBytes encodes i as 8 big endian bytes.
func Int64ToBytes(i int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}

func Float64ToBytes(f float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	return b
}

// LengthPrefixed prepends the 4 byte big endian length of data, so that variable
// sized fields can't be shifted into each other.
func LengthPrefixed(data []byte) []byte {
	b := make([]byte, 4, 4+len(data))
	binary.BigEndian.PutUint32(b, uint32(len(data)))
	return append(b, data...)
}
