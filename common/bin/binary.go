package bin

import "encoding/binary"

// Uint32Bytes returns a big-endian byte array of the uint32 number
func Uint32Bytes(v uint32) []byte {
	bs := make([]byte, 4)
	binary.BigEndian.PutUint32(bs, v)
	return bs
}

// Uint64Bytes returns a big-endian byte array of the uint64 number, byte order follows numeric order
func Uint64Bytes(v uint64) []byte {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, v)
	return bs
}

// Uint64 returns the uint64 number of the big-endian byte array
func Uint64(bs []byte) uint64 {
	return binary.BigEndian.Uint64(bs)
}
