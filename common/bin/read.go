package bin

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ReadUint64 reads a uint64 number from the reader
func ReadUint64(r io.Reader) (uint64, int64, error) {
	bs := make([]byte, 8)
	n, err := FillBytes(r, bs)
	if err != nil {
		return 0, n, err
	}
	return binary.LittleEndian.Uint64(bs), n, nil
}

// ReadUint32 reads a uint32 number from the reader
func ReadUint32(r io.Reader) (uint32, int64, error) {
	bs := make([]byte, 4)
	n, err := FillBytes(r, bs)
	if err != nil {
		return 0, n, err
	}
	return binary.LittleEndian.Uint32(bs), n, nil
}

// ReadUint8 reads a uint8 number from the reader
func ReadUint8(r io.Reader) (uint8, int64, error) {
	bs := make([]byte, 1)
	n, err := FillBytes(r, bs)
	if err != nil {
		return 0, n, err
	}
	return bs[0], n, nil
}

// ReadBytes reads a byte array written by WriteBytes from the reader
func ReadBytes(r io.Reader) ([]byte, int64, error) {
	var read int64
	l, n, err := ReadUint8(r)
	read += n
	if err != nil {
		return nil, read, err
	}
	size := uint32(l)
	if l == 255 {
		v, n, err := ReadUint32(r)
		read += n
		if err != nil {
			return nil, read, err
		}
		if v > MaxBytesLength {
			return nil, read, errors.WithStack(ErrTooLarge)
		}
		size = v
	}
	bs := make([]byte, size)
	n, err = FillBytes(r, bs)
	read += n
	if err != nil {
		return nil, read, err
	}
	return bs, read, nil
}

// ReadString reads a string from the reader
func ReadString(r io.Reader) (string, int64, error) {
	if bs, n, err := ReadBytes(r); err != nil {
		return "", n, err
	} else {
		return string(bs), n, nil
	}
}

// ReadBool reads a bool using a uint8 from the reader
func ReadBool(r io.Reader) (bool, int64, error) {
	if v, n, err := ReadUint8(r); err != nil {
		return false, n, err
	} else {
		return (v == 1), n, nil
	}
}

// FillBytes reads bytes from the reader until the given bytes array is filled
func FillBytes(r io.Reader, bs []byte) (int64, error) {
	n, err := io.ReadFull(r, bs)
	if err == io.ErrUnexpectedEOF {
		return int64(n), errors.WithStack(ErrInvalidLength)
	} else if err != nil {
		return int64(n), errors.WithStack(err)
	}
	return int64(n), nil
}

// ReadFromBytes fills the reader from with the bytes
func ReadFromBytes(r io.ReaderFrom, bs []byte) (int64, error) {
	return r.ReadFrom(bytes.NewReader(bs))
}
