package bin

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxBytesLength is the largest byte array that WriteBytes accepts
const MaxBytesLength = 1 << 24

func writeFull(w io.Writer, bs []byte) (int64, error) {
	n, err := w.Write(bs)
	if err != nil {
		return int64(n), errors.WithStack(err)
	}
	if n != len(bs) {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return int64(n), nil
}

// WriteUint64 writes the uint64 number to the writer
func WriteUint64(w io.Writer, num uint64) (int64, error) {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, num)
	return writeFull(w, bs)
}

// WriteUint32 writes the uint32 number to the writer
func WriteUint32(w io.Writer, num uint32) (int64, error) {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, num)
	return writeFull(w, bs)
}

// WriteUint8 writes the uint8 number to the writer
func WriteUint8(w io.Writer, num uint8) (int64, error) {
	return writeFull(w, []byte{num})
}

// WriteBytes writes the byte array with a var-length header to the writer
// lengths below 255 take one byte, longer arrays are marked by 255 and a uint32 length
func WriteBytes(w io.Writer, bs []byte) (int64, error) {
	if len(bs) > MaxBytesLength {
		return 0, errors.WithStack(ErrTooLarge)
	}
	var wrote int64
	if len(bs) < 255 {
		n, err := WriteUint8(w, uint8(len(bs)))
		wrote += n
		if err != nil {
			return wrote, err
		}
	} else {
		n, err := WriteUint8(w, 255)
		wrote += n
		if err != nil {
			return wrote, err
		}
		n, err = WriteUint32(w, uint32(len(bs)))
		wrote += n
		if err != nil {
			return wrote, err
		}
	}
	n, err := writeFull(w, bs)
	wrote += n
	return wrote, err
}

// WriteString writes the string with the var-length header to the writer
func WriteString(w io.Writer, str string) (int64, error) {
	return WriteBytes(w, []byte(str))
}

// WriteBool writes the bool using a uint8 to the writer
func WriteBool(w io.Writer, b bool) (int64, error) {
	if b {
		return WriteUint8(w, 1)
	}
	return WriteUint8(w, 0)
}

// WriterToBytes returns the bytes written by the writer to
func WriterToBytes(w io.WriterTo) ([]byte, int64, error) {
	var buffer bytes.Buffer
	if n, err := w.WriteTo(&buffer); err != nil {
		return nil, n, err
	} else {
		return buffer.Bytes(), n, nil
	}
}
