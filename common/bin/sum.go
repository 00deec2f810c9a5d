package bin

import "io"

// SumWriter accumulates the number of bytes written by a sequence of writes
type SumWriter struct {
	sum int64
}

func NewSumWriter() *SumWriter {
	return &SumWriter{}
}

func (sw *SumWriter) add(n int64, err error) (int64, error) {
	sw.sum += n
	return sw.sum, err
}

func (sw *SumWriter) Uint8(w io.Writer, v uint8) (int64, error) {
	return sw.add(WriteUint8(w, v))
}

func (sw *SumWriter) Uint32(w io.Writer, v uint32) (int64, error) {
	return sw.add(WriteUint32(w, v))
}

func (sw *SumWriter) Uint64(w io.Writer, v uint64) (int64, error) {
	return sw.add(WriteUint64(w, v))
}

func (sw *SumWriter) String(w io.Writer, v string) (int64, error) {
	return sw.add(WriteString(w, v))
}

func (sw *SumWriter) Bool(w io.Writer, v bool) (int64, error) {
	return sw.add(WriteBool(w, v))
}

func (sw *SumWriter) Sum() int64 {
	return sw.sum
}

// SumReader accumulates the number of bytes read by a sequence of reads
type SumReader struct {
	sum int64
}

func NewSumReader() *SumReader {
	return &SumReader{}
}

func (sr *SumReader) Uint8(r io.Reader, p *uint8) (int64, error) {
	v, n, err := ReadUint8(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = v
	return sr.sum, nil
}

func (sr *SumReader) Uint32(r io.Reader, p *uint32) (int64, error) {
	v, n, err := ReadUint32(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = v
	return sr.sum, nil
}

func (sr *SumReader) Uint64(r io.Reader, p *uint64) (int64, error) {
	v, n, err := ReadUint64(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = v
	return sr.sum, nil
}

func (sr *SumReader) String(r io.Reader, p *string) (int64, error) {
	v, n, err := ReadString(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = v
	return sr.sum, nil
}

func (sr *SumReader) Bool(r io.Reader, p *bool) (int64, error) {
	v, n, err := ReadBool(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = v
	return sr.sum, nil
}

func (sr *SumReader) Sum() int64 {
	return sr.sum
}
