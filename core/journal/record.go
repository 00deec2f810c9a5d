package journal

import (
	"io"

	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/common/bin"
)

// MaxArgs bounds the argument count of a stored record
const MaxArgs = 256

// errors
var (
	ErrTooManyArgs = errors.New("too many arguments")
)

// Record is one write submission and its outcome
type Record struct {
	Contract string   `json:"contract"`
	Function string   `json:"function"`
	Selector string   `json:"selector"`
	Args     []string `json:"args"`
	TxHash   string   `json:"txHash,omitempty"`
	Error    string   `json:"error,omitempty"`
	Start    uint64   `json:"start"`
	End      uint64   `json:"end"`
}

// Succeeded reports whether the write returned a transaction hash
func (r *Record) Succeeded() bool {
	return r.Error == "" && r.TxHash != ""
}

// WriteTo is a serialization function
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	for _, s := range []string{r.Contract, r.Function, r.Selector} {
		if sum, err := sw.String(w, s); err != nil {
			return sum, err
		}
	}
	if len(r.Args) > MaxArgs {
		return sw.Sum(), errors.Wrapf(ErrTooManyArgs, "%d", len(r.Args))
	}
	if sum, err := sw.Uint32(w, uint32(len(r.Args))); err != nil {
		return sum, err
	}
	for _, s := range r.Args {
		if sum, err := sw.String(w, s); err != nil {
			return sum, err
		}
	}
	for _, s := range []string{r.TxHash, r.Error} {
		if sum, err := sw.String(w, s); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Uint64(w, r.Start); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, r.End); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

// ReadFrom is a deserialization function
func (r *Record) ReadFrom(rd io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	for _, p := range []*string{&r.Contract, &r.Function, &r.Selector} {
		if sum, err := sr.String(rd, p); err != nil {
			return sum, err
		}
	}
	var Len uint32
	if sum, err := sr.Uint32(rd, &Len); err != nil {
		return sum, err
	}
	if Len > MaxArgs {
		return sr.Sum(), errors.Wrapf(ErrTooManyArgs, "%d", Len)
	}
	r.Args = make([]string, 0, Len)
	for i := uint32(0); i < Len; i++ {
		var arg string
		if sum, err := sr.String(rd, &arg); err != nil {
			return sum, err
		}
		r.Args = append(r.Args, arg)
	}
	for _, p := range []*string{&r.TxHash, &r.Error} {
		if sum, err := sr.String(rd, p); err != nil {
			return sum, err
		}
	}
	if sum, err := sr.Uint64(rd, &r.Start); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(rd, &r.End); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
