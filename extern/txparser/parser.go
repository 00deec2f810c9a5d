package txparser

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// errors
var (
	ErrArgumentCount       = errors.New("argument count mismatch")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidBigInt       = errors.New("invalid big.Int")
	ErrInvalidBool         = errors.New("invalid bool")
	ErrIntegerOverflow     = errors.New("integer overflow")
	ErrInvalidBytes        = errors.New("invalid bytes")
	ErrUnsupportedArgument = errors.New("argument type not supported yet")
)

const (
	TrueStr  = "true"
	FalseStr = "false"
)

// FuncSignature returns the hex encoded 4 byte selector of the signature ex"safeMint(address,string,string,string)"
func FuncSignature(fn string) string {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(fn))
	return hex.EncodeToString(hash.Sum(nil)[:4])
}

// ParseArgs converts positional string arguments into the go values the method inputs expect
func ParseArgs(method abi.Method, args []string) ([]interface{}, error) {
	if len(args) != len(method.Inputs) {
		return nil, errors.Wrapf(ErrArgumentCount, "method `%s` expects %d arguments, got %d", method.Name, len(method.Inputs), len(args))
	}
	abiArgs := make([]interface{}, 0, len(args))
	for i, input := range method.Inputs {
		arg, err := ParseArg(input.Type, args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d (%s %s)", i, input.Name, input.Type.String())
		}
		abiArgs = append(abiArgs, arg)
	}
	return abiArgs, nil
}

// ParseArg converts a string into the go value of the abi type
func ParseArg(t abi.Type, s string) (interface{}, error) {
	switch t.T {
	case abi.StringTy:
		return s, nil
	case abi.AddressTy:
		str := strings.TrimSpace(s)
		if !ecommon.IsHexAddress(str) {
			return nil, errors.Wrap(ErrInvalidAddress, s)
		}
		return ecommon.HexToAddress(str), nil
	case abi.BoolTy:
		if s != TrueStr && s != FalseStr {
			return nil, errors.Wrapf(ErrInvalidBool, "boolean argument has to be either \"%s\" or \"%s\"", TrueStr, FalseStr)
		}
		return s == TrueStr, nil
	case abi.IntTy:
		return parseInt(t.Size, s)
	case abi.UintTy:
		return parseUint(t.Size, s)
	case abi.FixedBytesTy:
		if t.Size != 32 {
			return nil, errors.WithStack(ErrUnsupportedArgument)
		}
		bs, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil || len(bs) > 32 {
			return nil, errors.Wrap(ErrInvalidBytes, s)
		}
		var out [32]byte
		copy(out[32-len(bs):], bs)
		return out, nil
	case abi.BytesTy:
		bs, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidBytes, s)
		}
		return bs, nil
	default:
		return nil, errors.Wrap(ErrUnsupportedArgument, t.String())
	}
}

func parseBig(signed bool, size int, s string) (*big.Int, error) {
	bi, success := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !success {
		return nil, errors.Wrap(ErrInvalidBigInt, s)
	}
	var min, max *big.Int
	if signed {
		max = new(big.Int).Lsh(big.NewInt(1), uint(size-1))
		min = new(big.Int).Neg(max)
	} else {
		max = new(big.Int).Lsh(big.NewInt(1), uint(size))
		min = big.NewInt(0)
	}
	// valid range is [min, max)
	if bi.Cmp(min) < 0 || bi.Cmp(max) >= 0 {
		if signed {
			return nil, errors.Wrap(ErrIntegerOverflow, fmt.Sprintf("int%d", size))
		}
		return nil, errors.Wrap(ErrIntegerOverflow, fmt.Sprintf("uint%d", size))
	}
	return bi, nil
}

func parseInt(size int, s string) (interface{}, error) {
	switch size {
	case 8, 16, 32, 64:
	default:
		return parseBig(true, size, s)
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	switch size {
	case 8:
		if val > math.MaxInt8 || val < math.MinInt8 {
			return nil, errors.Wrap(ErrIntegerOverflow, "int8")
		}
		return int8(val), nil
	case 16:
		if val > math.MaxInt16 || val < math.MinInt16 {
			return nil, errors.Wrap(ErrIntegerOverflow, "int16")
		}
		return int16(val), nil
	case 32:
		if val > math.MaxInt32 || val < math.MinInt32 {
			return nil, errors.Wrap(ErrIntegerOverflow, "int32")
		}
		return int32(val), nil
	default:
		return val, nil
	}
}

func parseUint(size int, s string) (interface{}, error) {
	switch size {
	case 8, 16, 32, 64:
	default:
		return parseBig(false, size, s)
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	switch size {
	case 8:
		if val > math.MaxUint8 {
			return nil, errors.Wrap(ErrIntegerOverflow, "uint8")
		}
		return uint8(val), nil
	case 16:
		if val > math.MaxUint16 {
			return nil, errors.Wrap(ErrIntegerOverflow, "uint16")
		}
		return uint16(val), nil
	case 32:
		if val > math.MaxUint32 {
			return nil, errors.Wrap(ErrIntegerOverflow, "uint32")
		}
		return uint32(val), nil
	default:
		return val, nil
	}
}
