package apiserver

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Argument parses rpc arguments
type Argument struct {
	args []interface{}
}

// NewArgument returns a Argument
func NewArgument(args []interface{}) *Argument {
	arg := &Argument{
		args: args,
	}
	return arg
}

// Len returns length of arguments
func (arg *Argument) Len() int {
	return len(arg.args)
}

func (arg *Argument) get(index int) (interface{}, error) {
	if index < 0 || index >= len(arg.args) {
		return nil, errors.WithStack(ErrInvalidArgumentIndex)
	}
	a := arg.args[index]
	if a == nil {
		return nil, errors.WithStack(ErrInvalidArgumentType)
	}
	return a, nil
}

// Int returns a int value of the index
func (arg *Argument) Int(index int) (int, error) {
	a, err := arg.get(index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(fmt.Sprintf("%v", a), 10, 32)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int(n), nil
}

// Uint64 returns a uint64 value of the index
func (arg *Argument) Uint64(index int) (uint64, error) {
	a, err := arg.get(index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(fmt.Sprintf("%v", a), 10, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return n, nil
}

// Bool returns a bool value of the index
func (arg *Argument) Bool(index int) (bool, error) {
	a, err := arg.get(index)
	if err != nil {
		return false, err
	}
	if b, ok := a.(bool); ok {
		return b, nil
	}
	b, err := strconv.ParseBool(fmt.Sprintf("%v", a))
	if err != nil {
		return false, errors.WithStack(ErrInvalidArgumentType)
	}
	return b, nil
}

// String returns a string value of the index
func (arg *Argument) String(index int) (string, error) {
	a, err := arg.get(index)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", a), nil
}

// Strings returns the string values from the index to the end
// a single array argument at the index is expanded
func (arg *Argument) Strings(index int) ([]string, error) {
	if index < 0 || index > len(arg.args) {
		return nil, errors.WithStack(ErrInvalidArgumentIndex)
	}
	if index == len(arg.args)-1 && arg.args[index] != nil && reflect.TypeOf(arg.args[index]).Kind() == reflect.Slice {
		list, err := arg.Array(index)
		if err != nil {
			return nil, err
		}
		return NewArgument(list).Strings(0)
	}
	list := make([]string, 0, len(arg.args)-index)
	for i := index; i < len(arg.args); i++ {
		s, err := arg.String(i)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// Array returns a array value of the index
func (arg *Argument) Array(index int) ([]interface{}, error) {
	a, err := arg.get(index)
	if err != nil {
		return nil, err
	}
	switch reflect.TypeOf(a).Kind() {
	case reflect.Slice:
		s := reflect.ValueOf(a)

		r := []interface{}{}
		for i := 0; i < s.Len(); i++ {
			r = append(r, s.Index(i).Interface())
		}
		return r, nil
	}
	return nil, errors.WithStack(ErrInvalidArgumentType)
}
