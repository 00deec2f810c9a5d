package backend

import "errors"

// errors
var (
	ErrNotExistDriver = errors.New("not exist driver")
	ErrNotExistKey    = errors.New("not exist key")
	ErrStoreClosed    = errors.New("store closed")
)
