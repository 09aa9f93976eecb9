package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrDuplicate        = errors.New("duplicate key")
)
