package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by stores on a unique-constraint conflict.
	ErrDuplicate = errors.New("record already exists")
)
