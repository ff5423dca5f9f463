package domain

import "errors"

var (
	ErrViewNotFound    = errors.New("view not found")
	ErrUnknownViewKind = errors.New("unknown view kind")
)
