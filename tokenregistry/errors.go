package tokenregistry

import "errors"

var (
	// ErrEmptyTokenName is returned when a token is registered under an empty name.
	ErrEmptyTokenName = errors.New("token name is empty")
	// ErrTokenExists is returned when a token is registered under a name that is already taken.
	// Double-adds are rejected rather than overwritten: replacing an existing record would
	// orphan the reserves of any pool still pointing at the old instance.
	ErrTokenExists = errors.New("token already exists")
	// ErrBalanceOverflow is returned when a credit would overflow the uint64 balance.
	ErrBalanceOverflow = errors.New("token balance overflow")
	// ErrInsufficientBalance is returned when a debit exceeds the current balance.
	ErrInsufficientBalance = errors.New("insufficient token balance")
)
