package exchange

import "errors"

var (
	// ErrTokenNotFound is returned when an operation references an unregistered token name.
	ErrTokenNotFound = errors.New("token not found")
	// ErrPoolNotFound is returned when an operation references an unregistered pool key.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolExists is returned when a pool is registered under a pair key that is already taken.
	ErrPoolExists = errors.New("pool already exists")
	// ErrWriteAccessRequired is returned when a mutating operation is invoked
	// with a read-only access flag. The system trusts the flag as supplied by
	// the caller; it performs no authorization of its own.
	ErrWriteAccessRequired = errors.New("write access required")
)
