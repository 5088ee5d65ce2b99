package exchange

// Access mirrors the caller-write-access flag carried by every external call.
// The entry layer decides what a caller may do; the system only honors the
// flag it is handed.
type Access uint8

const (
	// ReadAccess permits balance, price, and view queries.
	ReadAccess Access = iota
	// WriteAccess additionally permits token/pool registration, deposits, and swaps.
	WriteAccess
)

// CanWrite reports whether mutating operations are permitted.
func (a Access) CanWrite() bool {
	return a == WriteAccess
}

func (a Access) String() string {
	if a.CanWrite() {
		return "write"
	}
	return "read"
}
