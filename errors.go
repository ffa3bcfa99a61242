// errors.go defines the sentinel errors the engine reports for
// malformed external input. The engine never panics or exits on bad
// input from FEN strings, UCI commands or option values; callers match
// these with errors.Is/errors.As and report them however their
// interface sees fit.

package engine

import "errors"

var (
	// ErrMalformedFEN is wrapped with a specific reason by ParseFEN.
	ErrMalformedFEN = errors.New("malformed FEN")
	// ErrIllegalMove is returned when a move string does not name a
	// legal move in the current position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidOption is returned by SearchOptions validation and UCI
	// setoption handling for out-of-range or unknown values.
	ErrInvalidOption = errors.New("invalid option")
)

// AssertInvariants gates debug-only invariant panics (e.g. hash
// recomputation equality). It defaults to false so malformed external
// input never crashes a release build; nothing in the module sets it
// true.
var AssertInvariants = false
