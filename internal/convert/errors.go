package convert

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Structural errors. The input does not match the documented column set at
// all, so there is no meaningful per-row recovery; batch operations return
// these instead of skipping.
var (
	ErrUnknownColumn = eris.New("unknown column")
	ErrMalformedRow  = eris.New("malformed row")
)

// Data-quality errors. Row-local: the offending row is skipped and counted,
// the batch continues.
var (
	ErrBadCoordinate = eris.New("bad coordinate")
	ErrBadTimestamp  = eris.New("bad timestamp")
	ErrBadIdentifier = eris.New("bad identifier")
)

// isRowError reports whether err is recoverable by skipping the row.
func isRowError(err error) bool {
	return errors.Is(err, ErrBadCoordinate) ||
		errors.Is(err, ErrBadTimestamp) ||
		errors.Is(err, ErrBadIdentifier)
}
