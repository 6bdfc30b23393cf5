package board

import "errors"

// Move rejection reasons. Boolean commands collapse these to false; the
// error-returning variants wrap them with the offending squares.
var (
	ErrOutOfRange           = errors.New("coordinate out of range")
	ErrSameSquare           = errors.New("source and destination are the same square")
	ErrNoPiece              = errors.New("no piece at source")
	ErrWrongTurn            = errors.New("piece does not belong to the side to move")
	ErrIllegalForPiece      = errors.New("destination not reachable for piece")
	ErrCastlingPrecondition = errors.New("castling preconditions not met")
	ErrInvalidPromotion     = errors.New("invalid promotion")
)
