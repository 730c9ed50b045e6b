package game

import "errors"

// Rule-engine rejections. All are local and recoverable: a transition that
// returns one of these leaves the state completely unmodified.
var (
	// ErrInvalidPlayer means the acting id holds no seat.
	ErrInvalidPlayer = errors.New("player not found")
	// ErrOutOfTurn means the acting seat is not the current turn holder.
	ErrOutOfTurn = errors.New("not your turn")
	// ErrWrongPhase means the action is not valid in the current phase.
	ErrWrongPhase = errors.New("game not in progress")
	// ErrCardNotFound means the named card is absent from the claimed source.
	ErrCardNotFound = errors.New("card not found")
	// ErrIllegalMove means the card was located but fails the match or
	// placement rule.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNoActiveJoker means a wish was submitted while the discard top is
	// not a joker.
	ErrNoActiveJoker = errors.New("no joker on discard pile")
)
