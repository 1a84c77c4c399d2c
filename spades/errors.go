package spades

import "errors"

// The closed set of rule errors. A rejected action leaves all game state
// unchanged; none of these is fatal to the game.
var (
	ErrInvalidStateForAction = errors.New("action not valid in current game state")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrBiddingInactive       = errors.New("bidding is not active")
	ErrInvalidBid            = errors.New("bid must be 1-13 or nil")
	ErrCardNotInHand         = errors.New("card not in hand")
	ErrHandFull              = errors.New("hand already holds 13 cards")
	ErrSpadesNotBroken       = errors.New("spades have not been broken")
	ErrMustFollowSuit        = errors.New("must follow the led suit")
	ErrLobbyFull             = errors.New("table already seats 4 players")
	ErrAlreadySeated         = errors.New("player already seated at this table")
	ErrUnknownPlayer         = errors.New("player not seated at this table")
	ErrDeckExhausted         = errors.New("deck exhausted")
)
