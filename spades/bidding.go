package spades

import (
	"strconv"
	"strings"
)

// ParseBid normalizes raw bid text: an integer 1..13, or the word "nil"
// in any case for a nil bid. "0" is not a valid way to bid nil.
func ParseBid(raw string) (int, error) {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "nil" {
		return BidNil, nil
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 1 || n > MaxHandCards {
		return 0, ErrInvalidBid
	}
	return n, nil
}

// SubmitBid records the bid for the seat whose turn it is and returns the
// normalized value (0 for nil). The fourth accepted bid moves the round
// to playing, with the seat left of the dealer leading the first trick.
func (g *Game) SubmitBid(playerID, raw string) (int, error) {
	if g.state != StateBidding {
		return 0, ErrBiddingInactive
	}
	p, ok := g.playerByID(playerID)
	if !ok {
		return 0, ErrUnknownPlayer
	}
	if p.Seat != g.bidderSeat {
		return 0, ErrNotYourTurn
	}
	bid, err := ParseBid(raw)
	if err != nil {
		return 0, err
	}
	if err := p.SetBid(bid); err != nil {
		return 0, err
	}

	g.bidsTaken++
	if bid == BidNil {
		g.notifier.Announce(p.Name + " bids nil")
	} else {
		g.notifier.Announce(p.Name + " bids " + strconv.Itoa(bid))
	}

	if g.bidsTaken < NumSeats {
		g.bidderSeat = nextSeat(g.bidderSeat)
		g.notifier.Notify(g.players[g.bidderSeat].ID, "your bid (1-13 or nil)?")
		return bid, nil
	}

	g.state = StatePlaying
	g.turnSeat = nextSeat(g.dealer)
	g.notifier.Announce("all bids are in; " + g.players[g.turnSeat].Name + " leads")
	g.notifier.Notify(g.players[g.turnSeat].ID, "your lead")
	return bid, nil
}
