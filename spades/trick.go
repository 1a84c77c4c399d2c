package spades

// Play is one (seat, card) entry in the current trick.
type Play struct {
	Seat int
	Card Card
}

// Trick accumulates up to four ordered plays. The first play fixes the
// led suit for the trick.
type Trick struct {
	plays   []Play
	ledSuit Suit
}

func (t *Trick) Len() int {
	return len(t.plays)
}

func (t *Trick) Empty() bool {
	return len(t.plays) == 0
}

// LedSuit returns the suit of the first play, if any play has been made.
func (t *Trick) LedSuit() (Suit, bool) {
	if len(t.plays) == 0 {
		return 0, false
	}
	return t.ledSuit, true
}

// Plays returns a copy of the plays so far, in play order.
func (t *Trick) Plays() []Play {
	out := make([]Play, len(t.plays))
	copy(out, t.plays)
	return out
}

func (t *Trick) add(seat int, c Card) {
	if len(t.plays) == 0 {
		t.ledSuit = c.Suit
	}
	t.plays = append(t.plays, Play{Seat: seat, Card: c})
}

// winner returns the winning play of a complete trick. A spade beats any
// non-spade; otherwise only cards of the led suit compete, higher rank
// winning. Ties are impossible since no duplicate cards exist.
func (t *Trick) winner() Play {
	best := t.plays[0]
	for _, p := range t.plays[1:] {
		if beats(p.Card, best.Card, t.ledSuit) {
			best = p
		}
	}
	return best
}

func beats(a, b Card, led Suit) bool {
	switch {
	case a.Suit == Spades && b.Suit == Spades:
		return a.Rank > b.Rank
	case a.Suit == Spades:
		return true
	case b.Suit == Spades:
		return false
	case a.Suit == led && b.Suit == led:
		return a.Rank > b.Rank
	case a.Suit == led:
		return true
	default:
		// Neither a spade nor of the led suit can never win.
		return false
	}
}

// validatePlay checks lead/follow legality of c for the given player.
// It never mutates anything.
func validatePlay(t *Trick, p *Player, c Card, spadesBroken bool) error {
	if t.Empty() {
		// A player whose whole hand is spades may lead them at any time.
		if c.Suit == Spades && !spadesBroken && !p.OnlySpades() {
			return ErrSpadesNotBroken
		}
		return nil
	}
	if c.Suit != t.ledSuit && p.HasSuit(t.ledSuit) {
		return ErrMustFollowSuit
	}
	return nil
}
