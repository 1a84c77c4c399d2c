package spades

// MaxHandCards is the number of cards dealt to each seat.
const MaxHandCards = 13

const (
	// BidUnset marks a player who has not bid this round.
	BidUnset = -1
	// BidNil is a contract to win zero tricks.
	BidNil = 0
)

// Player is one seat's round-scoped state. Cumulative score and bags live
// on the Partnership, not here.
type Player struct {
	ID   string
	Name string
	Seat int

	hand   []Card
	Bid    int // BidUnset, BidNil, or 1..13
	Tricks int
}

func NewPlayer(id, name string, seat int) *Player {
	return &Player{ID: id, Name: name, Seat: seat, Bid: BidUnset}
}

// AddCard puts a dealt card into the hand.
func (p *Player) AddCard(c Card) error {
	if len(p.hand) >= MaxHandCards {
		return ErrHandFull
	}
	p.hand = append(p.hand, c)
	return nil
}

// RemoveCard removes the exact (rank, suit) card from the hand.
func (p *Player) RemoveCard(c Card) error {
	for i, h := range p.hand {
		if h == c {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return nil
		}
	}
	return ErrCardNotInHand
}

// FindCard resolves user card text against the hand. Unparseable text and
// cards the player does not hold both report ErrCardNotInHand.
func (p *Player) FindCard(text string) (Card, error) {
	c, ok := ParseCard(text)
	if !ok {
		return Card{}, ErrCardNotInHand
	}
	if !p.Holds(c) {
		return Card{}, ErrCardNotInHand
	}
	return c, nil
}

// Holds reports whether the exact card is in the hand.
func (p *Player) Holds(c Card) bool {
	for _, h := range p.hand {
		if h == c {
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand contains at least one card of s.
func (p *Player) HasSuit(s Suit) bool {
	for _, h := range p.hand {
		if h.Suit == s {
			return true
		}
	}
	return false
}

// OnlySpades reports whether every card left in the hand is a spade. Such
// a hand may lead spades even before they are broken.
func (p *Player) OnlySpades() bool {
	if len(p.hand) == 0 {
		return false
	}
	for _, h := range p.hand {
		if h.Suit != Spades {
			return false
		}
	}
	return true
}

// HandSize returns the number of cards left in the hand.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// Hand returns a copy of the hand.
func (p *Player) Hand() []Card {
	out := make([]Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// SetBid records the round bid. BidNil or 1..13.
func (p *Player) SetBid(v int) error {
	if v != BidNil && (v < 1 || v > MaxHandCards) {
		return ErrInvalidBid
	}
	p.Bid = v
	return nil
}

// ResetForRound clears hand, bid and trick count for a fresh deal.
func (p *Player) ResetForRound() {
	p.hand = nil
	p.Bid = BidUnset
	p.Tricks = 0
}
