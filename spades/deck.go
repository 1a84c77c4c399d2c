package spades

import (
	"math/rand"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck owns the 52 cards of one round. It is rebuilt fresh at the start
// of every round and drained to zero by dealing.
type Deck struct {
	cards []Card
}

// NewDeck returns the standard deck, one card per (rank, suit) pair, in
// deterministic order.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the undealt cards uniformly.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card, or ErrDeckExhausted once all 52
// cards are gone.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Remaining reports how many cards have not been dealt.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
