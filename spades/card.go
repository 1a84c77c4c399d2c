package spades

import (
	"strconv"
	"strings"
)

// Suit identifies one of the four french suits. Spades is the permanent
// trump suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	case Spades:
		return "Spades"
	}
	return "Unknown"
}

// Rank is the ordinal card value, Two (2) through Ace (14).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

func (r Rank) String() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	return strconv.Itoa(int(r))
}

// Card is an immutable (rank, suit) value. Two cards are the same card
// exactly when both fields are equal.
type Card struct {
	Rank Rank
	Suit Suit
}

var suitLetters = [4]string{"C", "D", "H", "S"}

func (c Card) String() string {
	return c.Rank.String() + suitLetters[c.Suit]
}

// ParseCard resolves user card text such as "AS", "10h", "th" or "q♦".
// Parsing is case-insensitive and ignores surrounding whitespace.
func ParseCard(text string) (Card, bool) {
	t := strings.ToUpper(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, " ", "")
	runes := []rune(t)
	if len(runes) < 2 {
		return Card{}, false
	}

	var suit Suit
	switch runes[len(runes)-1] {
	case 'C', '♣':
		suit = Clubs
	case 'D', '♦':
		suit = Diamonds
	case 'H', '♥':
		suit = Hearts
	case 'S', '♠':
		suit = Spades
	default:
		return Card{}, false
	}

	var rank Rank
	switch rankText := string(runes[:len(runes)-1]); rankText {
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		n, err := strconv.Atoi(rankText)
		if err != nil || n < 2 || n > 9 {
			return Card{}, false
		}
		rank = Rank(n)
	}

	return Card{Rank: rank, Suit: suit}, true
}
