package spades

import (
	"testing"
)

func TestTrick_Winner_HighestSpade(t *testing.T) {
	// 2C led, K-spade and A-spade ruff in, 9C follows: the ace of spades
	// takes it regardless of the led suit.
	trick := &Trick{}
	trick.add(0, Card{Two, Clubs})
	trick.add(1, Card{King, Spades})
	trick.add(2, Card{Ace, Spades})
	trick.add(3, Card{Nine, Clubs})

	win := trick.winner()
	if win.Seat != 2 {
		t.Errorf("Expected seat 2 to win with AS, got seat %d (%v)", win.Seat, win.Card)
	}
}

func TestTrick_Winner_LedSuit(t *testing.T) {
	trick := &Trick{}
	trick.add(0, Card{Seven, Hearts})
	trick.add(1, Card{Ace, Clubs})
	trick.add(2, Card{Jack, Hearts})
	trick.add(3, Card{Two, Hearts})

	win := trick.winner()
	if win.Seat != 2 {
		t.Errorf("Expected JH to win over off-suit AC, got seat %d (%v)", win.Seat, win.Card)
	}
}

func TestTrick_Winner_OffSuitNeverWins(t *testing.T) {
	trick := &Trick{}
	trick.add(0, Card{Two, Diamonds})
	trick.add(1, Card{Ace, Hearts})
	trick.add(2, Card{King, Clubs})
	trick.add(3, Card{Three, Diamonds})

	win := trick.winner()
	if win.Seat != 3 {
		t.Errorf("Expected 3D to win, got seat %d (%v)", win.Seat, win.Card)
	}
}

func TestValidatePlay_SpadeLead(t *testing.T) {
	p := NewPlayer("p1", "Alice", 0)
	p.AddCard(Card{Ace, Spades})
	p.AddCard(Card{Two, Hearts})

	trick := &Trick{}
	err := validatePlay(trick, p, Card{Ace, Spades}, false)
	if err != ErrSpadesNotBroken {
		t.Errorf("Expected ErrSpadesNotBroken, got %v", err)
	}

	// Broken spades may be led.
	if err := validatePlay(trick, p, Card{Ace, Spades}, true); err != nil {
		t.Errorf("Spade lead should be legal once broken: %v", err)
	}

	// Non-spade lead is always fine.
	if err := validatePlay(trick, p, Card{Two, Hearts}, false); err != nil {
		t.Errorf("Heart lead should be legal: %v", err)
	}
}

func TestValidatePlay_AllSpadesHandMayLead(t *testing.T) {
	p := NewPlayer("p1", "Alice", 0)
	p.AddCard(Card{Ace, Spades})
	p.AddCard(Card{Two, Spades})

	trick := &Trick{}
	if err := validatePlay(trick, p, Card{Ace, Spades}, false); err != nil {
		t.Errorf("All-spade hand should lead spades even unbroken: %v", err)
	}
}

func TestValidatePlay_MustFollowSuit(t *testing.T) {
	leader := NewPlayer("p0", "Bob", 0)
	leader.AddCard(Card{Seven, Hearts})

	p := NewPlayer("p1", "Alice", 1)
	p.AddCard(Card{Two, Hearts})
	p.AddCard(Card{Ace, Clubs})

	trick := &Trick{}
	trick.add(0, Card{Seven, Hearts})

	if err := validatePlay(trick, p, Card{Ace, Clubs}, true); err != ErrMustFollowSuit {
		t.Errorf("Expected ErrMustFollowSuit, got %v", err)
	}
	if err := validatePlay(trick, p, Card{Two, Hearts}, true); err != nil {
		t.Errorf("Following suit should be legal: %v", err)
	}
}

func TestValidatePlay_VoidInLedSuit(t *testing.T) {
	p := NewPlayer("p1", "Alice", 1)
	p.AddCard(Card{Ace, Clubs})
	p.AddCard(Card{King, Spades})

	trick := &Trick{}
	trick.add(0, Card{Seven, Hearts})

	// No hearts in hand: any suit goes, including a spade ruff.
	if err := validatePlay(trick, p, Card{Ace, Clubs}, false); err != nil {
		t.Errorf("Off-suit discard should be legal when void: %v", err)
	}
	if err := validatePlay(trick, p, Card{King, Spades}, false); err != nil {
		t.Errorf("Spade ruff should be legal when void: %v", err)
	}
}
