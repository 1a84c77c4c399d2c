package spades

import (
	"strings"
	"testing"
)

// recordingNotifier captures announcements and private notifications.
type recordingNotifier struct {
	announcements []string
	private       map[string][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{private: make(map[string][]string)}
}

func (n *recordingNotifier) Announce(text string) {
	n.announcements = append(n.announcements, text)
}

func (n *recordingNotifier) Notify(playerID, text string) {
	n.private[playerID] = append(n.private[playerID], text)
}

func (n *recordingNotifier) countAnnounced(substr string) int {
	count := 0
	for _, a := range n.announcements {
		if strings.Contains(a, substr) {
			count++
		}
	}
	return count
}

// newSeatedGame creates a game with four players seated, which deals the
// first round and opens bidding.
func newSeatedGame(t *testing.T, target int) (*Game, *recordingNotifier) {
	t.Helper()
	n := newRecordingNotifier()
	g := NewGame("test-game", target, n)
	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		seat, err := g.AddPlayer(id, id)
		if err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", id, err)
		}
		if seat != i {
			t.Fatalf("Expected seat %d for %s, got %d", i, id, seat)
		}
	}
	return g, n
}

// rigHands gives each seat a full 13-card run of a single suit and empties
// the deck: seat 0 clubs, 1 diamonds, 2 hearts, 3 spades. With dealer 0,
// seat 1 leads every trick is then won by seat 3's spade.
func rigHands(g *Game) {
	suits := [4]Suit{Clubs, Diamonds, Hearts, Spades}
	for i, p := range g.players {
		p.hand = nil
		for r := Two; r <= Ace; r++ {
			p.hand = append(p.hand, Card{Rank: r, Suit: suits[i]})
		}
	}
	g.deck = &Deck{}
}

// bidAll submits the four bids in turn order (seats 1,2,3,0 for dealer 0).
func bidAll(t *testing.T, g *Game, bySeat [4]string) {
	t.Helper()
	for i := 0; i < NumSeats; i++ {
		seat, ok := g.TurnSeat()
		if !ok {
			t.Fatalf("No active bidder while bidding")
		}
		p := g.players[seat]
		if _, err := g.SubmitBid(p.ID, bySeat[seat]); err != nil {
			t.Fatalf("SubmitBid(%s, %q) failed: %v", p.ID, bySeat[seat], err)
		}
	}
}

// playOutRound plays every player's lowest remaining card until the round
// completes.
func playOutRound(t *testing.T, g *Game) {
	t.Helper()
	for g.state == StatePlaying {
		seat, ok := g.TurnSeat()
		if !ok {
			t.Fatal("No active seat while playing")
		}
		p := g.players[seat]
		card := p.Hand()[0]
		if _, err := g.PlayCard(p.ID, card.String()); err != nil {
			t.Fatalf("PlayCard(%s, %s) failed: %v", p.ID, card, err)
		}
	}
}

func TestGame_DealInvariant(t *testing.T) {
	g, _ := newSeatedGame(t, 0)

	if g.State() != StateBidding {
		t.Fatalf("Expected bidding after 4 joins, got %v", g.State())
	}
	if g.CardsInPlay() != DeckSize {
		t.Errorf("Expected 52 cards in play, got %d", g.CardsInPlay())
	}

	seen := make(map[Card]bool)
	for _, p := range g.Players() {
		if p.HandSize() != MaxHandCards {
			t.Errorf("Seat %d dealt %d cards, want %d", p.Seat, p.HandSize(), MaxHandCards)
		}
		for _, c := range p.Hand() {
			if seen[c] {
				t.Errorf("Card %v dealt twice", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != DeckSize {
		t.Errorf("Expected %d distinct dealt cards, got %d", DeckSize, len(seen))
	}
	if g.deck.Remaining() != 0 {
		t.Errorf("Deck should be drained after dealing, %d left", g.deck.Remaining())
	}
}

func TestGame_AddPlayer_LobbyFull(t *testing.T) {
	g, _ := newSeatedGame(t, 0)

	if _, err := g.AddPlayer("p4", "p4"); err != ErrLobbyFull {
		t.Errorf("Expected ErrLobbyFull for 5th join, got %v", err)
	}
}

func TestGame_AddPlayer_Duplicate(t *testing.T) {
	g := NewGame("test-game", 0, nil)
	g.AddPlayer("p0", "p0")

	if _, err := g.AddPlayer("p0", "p0 again"); err != ErrAlreadySeated {
		t.Errorf("Expected ErrAlreadySeated, got %v", err)
	}
}

func TestGame_Bidding_TurnOrder(t *testing.T) {
	g, _ := newSeatedGame(t, 0)

	// Dealer is seat 0, so bidding starts at seat 1.
	if seat, _ := g.TurnSeat(); seat != 1 {
		t.Fatalf("Expected seat 1 to bid first, got %d", seat)
	}

	if _, err := g.SubmitBid("p0", "3"); err != ErrNotYourTurn {
		t.Errorf("Out-of-turn bid should fail with ErrNotYourTurn, got %v", err)
	}
	if _, err := g.SubmitBid("p1", "3"); err != nil {
		t.Fatalf("In-turn bid failed: %v", err)
	}

	// Resubmission after the turn advanced.
	if _, err := g.SubmitBid("p1", "3"); err != ErrNotYourTurn {
		t.Errorf("Resubmitted bid should fail with ErrNotYourTurn, got %v", err)
	}
}

func TestGame_Bidding_Domain(t *testing.T) {
	g, _ := newSeatedGame(t, 0)

	for _, raw := range []string{"0", "14", "-1", "seven", ""} {
		if _, err := g.SubmitBid("p1", raw); err != ErrInvalidBid {
			t.Errorf("Bid %q should fail with ErrInvalidBid, got %v", raw, err)
		}
	}

	bid, err := g.SubmitBid("p1", "NIL")
	if err != nil {
		t.Fatalf("Nil bid failed: %v", err)
	}
	if bid != BidNil {
		t.Errorf("Expected normalized bid 0 for nil, got %d", bid)
	}
}

func TestGame_Bidding_TransitionToPlaying(t *testing.T) {
	g, _ := newSeatedGame(t, 0)
	bidAll(t, g, [4]string{"2", "3", "2", "3"})

	if g.State() != StatePlaying {
		t.Fatalf("Expected playing after 4 bids, got %v", g.State())
	}
	// Lead is fixed as the seat left of the dealer.
	if seat, _ := g.TurnSeat(); seat != 1 {
		t.Errorf("Expected seat 1 to lead, got %d", seat)
	}

	if _, err := g.SubmitBid("p1", "3"); err != ErrBiddingInactive {
		t.Errorf("Bid after bidding closed should fail, got %v", err)
	}
}

func TestGame_PlayCard_WrongPhase(t *testing.T) {
	g, _ := newSeatedGame(t, 0)

	if _, err := g.PlayCard("p1", "AS"); err != ErrInvalidStateForAction {
		t.Errorf("Play during bidding should fail with ErrInvalidStateForAction, got %v", err)
	}
}

func TestGame_ScriptedRound(t *testing.T) {
	g, n := newSeatedGame(t, 0)
	rigHands(g)
	bidAll(t, g, [4]string{"2", "3", "2", "10"})

	// Seat 1 leads diamonds, seat 2 discards hearts, seat 3 ruffs with a
	// spade, seat 0 discards clubs. Seat 3 wins all 13 tricks.
	playOutRound(t, g)

	if g.Round() != 2 {
		t.Fatalf("Expected round 2 after settlement, got %d", g.Round())
	}
	if g.State() != StateBidding {
		t.Fatalf("Expected a fresh bidding phase, got %v", g.State())
	}
	if g.Dealer() != 1 {
		t.Errorf("Expected dealer rotated to seat 1, got %d", g.Dealer())
	}

	ps := g.Partnerships()
	// Partnership 1 (seats 0, 2) bid 4, took nothing: -40.
	if ps[0].Score != -40 {
		t.Errorf("Expected partnership 1 at -40, got %d", ps[0].Score)
	}
	// Partnership 2 (seats 1, 3) bid 13, took 13: +130, no bags.
	if ps[1].Score != 130 {
		t.Errorf("Expected partnership 2 at +130, got %d", ps[1].Score)
	}
	if ps[1].Bags != 0 {
		t.Errorf("Expected no bags for an exact contract, got %d", ps[1].Bags)
	}

	if n.countAnnounced("spades are broken") != 1 {
		t.Errorf("Expected exactly one spades-broken announcement, got %d",
			n.countAnnounced("spades are broken"))
	}
}

func TestGame_SpadeLeadRejected(t *testing.T) {
	g, _ := newSeatedGame(t, 0)
	rigHands(g)
	// Seat 1 holds the ace of spades in place of a diamond.
	g.players[1].hand[12] = Card{Ace, Spades}
	bidAll(t, g, [4]string{"2", "3", "2", "6"})

	if _, err := g.PlayCard("p1", "AS"); err != ErrSpadesNotBroken {
		t.Fatalf("Expected ErrSpadesNotBroken, got %v", err)
	}
	// State unchanged: still seat 1's turn, hand intact.
	if seat, _ := g.TurnSeat(); seat != 1 {
		t.Errorf("Rejected play should not advance the turn, seat now %d", seat)
	}
	if g.players[1].HandSize() != MaxHandCards {
		t.Errorf("Rejected play should not remove the card")
	}

	// A legal diamond lead still works.
	if _, err := g.PlayCard("p1", "2D"); err != nil {
		t.Errorf("Legal lead failed after rejection: %v", err)
	}
}

func TestGame_MustFollowSuit(t *testing.T) {
	g, _ := newSeatedGame(t, 0)
	rigHands(g)
	// Seat 2 holds one diamond among the hearts.
	g.players[2].hand[0] = Card{Two, Diamonds}
	bidAll(t, g, [4]string{"2", "3", "2", "6"})

	if _, err := g.PlayCard("p1", "3D"); err != nil {
		t.Fatalf("Lead failed: %v", err)
	}
	if _, err := g.PlayCard("p2", "3H"); err != ErrMustFollowSuit {
		t.Fatalf("Expected ErrMustFollowSuit, got %v", err)
	}
	if _, err := g.PlayCard("p2", "2D"); err != nil {
		t.Errorf("Following suit failed: %v", err)
	}
}

func TestGame_TrickResult(t *testing.T) {
	g, _ := newSeatedGame(t, 0)
	rigHands(g)
	bidAll(t, g, [4]string{"2", "3", "2", "10"})

	for _, play := range []struct{ id, card string }{
		{"p1", "2D"}, {"p2", "2H"},
	} {
		if _, err := g.PlayCard(play.id, play.card); err != nil {
			t.Fatalf("PlayCard(%s, %s) failed: %v", play.id, play.card, err)
		}
	}

	res, err := g.PlayCard("p3", "2S")
	if err != nil {
		t.Fatalf("Spade ruff failed: %v", err)
	}
	if !res.SpadesBroken {
		t.Error("First spade on a non-spade trick should break spades")
	}

	res, err = g.PlayCard("p0", "2C")
	if err != nil {
		t.Fatalf("Final play of trick failed: %v", err)
	}
	if !res.TrickDone {
		t.Fatal("Fourth play should complete the trick")
	}
	if res.WinnerSeat != 3 || res.WinnerID != "p3" {
		t.Errorf("Expected seat 3 to win the trick, got seat %d (%s)", res.WinnerSeat, res.WinnerID)
	}
	// Winner leads the next trick.
	if seat, _ := g.TurnSeat(); seat != 3 {
		t.Errorf("Expected winner to lead next, got seat %d", seat)
	}
	if len(g.CurrentTrick()) != 0 {
		t.Errorf("Trick should be cleared after resolution")
	}
}

func TestGame_GameEnd(t *testing.T) {
	g, n := newSeatedGame(t, 500)
	rigHands(g)
	g.partnerships[1].Score = 480
	bidAll(t, g, [4]string{"2", "3", "2", "10"})

	playOutRound(t, g)

	if g.State() != StateGameEnd {
		t.Fatalf("Expected game end at 610 points, got %v", g.State())
	}
	if got := g.Partnerships()[1].Score; got != 610 {
		t.Errorf("Expected 610 points, got %d", got)
	}
	if n.countAnnounced("partnership 2 wins") != 1 {
		t.Errorf("Expected a winner announcement for partnership 2")
	}

	// Terminal: nothing is accepted any more.
	if _, err := g.PlayCard("p3", "AS"); err != ErrInvalidStateForAction {
		t.Errorf("Play after game end should fail, got %v", err)
	}
	if _, err := g.SubmitBid("p3", "3"); err != ErrBiddingInactive {
		t.Errorf("Bid after game end should fail, got %v", err)
	}
	if _, err := g.AddPlayer("p9", "p9"); err != ErrLobbyFull {
		t.Errorf("Join after game end should fail, got %v", err)
	}
}

func TestGame_AbortTerminatesGame(t *testing.T) {
	g, n := newSeatedGame(t, 0)

	if err := g.abortGame(ErrDeckExhausted); err != ErrDeckExhausted {
		t.Fatalf("Expected abort to return its cause, got %v", err)
	}

	if g.State() != StateGameEnd {
		t.Fatalf("Expected game end after abort, got %v", g.State())
	}
	if n.countAnnounced("aborted") != 1 {
		t.Errorf("Expected an abort announcement")
	}

	// Terminal like a normal game end: nothing is accepted any more.
	if _, err := g.SubmitBid("p1", "3"); err != ErrBiddingInactive {
		t.Errorf("Bid after abort should fail, got %v", err)
	}
	if _, err := g.PlayCard("p1", "AD"); err != ErrInvalidStateForAction {
		t.Errorf("Play after abort should fail, got %v", err)
	}
}

func TestGame_Tie(t *testing.T) {
	g, n := newSeatedGame(t, 100)
	rigHands(g)
	// Both sides land on exactly 130 after the round.
	g.partnerships[0].Score = 170
	// Partnership 1 bids 4 and takes 0: -40 => 130.
	// Partnership 2 bids 13 and takes 13: +130 => 130.
	bidAll(t, g, [4]string{"2", "3", "2", "10"})

	playOutRound(t, g)

	if g.State() != StateGameEnd {
		t.Fatalf("Expected game end, got %v", g.State())
	}
	if n.countAnnounced("tied") != 1 {
		t.Errorf("Expected a tie announcement, got %v", n.announcements[len(n.announcements)-1])
	}
}

func TestGame_CardCountInvariantDuringPlay(t *testing.T) {
	g, _ := newSeatedGame(t, 0)
	bidAll(t, g, [4]string{"3", "3", "3", "3"})

	// Play two full tricks of legal cards; before the round's last card
	// the total across hands, trick and deck must stay 52... minus the
	// cards already gathered into completed tricks.
	played := 0
	for trick := 0; trick < 2; trick++ {
		for i := 0; i < NumSeats; i++ {
			seat, _ := g.TurnSeat()
			p := g.players[seat]
			card := legalCardFor(g, p)
			if _, err := g.PlayCard(p.ID, card.String()); err != nil {
				t.Fatalf("PlayCard(%s, %s) failed: %v", p.ID, card, err)
			}
			played++
			if trickLen := len(g.CurrentTrick()); trickLen > 0 {
				if got := g.CardsInPlay() + played - trickLen; got != DeckSize {
					t.Fatalf("Card count invariant broken mid-trick: %d", got)
				}
			}
		}
	}
}

// legalCardFor picks any card the engine will accept for p's turn.
func legalCardFor(g *Game, p *Player) Card {
	for _, c := range p.Hand() {
		if validatePlay(&g.trick, p, c, g.spadesBroken) == nil {
			return c
		}
	}
	// Unreachable: a hand always has at least one legal play.
	return p.Hand()[0]
}
