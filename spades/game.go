package spades

import (
	"fmt"
	"sort"
	"strings"
)

// GameState is the closed set of phases a game moves through. It is
// mutated only by the controller's own transitions.
type GameState int

const (
	StateLobby GameState = iota
	StateBidding
	StatePlaying
	StateRoundEnd
	StateGameEnd
)

func (s GameState) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateBidding:
		return "bidding"
	case StatePlaying:
		return "playing"
	case StateRoundEnd:
		return "round_end"
	case StateGameEnd:
		return "game_end"
	}
	return "unknown"
}

// NumSeats is the fixed player count of a partnership game.
const NumSeats = 4

// DefaultTargetScore ends the game once a partnership reaches it.
const DefaultTargetScore = 500

// Game is one independent Spades game: four seats, two partnerships, the
// round/trick state machine and contract scoring. Mutating calls are
// expected one at a time; a rejected call leaves every field untouched.
// The game performs no I/O beyond the injected Notifier.
type Game struct {
	ID string

	state        GameState
	players      []*Player
	partnerships [2]*Partnership
	deck         *Deck
	dealer       int

	bidderSeat int
	bidsTaken  int

	trick        Trick
	turnSeat     int
	spadesBroken bool
	tricksPlayed int

	round       int
	targetScore int
	notifier    Notifier
}

// NewGame creates an empty table. targetScore <= 0 selects the default of
// 500; a nil notifier discards all notifications.
func NewGame(id string, targetScore int, n Notifier) *Game {
	if targetScore <= 0 {
		targetScore = DefaultTargetScore
	}
	if n == nil {
		n = NopNotifier{}
	}
	return &Game{
		ID:    id,
		state: StateLobby,
		partnerships: [2]*Partnership{
			{ID: 1, Seats: [2]int{0, 2}},
			{ID: 2, Seats: [2]int{1, 3}},
		},
		targetScore: targetScore,
		notifier:    n,
	}
}

func (g *Game) State() GameState { return g.state }
func (g *Game) Round() int       { return g.round }
func (g *Game) TargetScore() int { return g.targetScore }
func (g *Game) Dealer() int      { return g.dealer }
func (g *Game) SpadesBroken() bool {
	return g.spadesBroken
}

// Players returns the seated players in seat order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Partnerships returns copies of both partnership aggregates.
func (g *Game) Partnerships() [2]Partnership {
	return [2]Partnership{*g.partnerships[0], *g.partnerships[1]}
}

// CurrentTrick returns the plays made so far in the trick in progress.
func (g *Game) CurrentTrick() []Play {
	return g.trick.Plays()
}

// TurnSeat returns the seat whose action is due, if the game is in a
// phase with an active turn.
func (g *Game) TurnSeat() (int, bool) {
	switch g.state {
	case StateBidding:
		return g.bidderSeat, true
	case StatePlaying:
		return g.turnSeat, true
	}
	return 0, false
}

func (g *Game) playerByID(id string) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PlayerByID looks up a seated player.
func (g *Game) PlayerByID(id string) (*Player, bool) {
	return g.playerByID(id)
}

func nextSeat(s int) int {
	return (s + 1) % NumSeats
}

// AddPlayer seats a new player and returns the seat index. The fourth
// join deals the first round and opens bidding.
func (g *Game) AddPlayer(id, name string) (int, error) {
	if g.state != StateLobby {
		return 0, ErrLobbyFull
	}
	if len(g.players) >= NumSeats {
		return 0, ErrLobbyFull
	}
	if _, ok := g.playerByID(id); ok {
		return 0, ErrAlreadySeated
	}

	seat := len(g.players)
	g.players = append(g.players, NewPlayer(id, name, seat))
	g.notifier.Announce(fmt.Sprintf("%s sits at seat %d", name, seat))

	if len(g.players) == NumSeats {
		if err := g.startRound(); err != nil {
			return seat, err
		}
	}
	return seat, nil
}

// startRound rebuilds and shuffles the deck, deals 13 cards to each seat
// and opens bidding left of the dealer.
func (g *Game) startRound() error {
	g.deck = NewDeck()
	g.deck.Shuffle()
	for _, p := range g.players {
		p.ResetForRound()
	}
	g.trick = Trick{}
	g.spadesBroken = false
	g.tricksPlayed = 0

	for i := 0; i < MaxHandCards; i++ {
		for _, p := range g.players {
			c, err := g.deck.Deal()
			if err != nil {
				return g.abortGame(err)
			}
			if err := p.AddCard(c); err != nil {
				return g.abortGame(err)
			}
		}
	}

	g.round++
	g.state = StateBidding
	g.bidderSeat = nextSeat(g.dealer)
	g.bidsTaken = 0

	g.notifier.Announce(fmt.Sprintf("round %d: %s deals, bidding starts with %s",
		g.round, g.players[g.dealer].Name, g.players[g.bidderSeat].Name))
	for _, p := range g.players {
		g.notifier.Notify(p.ID, "your hand: "+formatHand(p.Hand()))
	}
	g.notifier.Notify(g.players[g.bidderSeat].ID, "your bid (1-13 or nil)?")
	return nil
}

// abortGame handles invariant violations that should never occur given
// the per-round deck rebuild (e.g. dealing past 52 cards). The game is
// terminated rather than left in an inconsistent round.
func (g *Game) abortGame(cause error) error {
	g.state = StateGameEnd
	g.notifier.Announce("game aborted: internal error")
	return cause
}

// PlayResult reports an accepted play and, when it completed a trick or
// the round, the outcome.
type PlayResult struct {
	Card         Card
	SpadesBroken bool // true when this play broke spades
	TrickDone    bool
	WinnerSeat   int
	WinnerID     string
	RoundDone    bool
}

// PlayCard validates and commits a card play for the seat whose turn it
// is. rawCard is user text ("AS", "10h", "q♦"). On the fourth play the
// trick is resolved and cleared, the winner leading next; the 13th trick
// ends the round.
func (g *Game) PlayCard(playerID, rawCard string) (PlayResult, error) {
	if g.state != StatePlaying {
		return PlayResult{}, ErrInvalidStateForAction
	}
	p, ok := g.playerByID(playerID)
	if !ok {
		return PlayResult{}, ErrUnknownPlayer
	}
	if p.Seat != g.turnSeat {
		return PlayResult{}, ErrNotYourTurn
	}
	card, err := p.FindCard(rawCard)
	if err != nil {
		return PlayResult{}, err
	}
	if err := validatePlay(&g.trick, p, card, g.spadesBroken); err != nil {
		return PlayResult{}, err
	}

	// All checks passed; from here the play commits fully.
	led, hadLed := g.trick.LedSuit()
	if err := p.RemoveCard(card); err != nil {
		return PlayResult{}, err
	}
	g.trick.add(p.Seat, card)
	res := PlayResult{Card: card}

	if card.Suit == Spades && !g.spadesBroken && hadLed && led != Spades {
		g.spadesBroken = true
		res.SpadesBroken = true
		g.notifier.Announce("spades are broken")
	}
	g.notifier.Announce(fmt.Sprintf("%s plays %s", p.Name, card))

	if g.trick.Len() < NumSeats {
		g.turnSeat = nextSeat(g.turnSeat)
		g.notifier.Notify(g.players[g.turnSeat].ID, "your play")
		return res, nil
	}

	win := g.trick.winner()
	winner := g.players[win.Seat]
	winner.Tricks++
	g.tricksPlayed++
	g.trick = Trick{}

	res.TrickDone = true
	res.WinnerSeat = win.Seat
	res.WinnerID = winner.ID
	g.notifier.Announce(fmt.Sprintf("%s takes trick %d with %s", winner.Name, g.tricksPlayed, win.Card))

	if g.tricksPlayed < MaxHandCards {
		g.turnSeat = win.Seat
		g.notifier.Notify(winner.ID, "your lead")
		return res, nil
	}

	res.RoundDone = true
	g.finishRound()
	return res, nil
}

// finishRound settles both contracts, then either ends the game or
// rotates the dealer and deals the next round.
func (g *Game) finishRound() {
	g.state = StateRoundEnd

	scores := scoreRound(g.players, g.partnerships)
	for i, s := range scores {
		g.notifier.Announce(fmt.Sprintf("partnership %d: %+d points this round, %d bags (total %d, %d bags)",
			s.Partnership, s.Points, s.Bags, g.partnerships[i].Score, g.partnerships[i].Bags))
	}

	winner, over := g.winningPartnership()
	if over {
		g.state = StateGameEnd
		if winner == nil {
			g.notifier.Announce(fmt.Sprintf("game over: tied at %d points", g.partnerships[0].Score))
		} else {
			g.notifier.Announce(fmt.Sprintf("game over: partnership %d wins with %d points", winner.ID, winner.Score))
		}
		return
	}

	g.dealer = nextSeat(g.dealer)
	if err := g.startRound(); err != nil {
		// abortGame has already moved the game to GameEnd and announced.
		return
	}
}

// winningPartnership returns the winner once either side reaches the
// target score. A nil winner with over=true means both sides tied at or
// above the target in the same round.
func (g *Game) winningPartnership() (*Partnership, bool) {
	a, b := g.partnerships[0], g.partnerships[1]
	if a.Score < g.targetScore && b.Score < g.targetScore {
		return nil, false
	}
	switch {
	case a.Score > b.Score:
		return a, true
	case b.Score > a.Score:
		return b, true
	default:
		return nil, true
	}
}

// CardsInPlay counts hands + the current trick + undealt cards. Inside a
// round it is 52 until the round's last card is played.
func (g *Game) CardsInPlay() int {
	n := g.trick.Len()
	for _, p := range g.players {
		n += p.HandSize()
	}
	if g.deck != nil {
		n += g.deck.Remaining()
	}
	return n
}

func formatHand(cards []Card) string {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
