package spades

const (
	nilBonus       = 100
	doubleNilBonus = 200
	pointsPerBid   = 10
)

// RoundScore reports one partnership's settlement for a round.
type RoundScore struct {
	Partnership int
	Points      int // score delta this round, bag penalties included
	Bags        int // new bags credited this round
	Penalties   int // number of 10-bag penalties applied
}

// scoreRound settles both partnerships after the 13th trick.
func scoreRound(players []*Player, partnerships [2]*Partnership) [2]RoundScore {
	var out [2]RoundScore
	for i, ps := range partnerships {
		a, b := players[ps.Seats[0]], players[ps.Seats[1]]
		points, bags := settleContract(a, b)
		before := ps.Score
		ps.Score += points
		penalties := ps.AddBags(bags)
		out[i] = RoundScore{
			Partnership: ps.ID,
			Points:      ps.Score - before,
			Bags:        bags,
			Penalties:   penalties,
		}
	}
	return out
}

// settleContract evaluates the partnership contract of players a and b
// and returns the score delta plus the bags earned.
func settleContract(a, b *Player) (points, bags int) {
	switch {
	case a.Bid == BidNil && b.Bid == BidNil:
		// Double nil: both must take zero. Never produces bags.
		if a.Tricks == 0 && b.Tricks == 0 {
			return doubleNilBonus, 0
		}
		return -doubleNilBonus, 0
	case a.Bid == BidNil:
		return settleSingleNil(a, b)
	case b.Bid == BidNil:
		return settleSingleNil(b, a)
	default:
		bid := a.Bid + b.Bid
		tricks := a.Tricks + b.Tricks
		if tricks >= bid {
			return pointsPerBid * bid, tricks - bid
		}
		return -pointsPerBid * bid, 0
	}
}

// settleSingleNil scores nil bidder n independently and partner m as a
// solo standard contract. A failed nil's tricks all become bags.
func settleSingleNil(n, m *Player) (points, bags int) {
	if n.Tricks == 0 {
		points = nilBonus
	} else {
		points = -nilBonus
		bags += n.Tricks
	}
	if m.Tricks >= m.Bid {
		points += pointsPerBid * m.Bid
		bags += m.Tricks - m.Bid
	} else {
		points -= pointsPerBid * m.Bid
	}
	return points, bags
}
