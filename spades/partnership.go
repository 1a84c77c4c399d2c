package spades

const (
	bagPenaltyThreshold = 10
	bagPenaltyPoints    = 100
)

// Partnership aggregates the shared contract state of the two players
// seated opposite each other. It is the single owner of the cumulative
// score and bag count; player records never carry either.
type Partnership struct {
	ID    int    // 1 or 2
	Seats [2]int // seats 0&2 form partnership 1, seats 1&3 partnership 2
	Score int
	Bags  int
}

// AddBags credits overtricks to the running bag total and applies the
// 10-bag penalty every time the total reaches it. Returns how many
// penalties were applied.
func (p *Partnership) AddBags(n int) int {
	p.Bags += n
	penalties := 0
	for p.Bags >= bagPenaltyThreshold {
		p.Bags -= bagPenaltyThreshold
		p.Score -= bagPenaltyPoints
		penalties++
	}
	return penalties
}
