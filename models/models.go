// models/models.go
package models

import (
	"time"
)

// PlayerData is the wire/storage model for one player profile.
type PlayerData struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchRecord captures one finished Spades game for storage.
type MatchRecord struct {
	TableID      string            `json:"table_id"`
	Rounds       int               `json:"rounds"`
	TargetScore  int               `json:"target_score"`
	Players      []PlayerInfo      `json:"players"`
	Partnerships []PartnershipInfo `json:"partnerships"`
	Tied         bool              `json:"tied"`
	CreatedAt    time.Time         `json:"created_at"`
}

// PlayerInfo is one seat's line in a match record.
type PlayerInfo struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Seat    int    `json:"seat"`
	Outcome string `json:"outcome"` // win/lose/tie
}

// PartnershipInfo is the final standing of one partnership.
type PartnershipInfo struct {
	ID    int  `json:"id"`
	Score int  `json:"score"`
	Bags  int  `json:"bags"`
	Won   bool `json:"won"`
}

// TableState is a storable snapshot of a table.
type TableState struct {
	TableID   string    `json:"table_id"`
	State     string    `json:"state"`
	Round     int       `json:"round"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
