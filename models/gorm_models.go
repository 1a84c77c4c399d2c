// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormPlayer is the persisted player profile.
type GormPlayer struct {
	gorm.Model
	UserID string                 `gorm:"uniqueIndex;not null"`
	Name   string                 `gorm:"not null"`
	Rating int                    `gorm:"default:1000"`
	Stats  map[string]interface{} `gorm:"type:jsonb"`
}

// GormMatchRecord is one finished game.
type GormMatchRecord struct {
	gorm.Model
	TableID      string                 `gorm:"index;not null"`
	Rounds       int                    `gorm:"default:0"`
	TargetScore  int                    `gorm:"default:500"`
	Players      map[string]interface{} `gorm:"type:jsonb;not null"`
	Partnerships map[string]interface{} `gorm:"type:jsonb;not null"`
	Tied         bool                   `gorm:"default:false"`
}

// GormTable is a stored table snapshot.
type GormTable struct {
	gorm.Model
	TableID string                 `gorm:"uniqueIndex;not null"`
	State   string                 `gorm:"not null"`
	Round   int                    `gorm:"default:0"`
	Players map[string]interface{} `gorm:"type:jsonb"`
}

// PlayerStats summarizes a player's record across matches.
type PlayerStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Ties       int `json:"ties"`
}
