// services/stats_service.go
package services

import (
	"time"

	"github.com/wfunc/spades/models"
	"github.com/wfunc/spades/persistence"
	"gorm.io/gorm"
)

// StatsService answers profile and win/loss queries and records finished
// matches.
type StatsService struct {
	db persistence.Database
}

func NewStatsService(db persistence.Database) *StatsService {
	return &StatsService{db: db}
}

// GetPlayerWithStats returns the stored profile together with the
// aggregated match statistics.
func (s *StatsService) GetPlayerWithStats(userID string) (map[string]interface{}, error) {
	var result map[string]interface{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var player models.GormPlayer
		if err := tx.Where("user_id = ?", userID).First(&player).Error; err != nil {
			return err
		}

		stats, err := s.db.GetPlayerStats(userID)
		if err != nil {
			return err
		}

		result = map[string]interface{}{
			"player": player,
			"stats":  stats,
		}

		return nil
	})

	return result, err
}

// RecordMatchResult stores one finished game and bumps each seated
// player's profile inside a single transaction.
func (s *StatsService) RecordMatchResult(record models.MatchRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		players := make(map[string]interface{}, len(record.Players))
		for _, p := range record.Players {
			players[p.UserID] = map[string]interface{}{
				"name":    p.Name,
				"seat":    p.Seat,
				"outcome": p.Outcome,
			}
		}

		partnerships := make(map[string]interface{}, len(record.Partnerships))
		for _, pt := range record.Partnerships {
			partnerships[partnershipKey(pt.ID)] = map[string]interface{}{
				"score": pt.Score,
				"bags":  pt.Bags,
				"won":   pt.Won,
			}
		}

		stored := models.GormMatchRecord{
			TableID:      record.TableID,
			Rounds:       record.Rounds,
			TargetScore:  record.TargetScore,
			Players:      players,
			Partnerships: partnerships,
			Tied:         record.Tied,
		}
		if err := tx.Create(&stored).Error; err != nil {
			return err
		}

		for _, p := range record.Players {
			if err := upsertPlayer(tx, p); err != nil {
				return err
			}
		}

		return nil
	})
}

func upsertPlayer(tx *gorm.DB, info models.PlayerInfo) error {
	var player models.GormPlayer
	err := tx.Where("user_id = ?", info.UserID).First(&player).Error
	if err == gorm.ErrRecordNotFound {
		player = models.GormPlayer{
			UserID: info.UserID,
			Name:   info.Name,
			Stats:  map[string]interface{}{},
		}
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	delta := ratingDelta(info.Outcome)
	return tx.Model(&player).Updates(map[string]interface{}{
		"name":       info.Name,
		"rating":     gorm.Expr("rating + ?", delta),
		"updated_at": time.Now(),
	}).Error
}

func ratingDelta(outcome string) int {
	switch outcome {
	case "win":
		return 25
	case "lose":
		return -25
	default:
		return 0
	}
}

func partnershipKey(id int) string {
	if id == 1 {
		return "north_south"
	}
	return "east_west"
}
