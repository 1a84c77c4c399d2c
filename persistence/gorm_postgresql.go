// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wfunc/spades/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormPostgreSQL is the GORM-backed Database implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// Storage models local to this implementation.
type PlayerModel struct {
	ID        uint                   `gorm:"primaryKey"`
	UserID    string                 `gorm:"uniqueIndex;not null"`
	Data      map[string]interface{} `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MatchRecordModel struct {
	ID           uint                   `gorm:"primaryKey"`
	TableID      string                 `gorm:"index;not null"`
	Players      map[string]interface{} `gorm:"type:jsonb"`
	Partnerships map[string]interface{} `gorm:"type:jsonb"`
	Tied         bool
	CreatedAt    time.Time
}

type TableModel struct {
	ID        uint                   `gorm:"primaryKey"`
	TableID   string                 `gorm:"uniqueIndex;not null"`
	State     string                 `gorm:"not null"`
	Round     int                    `gorm:"default:0"`
	Players   map[string]interface{} `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// migratedModels is every model this store reads or writes: the local
// snapshot models plus the match/profile models the stats service uses.
var migratedModels = []interface{}{
	&PlayerModel{},
	&MatchRecordModel{},
	&TableModel{},
	&models.GormPlayer{},
	&models.GormMatchRecord{},
	&models.GormTable{},
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(migratedModels...)
}

func (p *GormPostgreSQL) SavePlayerData(userID string, data interface{}) error {
	playerData, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid player data type")
	}

	var player PlayerModel
	result := p.db.Where("user_id = ?", userID).First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		player = PlayerModel{
			UserID: userID,
			Data:   playerData,
		}
		return p.db.Create(&player).Error
	} else if result.Error != nil {
		return result.Error
	}

	player.Data = playerData
	player.UpdatedAt = time.Now()
	return p.db.Save(&player).Error
}

func (p *GormPostgreSQL) LoadPlayerData(userID string, result interface{}) error {
	var player PlayerModel
	if err := p.db.Where("user_id = ?", userID).First(&player).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecordNotFound
		}
		return err
	}

	data, ok := result.(*map[string]interface{})
	if ok {
		*data = player.Data
		return nil
	}

	return fmt.Errorf("invalid result type")
}

func (p *GormPostgreSQL) SaveMatchRecord(record interface{}) error {
	recordData, ok := record.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid match record type")
	}

	matchRecord := MatchRecordModel{
		TableID:      recordData["table_id"].(string),
		Players:      recordData["players"].(map[string]interface{}),
		Partnerships: recordData["partnerships"].(map[string]interface{}),
	}
	if tied, ok := recordData["tied"].(bool); ok {
		matchRecord.Tied = tied
	}

	return p.db.Create(&matchRecord).Error
}

func (p *GormPostgreSQL) SaveTableState(tableID, state string, round int, players interface{}) error {
	playersData, ok := players.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid players data type")
	}

	var tbl TableModel
	result := p.db.Where("table_id = ?", tableID).First(&tbl)

	if result.Error == gorm.ErrRecordNotFound {
		tbl = TableModel{
			TableID: tableID,
			State:   state,
			Round:   round,
			Players: playersData,
		}
		return p.db.Create(&tbl).Error
	} else if result.Error != nil {
		return result.Error
	}

	tbl.State = state
	tbl.Round = round
	tbl.Players = playersData
	tbl.UpdatedAt = time.Now()
	return p.db.Save(&tbl).Error
}

func (p *GormPostgreSQL) LoadTableState(tableID string, result interface{}) error {
	var tbl TableModel
	if err := p.db.Where("table_id = ?", tableID).First(&tbl).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecordNotFound
		}
		return err
	}

	data, ok := result.(*map[string]interface{})
	if ok {
		*data = tbl.Players
		return nil
	}

	return fmt.Errorf("invalid result type")
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}

// statsTable is where RecordMatchResult writes finished games; the stats
// aggregation must read the same table.
const statsTable = "gorm_match_records"

// GetPlayerStats aggregates a player's win/loss record out of the stored
// match records.
func (p *GormPostgreSQL) GetPlayerStats(userID string) (map[string]interface{}, error) {
	var stats map[string]interface{}

	err := p.db.Raw(
		fmt.Sprintf(`
        SELECT
            COUNT(*) as total_games,
            SUM(CASE WHEN players -> ? ->> 'outcome' = 'win' THEN 1 ELSE 0 END) as wins,
            SUM(CASE WHEN players -> ? ->> 'outcome' = 'lose' THEN 1 ELSE 0 END) as losses,
            SUM(CASE WHEN players -> ? ->> 'outcome' = 'tie' THEN 1 ELSE 0 END) as ties
        FROM %s
        WHERE players @> ?`, statsTable),
		userID, userID, userID, fmt.Sprintf(`{"%s": {}}`, userID),
	).Scan(&stats).Error

	return stats, err
}
