// persistence/interface.go
package persistence

import (
	"fmt"

	"gorm.io/gorm"
)

// Database is the storage surface the server depends on. The game engine
// itself never touches it; only finished matches and profiles are stored.
type Database interface {
	SavePlayerData(userID string, data interface{}) error
	LoadPlayerData(userID string, result interface{}) error
	SaveMatchRecord(record interface{}) error
	SaveTableState(tableID, state string, round int, players interface{}) error
	LoadTableState(tableID string, result interface{}) error
	Transaction(fn func(tx *gorm.DB) error) error
	GetPlayerStats(userID string) (map[string]interface{}, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
