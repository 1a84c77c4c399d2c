// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgreSQL is a plain database/sql implementation over lib/pq, for
// deployments that prefer raw SQL over the GORM path. It does not
// implement Transaction/GetPlayerStats; use GormPostgreSQL where the
// stats service is required.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            user_id VARCHAR(255) UNIQUE NOT NULL,
            data JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            table_id VARCHAR(255) NOT NULL,
            players JSONB NOT NULL,
            partnerships JSONB NOT NULL,
            tied BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS tables (
            id SERIAL PRIMARY KEY,
            table_id VARCHAR(255) UNIQUE NOT NULL,
            state VARCHAR(50) NOT NULL,
            round INT DEFAULT 0,
            players JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_user_id ON players(user_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_table_id ON match_records(table_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
        CREATE INDEX IF NOT EXISTS idx_tables_table_id ON tables(table_id);
    `)

	return err
}

func (p *PostgreSQL) SavePlayerData(userID string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO players (user_id, data)
        VALUES ($1, $2)
        ON CONFLICT (user_id)
        DO UPDATE SET data = $2, updated_at = CURRENT_TIMESTAMP
    `

	_, err = p.db.ExecContext(ctx, query, userID, jsonData)
	return err
}

func (p *PostgreSQL) LoadPlayerData(userID string, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []byte
	query := `SELECT data FROM players WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRecordNotFound
		}
		return err
	}

	return json.Unmarshal(data, result)
}

func (p *PostgreSQL) SaveMatchRecord(record interface{}) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return err
	}

	var recordMap map[string]interface{}
	if err := json.Unmarshal(jsonData, &recordMap); err != nil {
		return err
	}

	players, err := json.Marshal(recordMap["players"])
	if err != nil {
		return err
	}
	partnerships, err := json.Marshal(recordMap["partnerships"])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (table_id, players, partnerships, tied)
        VALUES ($1, $2, $3, $4)
    `

	_, err = p.db.ExecContext(ctx, query,
		recordMap["table_id"],
		players,
		partnerships,
		recordMap["tied"])

	return err
}

func (p *PostgreSQL) SaveTableState(tableID, state string, round int, players interface{}) error {
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO tables (table_id, state, round, players)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (table_id)
        DO UPDATE SET state = $2, round = $3, players = $4, updated_at = CURRENT_TIMESTAMP
    `

	_, err = p.db.ExecContext(ctx, query, tableID, state, round, playersJSON)
	return err
}

func (p *PostgreSQL) LoadTableState(tableID string, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []byte
	query := `SELECT players FROM tables WHERE table_id = $1`
	err := p.db.QueryRowContext(ctx, query, tableID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRecordNotFound
		}
		return err
	}

	return json.Unmarshal(data, result)
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
