// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/spades/session"
	"github.com/wfunc/spades/table"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrUserNotFound  = errors.New("user has no live session")
)

// Broadcaster delivers packets to tables and individual users.
type Broadcaster interface {
	BroadcastToTable(tableID string, msgID uint16, data []byte) error
	SendToUser(tableID, userID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
}

// TableBroadcaster routes through the table registry and session manager.
type TableBroadcaster struct {
	tableManager   *table.Manager
	sessionManager *session.Manager
}

func NewTableBroadcaster(tableManager *table.Manager, sessionManager *session.Manager) *TableBroadcaster {
	return &TableBroadcaster{
		tableManager:   tableManager,
		sessionManager: sessionManager,
	}
}

func (b *TableBroadcaster) BroadcastToTable(tableID string, msgID uint16, data []byte) error {
	t, exists := b.tableManager.Get(tableID)
	if !exists {
		return ErrTableNotFound
	}

	for _, s := range t.Sessions() {
		if err := s.Send(msgID, data); err != nil {
			// An unreachable player never blocks the others.
			continue
		}
	}

	return nil
}

func (b *TableBroadcaster) SendToUser(tableID, userID string, msgID uint16, data []byte) error {
	t, exists := b.tableManager.Get(tableID)
	if !exists {
		return ErrTableNotFound
	}

	s, ok := t.Session(userID)
	if !ok {
		return ErrUserNotFound
	}
	return s.Send(msgID, data)
}

// BroadcastToAll sends to every live session regardless of table.
func (b *TableBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}
