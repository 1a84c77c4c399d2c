// table/table.go
package table

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/spades/logger"
	"github.com/wfunc/spades/network"
	"github.com/wfunc/spades/session"
	"github.com/wfunc/spades/spades"
	"github.com/wfunc/spades/timer"
)

// Message is the JSON payload of announce/notify packets.
type Message struct {
	Text string `json:"text"`
}

// Table binds one Spades game to the sessions of its players. All game
// mutations go through the table's mutex, so each game processes one
// action at a time.
type Table struct {
	ID        string
	Name      string
	CreatedAt time.Time

	game     *spades.Game
	sessions map[string]*session.Session // userID -> session

	timers     *timer.Manager
	reminder   time.Duration
	reminderID int64

	mutex sync.RWMutex
}

// NewTable creates a table and its empty game. The table itself is the
// game's Notifier, translating engine announcements into packets.
func NewTable(id, name string, targetScore int, timers *timer.Manager, reminder time.Duration) *Table {
	t := &Table{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		sessions:  make(map[string]*session.Session),
		timers:    timers,
		reminder:  reminder,
	}
	t.game = spades.NewGame(id, targetScore, t)
	return t
}

// --- spades.Notifier implementation ---
//
// The engine invokes these mid-mutation, while the table mutex is held,
// so they read the session map directly instead of re-locking through
// the broadcaster.

// Announce delivers a public game message to every player at the table.
// Delivery failures never affect the game.
func (t *Table) Announce(text string) {
	data, _ := json.Marshal(Message{Text: text})
	for userID, s := range t.sessions {
		if err := s.Send(network.MsgTypeAnnounce, data); err != nil {
			logger.Log.Warnf("Table %s: announce not delivered to %s: %v", t.ID, userID, err)
		}
	}
}

// Notify delivers a private message to one player.
func (t *Table) Notify(userID, text string) {
	s, ok := t.sessions[userID]
	if !ok {
		return
	}
	data, _ := json.Marshal(Message{Text: text})
	if err := s.Send(network.MsgTypePrivate, data); err != nil {
		logger.Log.Warnf("Table %s: private message to %s not delivered: %v", t.ID, userID, err)
	}
}

// --- game actions ---

// Join seats the session's user at the table.
func (t *Table) Join(s *session.Session) (int, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	seat, err := t.game.AddPlayer(s.UserID, s.Name)
	if err != nil {
		return 0, err
	}
	t.sessions[s.UserID] = s
	s.SetSeat(t.ID, seat)
	t.scheduleReminder()
	return seat, nil
}

// Detach drops the transport mapping for a user. The game itself keeps
// the seat; a reconnecting session can re-attach with Attach.
func (t *Table) Detach(userID string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	delete(t.sessions, userID)
}

// Attach re-binds a session to an already-seated user.
func (t *Table) Attach(s *session.Session) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	p, ok := t.game.PlayerByID(s.UserID)
	if !ok {
		return false
	}
	t.sessions[s.UserID] = s
	s.SetSeat(t.ID, p.Seat)
	return true
}

// SubmitBid forwards a bid to the game.
func (t *Table) SubmitBid(userID, raw string) (int, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	bid, err := t.game.SubmitBid(userID, raw)
	if err != nil {
		return 0, err
	}
	t.scheduleReminder()
	return bid, nil
}

// PlayCard forwards a card play to the game.
func (t *Table) PlayCard(userID, raw string) (spades.PlayResult, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	res, err := t.game.PlayCard(userID, raw)
	if err != nil {
		return res, err
	}
	t.scheduleReminder()
	return res, nil
}

// scheduleReminder nudges the player on turn after the configured idle
// delay. Reminder only; the table never acts for a player. Callers hold
// the mutex.
func (t *Table) scheduleReminder() {
	if t.timers == nil || t.reminder <= 0 {
		return
	}
	if t.reminderID != 0 {
		t.timers.Remove(t.reminderID)
		t.reminderID = 0
	}
	seat, ok := t.game.TurnSeat()
	if !ok {
		return
	}
	player := t.game.Players()[seat]
	t.reminderID = t.timers.Add(t.reminder, 0, func() {
		t.mutex.RLock()
		defer t.mutex.RUnlock()
		if current, active := t.game.TurnSeat(); active && current == seat {
			t.Notify(player.ID, "reminder: the table is waiting on you")
		}
	})
}

// --- queries ---

// State returns the game phase.
func (t *Table) State() spades.GameState {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.game.State()
}

// Full reports whether all four seats are taken.
func (t *Table) Full() bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.game.Players()) == spades.NumSeats
}

// Sessions returns a copy of the attached sessions.
func (t *Table) Sessions() []*session.Session {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make([]*session.Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s)
	}
	return out
}

// Session returns the attached session for a user.
func (t *Table) Session(userID string) (*session.Session, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	s, ok := t.sessions[userID]
	return s, ok
}

// Game exposes the underlying game for read-only inspection.
func (t *Table) Game() *spades.Game {
	return t.game
}

// Close cancels any pending reminder.
func (t *Table) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.timers != nil && t.reminderID != 0 {
		t.timers.Remove(t.reminderID)
		t.reminderID = 0
	}
}

// --- registry ---

// Manager is the registry of active tables, keyed by table id. Each table
// owns its game exclusively; the manager shares nothing between them.
type Manager struct {
	tables map[string]*Table
	mutex  sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		tables: make(map[string]*Table),
	}
}

// Create builds a table and registers it.
func (m *Manager) Create(id, name string, targetScore int, timers *timer.Manager, reminder time.Duration) *Table {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t := NewTable(id, name, targetScore, timers, reminder)
	m.tables[id] = t
	return t
}

// Remove closes and deregisters a table.
func (m *Manager) Remove(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if t, exists := m.tables[id]; exists {
		t.Close()
		delete(m.tables, id)
	}
}

func (m *Manager) Get(id string) (*Table, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	t, exists := m.tables[id]
	return t, exists
}

// FindOpen returns a table still waiting for players, if any.
func (m *Manager) FindOpen() *Table {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, t := range m.tables {
		if t.State() == spades.StateLobby && !t.Full() {
			return t
		}
	}
	return nil
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.tables)
}
