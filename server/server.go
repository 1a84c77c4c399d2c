package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/spades/broadcast"
	"github.com/wfunc/spades/config"
	"github.com/wfunc/spades/logger"
	"github.com/wfunc/spades/models"
	"github.com/wfunc/spades/monitor"
	"github.com/wfunc/spades/network"
	"github.com/wfunc/spades/persistence"
	spades_rpc "github.com/wfunc/spades/rpc"
	"github.com/wfunc/spades/services"
	"github.com/wfunc/spades/session"
	"github.com/wfunc/spades/spades"
	"github.com/wfunc/spades/table"
	"github.com/wfunc/spades/timer"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	tableManager   *table.Manager
	sessionManager *session.Manager
	statsService   *services.StatsService
	broadcaster    broadcast.Broadcaster
	rpcServer      *spades_rpc.Server
	monitor        *monitor.Monitor
	timers         *timer.Manager
	db             persistence.Database

	targetScore  int
	turnReminder time.Duration

	shutdownChan chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		tableManager:   table.NewManager(),
		sessionManager: session.NewManager(),
		statsService:   services.NewStatsService(db),
		monitor:        mon,
		timers:         timer.NewManager(),
		db:             db,
		targetScore:    cfg.Game.TargetScore,
		turnReminder:   time.Duration(cfg.Game.TurnReminderSeconds) * time.Second,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewTableBroadcaster(s.tableManager, s.sessionManager)

	rpcServer, err := spades_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	statsRPC := spades_rpc.NewStatsRPC(s.statsService)
	if err := statsRPC.Register(); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Spades server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		if sess.TableID != "" {
			if t, exists := s.tableManager.Get(sess.TableID); exists {
				// The seat survives a dropped connection; the user can
				// reconnect and re-attach.
				t.Detach(sess.UserID)
			}
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeCreateTable:
		s.handleCreateTable(sess, packet)
	case network.MsgTypeJoinTable:
		s.handleJoinTable(sess, packet)
	case network.MsgTypeLeaveTable:
		s.handleLeaveTable(sess, packet)
	case network.MsgTypeBid:
		s.handleBid(sess, packet)
	case network.MsgTypePlayCard:
		s.handlePlayCard(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

type joinRequest struct {
	TableID string `json:"table_id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
}

type actionRequest struct {
	Value string `json:"value"`
}

func (s *GameServer) identify(sess *session.Session, userID, name string) {
	if sess.UserID == "" {
		if userID == "" {
			userID = sess.GetID()
		}
		sess.UserID = userID
	}
	if name != "" {
		sess.Name = name
	}
	if sess.Name == "" {
		sess.Name = sess.UserID
	}
}

func (s *GameServer) handleCreateTable(sess *session.Session, packet *network.Packet) {
	var req joinRequest
	json.Unmarshal(packet.Data, &req)
	s.identify(sess, req.UserID, req.Name)

	tableID := uuid.New().String()
	t := s.tableManager.Create(tableID, "Spades Table", s.targetScore, s.timers, s.turnReminder)
	s.monitor.SetActiveTables(s.tableManager.Count())

	seat, err := t.Join(sess)
	if err != nil {
		s.sendRuleError(sess, err)
		return
	}

	logger.Log.Infof("Session %s created table %s", sess.GetID(), tableID)

	resp := map[string]interface{}{"table_id": tableID, "seat": seat}
	data, _ := json.Marshal(resp)
	sess.Send(network.MsgTypeCreateTable, data)
	s.sendTableInfo(sess, t)
	s.saveTableSnapshot(t)
}

func (s *GameServer) handleJoinTable(sess *session.Session, packet *network.Packet) {
	var req joinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	s.identify(sess, req.UserID, req.Name)

	var t *table.Table
	if req.TableID != "" {
		found, exists := s.tableManager.Get(req.TableID)
		if !exists {
			s.sendError(sess, "table not found")
			return
		}
		t = found
	} else {
		t = s.tableManager.FindOpen()
		if t == nil {
			s.sendError(sess, "no open table")
			return
		}
	}

	// A returning player re-attaches to their old seat.
	if t.Attach(sess) {
		logger.Log.Infof("Session %s re-attached to table %s", sess.GetID(), t.ID)
		resp := map[string]interface{}{"table_id": t.ID, "seat": sess.Seat}
		data, _ := json.Marshal(resp)
		sess.Send(network.MsgTypeJoinTable, data)
		s.sendTableInfo(sess, t)
		return
	}

	seat, err := t.Join(sess)
	if err != nil {
		s.sendRuleError(sess, err)
		return
	}

	logger.Log.Infof("Session %s joined table %s at seat %d", sess.GetID(), t.ID, seat)

	resp := map[string]interface{}{"table_id": t.ID, "seat": seat}
	data, _ := json.Marshal(resp)
	sess.Send(network.MsgTypeJoinTable, data)
	s.sendTableInfo(sess, t)
	s.saveTableSnapshot(t)
}

// sendTableInfo syncs the joining player with the table's public state.
func (s *GameServer) sendTableInfo(sess *session.Session, t *table.Table) {
	g := t.Game()
	partnerships := g.Partnerships()

	seats := make([]map[string]interface{}, 0, len(g.Players()))
	for _, p := range g.Players() {
		seats = append(seats, map[string]interface{}{
			"user_id": p.ID,
			"name":    p.Name,
			"seat":    p.Seat,
		})
	}
	scores := make([]map[string]interface{}, 0, len(partnerships))
	for i := range partnerships {
		scores = append(scores, map[string]interface{}{
			"partnership": partnerships[i].ID,
			"score":       partnerships[i].Score,
			"bags":        partnerships[i].Bags,
		})
	}

	info := map[string]interface{}{
		"table_id":     t.ID,
		"state":        g.State().String(),
		"round":        g.Round(),
		"target_score": g.TargetScore(),
		"players":      seats,
		"scores":       scores,
	}
	data, _ := json.Marshal(info)
	sess.Send(network.MsgTypeTableInfo, data)
}

func (s *GameServer) handleLeaveTable(sess *session.Session, packet *network.Packet) {
	if sess.TableID == "" {
		return
	}
	t, exists := s.tableManager.Get(sess.TableID)
	if !exists {
		sess.ClearSeat()
		return
	}

	t.Detach(sess.UserID)
	sess.ClearSeat()

	// An abandoned lobby is torn down; a running game keeps the seat
	// reserved for a reconnect.
	if t.State() == spades.StateLobby && len(t.Sessions()) == 0 {
		s.tableManager.Remove(t.ID)
		s.monitor.SetActiveTables(s.tableManager.Count())
	}
}

func (s *GameServer) handleBid(sess *session.Session, packet *network.Packet) {
	t, ok := s.tableForAction(sess)
	if !ok {
		return
	}

	var req actionRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed bid")
		return
	}

	start := time.Now()
	s.monitor.IncActionsReceived()

	if _, err := t.SubmitBid(sess.UserID, req.Value); err != nil {
		s.sendRuleError(sess, err)
		return
	}
	s.monitor.ObserveActionLatency(time.Since(start))
}

func (s *GameServer) handlePlayCard(sess *session.Session, packet *network.Packet) {
	t, ok := s.tableForAction(sess)
	if !ok {
		return
	}

	var req actionRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed play")
		return
	}

	start := time.Now()
	s.monitor.IncActionsReceived()

	res, err := t.PlayCard(sess.UserID, req.Value)
	if err != nil {
		s.sendRuleError(sess, err)
		return
	}
	s.monitor.ObserveActionLatency(time.Since(start))

	if res.RoundDone {
		s.saveTableSnapshot(t)
		if t.State() == spades.StateGameEnd {
			s.finishGame(t)
		}
	}
}

func (s *GameServer) tableForAction(sess *session.Session) (*table.Table, bool) {
	if sess.TableID == "" {
		s.sendError(sess, "not seated at a table")
		return nil, false
	}
	t, exists := s.tableManager.Get(sess.TableID)
	if !exists {
		logger.Log.Errorf("Table %s not found for session %s", sess.TableID, sess.GetID())
		s.sendError(sess, "table not found")
		return nil, false
	}
	return t, true
}

// finishGame records the match and tears the table down.
func (s *GameServer) finishGame(t *table.Table) {
	record := buildMatchRecord(t.Game())

	if err := s.statsService.RecordMatchResult(record); err != nil {
		logger.Log.Errorf("Table %s: failed to record match: %v", t.ID, err)
	}

	data, _ := json.Marshal(record)
	if err := s.broadcaster.BroadcastToTable(t.ID, network.MsgTypeGameEnd, data); err != nil {
		logger.Log.Warnf("Table %s: game end not delivered: %v", t.ID, err)
	}

	for _, sess := range t.Sessions() {
		sess.ClearSeat()
	}
	s.tableManager.Remove(t.ID)
	s.monitor.SetActiveTables(s.tableManager.Count())
}

func buildMatchRecord(g *spades.Game) models.MatchRecord {
	partnerships := g.Partnerships()
	tied := partnerships[0].Score == partnerships[1].Score
	winner := 0
	if partnerships[1].Score > partnerships[0].Score {
		winner = 1
	}

	record := models.MatchRecord{
		TableID:     g.ID,
		Rounds:      g.Round(),
		TargetScore: g.TargetScore(),
		Tied:        tied,
		CreatedAt:   time.Now(),
	}

	for i := range partnerships {
		record.Partnerships = append(record.Partnerships, models.PartnershipInfo{
			ID:    partnerships[i].ID,
			Score: partnerships[i].Score,
			Bags:  partnerships[i].Bags,
			Won:   !tied && i == winner,
		})
	}

	for _, p := range g.Players() {
		outcome := "tie"
		if !tied {
			if p.Seat%2 == winner {
				outcome = "win"
			} else {
				outcome = "lose"
			}
		}
		record.Players = append(record.Players, models.PlayerInfo{
			UserID:  p.ID,
			Name:    p.Name,
			Seat:    p.Seat,
			Outcome: outcome,
		})
	}

	return record
}

func (s *GameServer) saveTableSnapshot(t *table.Table) {
	g := t.Game()
	players := make(map[string]interface{})
	for _, p := range g.Players() {
		players[p.ID] = map[string]interface{}{
			"name": p.Name,
			"seat": p.Seat,
		}
	}

	if err := s.db.SaveTableState(t.ID, g.State().String(), g.Round(), players); err != nil {
		logger.Log.Warnf("Table %s: snapshot not saved: %v", t.ID, err)
	}
}

func (s *GameServer) sendRuleError(sess *session.Session, err error) {
	s.monitor.IncRuleRejections()
	s.sendError(sess, err.Error())
}

func (s *GameServer) sendError(sess *session.Session, msg string) {
	data, _ := json.Marshal(map[string]string{"error": msg})
	sess.Send(network.MsgTypeError, data)
}
