package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/spades/logger"
	"github.com/wfunc/spades/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsRPC exposes player statistics over net/rpc for companion tooling.
type StatsRPC struct {
	statsService *services.StatsService
}

func NewStatsRPC(ss *services.StatsService) *StatsRPC {
	return &StatsRPC{statsService: ss}
}

// Register attaches the service to the default rpc server.
func (sr *StatsRPC) Register() error {
	return rpc.RegisterName("Stats", sr)
}

type GetPlayerArgs struct {
	UserID string
}

type GetPlayerReply struct {
	Data map[string]interface{}
}

// GetPlayerWithStats follows the net/rpc method signature: exported
// arguments, pointer reply, error return.
func (sr *StatsRPC) GetPlayerWithStats(args *GetPlayerArgs, reply *GetPlayerReply) error {
	data, err := sr.statsService.GetPlayerWithStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Data = data
	return nil
}
