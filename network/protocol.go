package network

const (
	MsgTypeHeartbeat = 1

	MsgTypeCreateTable = 101
	MsgTypeJoinTable   = 102
	MsgTypeLeaveTable  = 103

	MsgTypeBid      = 201
	MsgTypePlayCard = 202

	MsgTypeAnnounce  = 301
	MsgTypePrivate   = 302
	MsgTypeTableInfo = 303
	MsgTypeError     = 304
	MsgTypeGameEnd   = 305
)
