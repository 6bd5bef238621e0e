package types

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeConnectionStatus  MessageType = "connection_status"
	MessageTypeRoomState         MessageType = "room_state"
	MessageTypeLeaderboardUpdate MessageType = "leaderboard_update"
	MessageTypeError             MessageType = "error"
	// Client subscription messages
	MessageTypeJoinRoom  MessageType = "join_room"
	MessageTypeLeaveRoom MessageType = "leave_room"
)

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

// ConnectionStatusData represents connection status message data
type ConnectionStatusData struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// RoomSubscription is the payload of join_room and leave_room messages
type RoomSubscription struct {
	RoomCode string `json:"room_code"`
}
