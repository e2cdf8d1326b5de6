package redis

import "encoding/json"

// RoomMessage is a room broadcast relayed between server instances
// Channel: "rooms:relay"
type RoomMessage struct {
	Origin  string          `json:"origin"` // instance that emitted it locally already
	Room    string          `json:"room"`   // joining code
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}
