package handlers

import (
	game_constants "dtrivia/constants/game"
	"dtrivia/services/trivia"
	"errors"

	"github.com/zishang520/socket.io/v2/socket"
)

// What an event does with the socket's membership of the game room
type roomMove int

const (
	roomStay roomMove = iota
	roomEnter
	roomExit
)

// roomMember is the part of *socket.Socket that handles rooms
type roomMember interface {
	Join(rooms ...socket.Room)
	Leave(room socket.Room)
}

// roomBeforeEvent runs before the coordinator. A joiner is in the room before
// the roster broadcast so it receives its own player-joined.
func roomBeforeEvent(eventType string) roomMove {
	if eventType == game_constants.EVENT_JOIN {
		return roomEnter
	}
	return roomStay
}

// roomAfterEvent runs once the coordinator answered
func roomAfterEvent(eventType string, err error) roomMove {
	switch eventType {
	case game_constants.EVENT_JOIN:
		if err != nil && !isRepeatJoin(eventType, err) {
			return roomExit
		}
	case game_constants.EVENT_ENTER_GAME:
		if err == nil {
			return roomEnter
		}
	case game_constants.EVENT_LEAVE:
		if err == nil {
			return roomExit
		}
	}
	return roomStay
}

// isRepeatJoin reports a join from a player already in the lobby, the host
// included. Nothing changed, but the socket now follows the room, so it is
// acknowledged instead of rejected.
func isRepeatJoin(eventType string, err error) bool {
	return eventType == game_constants.EVENT_JOIN && errors.Is(err, trivia.ErrAlreadyMember)
}

func moveRoom(client roomMember, joiningCode string, move roomMove) {
	if joiningCode == "" {
		return
	}
	switch move {
	case roomEnter:
		client.Join(socket.Room(joiningCode))
	case roomExit:
		client.Leave(socket.Room(joiningCode))
	}
}
