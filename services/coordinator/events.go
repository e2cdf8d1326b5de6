package coordinator

import (
	game_constants "dtrivia/constants/game"
	"fmt"
)

// Event is one inbound client action. Actor is the authenticated user id.
type Event struct {
	Type        string
	JoiningCode string
	Actor       int64
	Answer      string  // answer only
	TimeLeft    float64 // answer only, seconds left on the client clock
}

var knownEvents = map[string]bool{
	game_constants.EVENT_JOIN:           true,
	game_constants.EVENT_LEAVE:          true,
	game_constants.EVENT_START:          true,
	game_constants.EVENT_CANCEL:         true,
	game_constants.EVENT_NEXT_QUESTION:  true,
	game_constants.EVENT_ANSWER:         true,
	game_constants.EVENT_REQUEST_ANSWER: true,
	game_constants.EVENT_REQUEST_SCORES: true,
	game_constants.EVENT_ENTER_GAME:     true,
}

// IsInbound reports whether the coordinator handles the event name
func IsInbound(eventType string) bool {
	return knownEvents[eventType]
}

func (e Event) validate() error {
	if !knownEvents[e.Type] {
		return fmt.Errorf("%w: unknown event %q", ErrInvalidEvent, e.Type)
	}
	if e.JoiningCode == "" {
		return fmt.Errorf("%w: missing joining_code", ErrInvalidEvent)
	}
	return nil
}
