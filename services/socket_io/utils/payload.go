package socketio_utils

import (
	game_constants "dtrivia/constants/game"
	"dtrivia/services/coordinator"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zishang520/socket.io/v2/socket"
)

// Ack is the acknowledgement callback a client may pass as last argument
type Ack = socket.Ack

// SplitAck removes a trailing acknowledgement callback from the event args
func SplitAck(args []interface{}) ([]interface{}, Ack) {
	if len(args) == 0 {
		return args, nil
	}
	if ack, ok := args[len(args)-1].(socket.Ack); ok {
		return args[:len(args)-1], ack
	}
	return args, nil
}

// ParseEvent builds a coordinator event from socket.io arguments. The first
// argument is either the joining code or an object:
//
//	{"joining_code": "brave-curie", "answer": "Paris", "time_left": 7.5}
func ParseEvent(eventType string, actor int64, args []interface{}) (coordinator.Event, error) {
	ev := coordinator.Event{Type: eventType, Actor: actor}
	if len(args) == 0 {
		return ev, fmt.Errorf("%w: missing payload", coordinator.ErrInvalidEvent)
	}

	switch payload := args[0].(type) {
	case string:
		if eventType == game_constants.EVENT_ANSWER {
			return ev, fmt.Errorf("%w: answer needs an object payload", coordinator.ErrInvalidEvent)
		}
		ev.JoiningCode = payload
	case map[string]interface{}:
		code, _ := payload["joining_code"].(string)
		ev.JoiningCode = code
		if eventType == game_constants.EVENT_ANSWER {
			answer, ok := payload["answer"].(string)
			if !ok {
				return ev, fmt.Errorf("%w: answer must be a string", coordinator.ErrInvalidEvent)
			}
			timeLeft, err := number(payload["time_left"])
			if err != nil {
				return ev, fmt.Errorf("%w: time_left: %v", coordinator.ErrInvalidEvent, err)
			}
			ev.Answer, ev.TimeLeft = answer, timeLeft
		}
	default:
		return ev, fmt.Errorf("%w: unexpected payload %T", coordinator.ErrInvalidEvent, args[0])
	}

	if ev.JoiningCode == "" {
		return ev, fmt.Errorf("%w: missing joining_code", coordinator.ErrInvalidEvent)
	}
	return ev, nil
}

func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, fmt.Errorf("missing")
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}
