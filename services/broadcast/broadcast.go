// Package broadcast delivers events to every client of a room. A room is
// named after the joining code of its game.
package broadcast

import (
	"context"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

type Broadcaster interface {
	Broadcast(ctx context.Context, room string, event string, payload interface{}) error
}

// SocketBroadcaster emits through the rooms of the local socket.io server
type SocketBroadcaster struct {
	server *socket.Server
}

func NewSocketBroadcaster(server *socket.Server) *SocketBroadcaster {
	return &SocketBroadcaster{server: server}
}

func (b *SocketBroadcaster) Broadcast(_ context.Context, room string, event string, payload interface{}) error {
	return b.server.To(socket.Room(room)).Emit(event, payload)
}

// Message is one recorded broadcast
type Message struct {
	Room    string
	Event   string
	Payload interface{}
}

// Recorder keeps every broadcast in memory. Used as the fanout of tests and
// of tools that run without a socket server.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Broadcast(_ context.Context, room string, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Room: room, Event: event, Payload: payload})
	return nil
}

// Messages returns a copy of what was broadcast so far
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Events returns the event names broadcast to a room, in order
func (r *Recorder) Events(room string) []string {
	var events []string
	for _, m := range r.Messages() {
		if m.Room == room {
			events = append(events, m.Event)
		}
	}
	return events
}

// Last returns the latest message of an event in a room
func (r *Recorder) Last(room string, event string) (Message, bool) {
	messages := r.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Room == room && messages[i].Event == event {
			return messages[i], true
		}
	}
	return Message{}, false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
