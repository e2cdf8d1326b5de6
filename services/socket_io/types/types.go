package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track user id -> latest socket connection
	UserConnections map[int64]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Sio_server:      socket.NewServer(nil, nil),
		UserConnections: make(map[int64]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(userID int64, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = socket
}

// RemoveConnection forgets the socket unless the user reconnected meanwhile
func (s *SocketServer) RemoveConnection(userID int64, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, ok := s.UserConnections[userID]; ok && current == client {
		delete(s.UserConnections, userID)
	}
}

func (s *SocketServer) GetConnection(userID int64) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[userID]
	return socket, exists
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.UserConnections)
}
