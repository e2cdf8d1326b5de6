package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import (
	"fmt"
	"strings"
)

const gameSessionPrefix = "games:"

// Pattern matched by SCAN when listing sessions. Lock keys share the prefix,
// use ParseGameSessionKey to tell them apart.
const GameSessionKeyPattern = gameSessionPrefix + "*"

// Pub/sub channel carrying room broadcasts between instances
const RoomRelayChannel = "rooms:relay"

func FormatGameSessionKey(joiningCode string) string {
	return fmt.Sprintf("games:%s", joiningCode)
}

func FormatGameSessionLockKey(joiningCode string) string {
	return fmt.Sprintf("games:%s:lock", joiningCode)
}

// ParseGameSessionKey returns the joining code of a session key, false for
// any other key (lock keys included)
func ParseGameSessionKey(key string) (string, bool) {
	code, ok := strings.CutPrefix(key, gameSessionPrefix)
	if !ok || code == "" || strings.Contains(code, ":") {
		return "", false
	}
	return code, true
}
