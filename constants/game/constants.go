package game_constants

import "time"

// Every save of a game session refreshes this expiry, abandoned sessions vanish on their own
const SESSION_TTL = time.Hour

// Points awarded for a correct answer are floor(time left), capped here
const MAX_POINTS_PER_ANSWER = 10

const DEFAULT_TOTAL_QUESTIONS = 10
const MAX_TOTAL_QUESTIONS = 50

const MIN_PLAYERS = 1
const MAX_PLAYERS = 16

// Upper bound for the Redis per-code lock, a crashed holder releases after this
const DEFAULT_LOCK_TTL = 10 * time.Second

// Retry interval while waiting for a Redis per-code lock held by another instance
const LOCK_RETRY_INTERVAL = 25 * time.Millisecond

// Socket.io event names (client -> server)
const (
	EVENT_JOIN           = "join"
	EVENT_LEAVE          = "leave"
	EVENT_START          = "start"
	EVENT_CANCEL         = "cancel"
	EVENT_NEXT_QUESTION  = "next-question"
	EVENT_ANSWER         = "answer"
	EVENT_REQUEST_ANSWER = "request-answer"
	EVENT_REQUEST_SCORES = "request-scores"
	EVENT_ENTER_GAME     = "enter-game"
)

// Socket.io event names (server -> room)
const (
	EVENT_PLAYER_JOINED  = "player-joined"
	EVENT_PLAYER_LEFT    = "player-left"
	EVENT_GAME_STARTED   = "game-started"
	EVENT_GAME_CANCELLED = "game-cancelled"
	EVENT_QUESTION       = "question"
	EVENT_END            = "end"
	EVENT_CORRECT_ANSWER = "correct-answer"
	EVENT_SCORES         = "scores"
	EVENT_PLAYERS_READY  = "players-ready"
)

// Direct reply to the socket that sent a rejected event
const EVENT_ERROR = "error"
