package coordinator

import (
	"dtrivia/services/trivia"
	"errors"
)

var (
	// ErrGameNotFound means the session expired or was cancelled. Clients go
	// back to the lobby list.
	ErrGameNotFound = errors.New("game no longer exists")
	// ErrTryAgain means the store or the catalog kept failing. Nothing was
	// applied or broadcast.
	ErrTryAgain = errors.New("temporary failure, try again")
	// ErrInvalidEvent means the payload could not be understood
	ErrInvalidEvent = errors.New("invalid event")
)

// Codes sent to clients in "error" replies. They are stable, clients switch
// on them.
const (
	CodeGameFull          = "game_full"
	CodeAlreadyMember     = "already_member"
	CodeNotMember         = "not_member"
	CodeHostCannotLeave   = "host_cannot_leave"
	CodeNotHost           = "not_host"
	CodeAlreadyStarted    = "already_started"
	CodeNotStarted        = "not_started"
	CodeNoCurrentQuestion = "no_current_question"
	CodeInvalidSettings   = "invalid_settings"
	CodeGameNotFound      = "game_not_found"
	CodeTryAgain          = "try_again"
	CodeInvalidEvent      = "invalid_event"
	CodeInternal          = "internal_error"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{trivia.ErrGameFull, CodeGameFull},
	{trivia.ErrAlreadyMember, CodeAlreadyMember},
	{trivia.ErrNotMember, CodeNotMember},
	{trivia.ErrHostCannotLeave, CodeHostCannotLeave},
	{trivia.ErrNotHost, CodeNotHost},
	{trivia.ErrAlreadyStarted, CodeAlreadyStarted},
	{trivia.ErrNotStarted, CodeNotStarted},
	{trivia.ErrNoCurrentQuestion, CodeNoCurrentQuestion},
	{trivia.ErrInvalidSettings, CodeInvalidSettings},
	{ErrGameNotFound, CodeGameNotFound},
	{ErrTryAgain, CodeTryAgain},
	{ErrInvalidEvent, CodeInvalidEvent},
}

// Describe turns an error returned by the coordinator into the code and
// message sent to the client. Infrastructure details never leave the server.
func Describe(err error) (code string, message string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			if e.err == ErrTryAgain {
				return e.code, ErrTryAgain.Error()
			}
			if e.err == ErrInvalidEvent || e.err == trivia.ErrInvalidSettings {
				return e.code, err.Error()
			}
			return e.code, e.err.Error()
		}
	}
	return CodeInternal, "internal error"
}
