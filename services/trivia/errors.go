package trivia

import "errors"

// Validation errors: the action is rejected, nothing is mutated or broadcast
var (
	ErrGameFull          = errors.New("game is full")
	ErrAlreadyMember     = errors.New("player already in game")
	ErrNotMember         = errors.New("player not in game")
	ErrHostCannotLeave   = errors.New("host cannot leave the game")
	ErrNotHost           = errors.New("player is not the host")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrNotStarted        = errors.New("game has not started")
	ErrNoCurrentQuestion = errors.New("no question is being asked")
	ErrInvalidSettings   = errors.New("invalid game settings")
)

// Exhaustion signals: the game is over, callers announce the end
var (
	ErrGameAlreadyFinished  = errors.New("game already finished")
	ErrNoMoreQuestions      = errors.New("no more questions")
	ErrNoQuestionsAvailable = errors.New("no questions available")
)

var validationErrors = []error{
	ErrGameFull,
	ErrAlreadyMember,
	ErrNotMember,
	ErrHostCannotLeave,
	ErrNotHost,
	ErrAlreadyStarted,
	ErrNotStarted,
	ErrNoCurrentQuestion,
	ErrInvalidSettings,
}

var exhaustionErrors = []error{
	ErrGameAlreadyFinished,
	ErrNoMoreQuestions,
	ErrNoQuestionsAvailable,
}

// IsValidation reports whether err rejects an action without touching state
func IsValidation(err error) bool {
	return isAny(err, validationErrors)
}

// IsExhaustion reports whether err signals that no further question will be served
func IsExhaustion(err error) bool {
	return isAny(err, exhaustionErrors)
}

func isAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
