// Package trivia holds the state transitions of a game session.
//
// Every transition mutates the session it is given and returns a domain
// error when the action is not allowed. Callers load a fresh session from
// the store for each event and only persist it when the transition allows
// it, so a rejected or failed transition is never observable.
package trivia

import (
	"context"
	game_constants "dtrivia/constants/game"
	redis_models "dtrivia/models/redis"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

// QuestionSource serves random catalog questions. A nil question with a nil
// error means the catalog has nothing left for the given exclusions.
type QuestionSource interface {
	FetchRandom(ctx context.Context, excludeIDs []int64, excludeCategories []int64) (*redis_models.Question, error)
}

// Standing is one line of the scoreboard
type Standing struct {
	Player int64
	Score  int
}

// NewGameSession creates the session of a freshly formed lobby. The host is
// the first player and starts with a score of 0.
func NewGameSession(joiningCode string, maxPlayers int, host int64, totalQuestions int,
	excludeCategories []int64, now time.Time) (*redis_models.GameSession, error) {

	if joiningCode == "" {
		return nil, fmt.Errorf("%w: empty joining code", ErrInvalidSettings)
	}
	if maxPlayers < game_constants.MIN_PLAYERS || maxPlayers > game_constants.MAX_PLAYERS {
		return nil, fmt.Errorf("%w: max players must be between %d and %d",
			ErrInvalidSettings, game_constants.MIN_PLAYERS, game_constants.MAX_PLAYERS)
	}
	if totalQuestions < 1 || totalQuestions > game_constants.MAX_TOTAL_QUESTIONS {
		return nil, fmt.Errorf("%w: total questions must be between 1 and %d",
			ErrInvalidSettings, game_constants.MAX_TOTAL_QUESTIONS)
	}

	excluded := make([]int64, 0, len(excludeCategories))
	for _, category := range excludeCategories {
		if !slices.Contains(excluded, category) {
			excluded = append(excluded, category)
		}
	}

	return &redis_models.GameSession{
		JoiningCode:       joiningCode,
		MaxPlayers:        maxPlayers,
		HostPlayer:        host,
		Players:           []int64{host},
		InGamePlayers:     []int64{},
		UsedQuestions:     []redis_models.Question{},
		CurrentScores:     map[int64]int{host: 0},
		AnsweredPlayers:   []int64{},
		TotalQuestions:    totalQuestions,
		ExcludeCategories: excluded,
		CreatedAt:         now.UTC(),
	}, nil
}

// AddPlayer appends the actor to the roster with a score of 0
func AddPlayer(s *redis_models.GameSession, actor int64) error {
	if s.HasPlayer(actor) {
		return ErrAlreadyMember
	}
	if s.IsStarted {
		return ErrAlreadyStarted
	}
	if s.IsFull() {
		return ErrGameFull
	}
	s.Players = append(s.Players, actor)
	if s.CurrentScores == nil {
		s.CurrentScores = make(map[int64]int)
	}
	if _, ok := s.CurrentScores[actor]; !ok {
		s.CurrentScores[actor] = 0
	}
	return nil
}

// RemovePlayer takes the actor out of the roster. The score entry stays so
// the final standings still show it. Players can only leave the lobby, once
// the game started the roster is fixed.
func RemovePlayer(s *redis_models.GameSession, actor int64) error {
	if !s.HasPlayer(actor) {
		return ErrNotMember
	}
	if actor == s.HostPlayer {
		return ErrHostCannotLeave
	}
	if s.IsStarted {
		return ErrAlreadyStarted
	}
	s.Players = slices.DeleteFunc(s.Players, func(p int64) bool { return p == actor })
	s.InGamePlayers = slices.DeleteFunc(s.InGamePlayers, func(p int64) bool { return p == actor })
	return nil
}

// MarkInGame records that the actor reached the game screen. It returns true
// once every player of the roster is in game.
func MarkInGame(s *redis_models.GameSession, actor int64) (bool, error) {
	if !s.HasPlayer(actor) {
		return false, ErrNotMember
	}
	if !s.IsInGame(actor) {
		s.InGamePlayers = append(s.InGamePlayers, actor)
	}
	for _, player := range s.Players {
		if !s.IsInGame(player) {
			return false, nil
		}
	}
	return true, nil
}

// Start marks the game as started. Only the host can start it, once.
func Start(s *redis_models.GameSession, actor int64) error {
	if actor != s.HostPlayer {
		return ErrNotHost
	}
	if s.IsStarted {
		return ErrAlreadyStarted
	}
	s.IsStarted = true
	return nil
}

// AdvanceQuestion serves the next question. The served question becomes the
// current one and is appended to the used questions right away, so serving
// the last question of the game also marks the game as finished. Calling it
// again on a finished game fails with ErrGameAlreadyFinished. Questions are
// only served once the host started the game.
func AdvanceQuestion(ctx context.Context, s *redis_models.GameSession, source QuestionSource, now time.Time) error {
	if !s.IsStarted {
		return ErrNotStarted
	}
	if s.IsFinished {
		return ErrGameAlreadyFinished
	}
	if s.CurrentQuestion != nil && !containsQuestion(s.UsedQuestions, s.CurrentQuestion.ID) {
		s.UsedQuestions = append(s.UsedQuestions, *s.CurrentQuestion)
	}
	if len(s.UsedQuestions) >= s.TotalQuestions {
		s.IsFinished = true
		return ErrNoMoreQuestions
	}

	question, err := source.FetchRandom(ctx, s.UsedQuestionIDs(), s.ExcludeCategories)
	if err != nil {
		return fmt.Errorf("fetching question for game %s: %w", s.JoiningCode, err)
	}
	if question == nil {
		s.IsFinished = true
		return ErrNoQuestionsAvailable
	}

	servedAt := now.UTC()
	s.CurrentQuestion = question
	s.QuestionStartedAt = &servedAt
	s.UsedQuestions = append(s.UsedQuestions, *question)
	s.AnsweredPlayers = []int64{}
	if len(s.UsedQuestions) >= s.TotalQuestions {
		s.IsFinished = true
	}
	return nil
}

// RecordAnswer scores the actor's answer to the current question. Wrong
// answers, answers without a current question and repeated answers are
// ignored. A correct answer is worth floor(timeLeft) points, capped at
// MAX_POINTS_PER_ANSWER and never negative.
func RecordAnswer(s *redis_models.GameSession, actor int64, answer string, timeLeft float64) (int, error) {
	if !s.HasPlayer(actor) {
		return 0, ErrNotMember
	}
	if s.CurrentQuestion == nil || s.HasAnswered(actor) {
		return 0, nil
	}
	s.AnsweredPlayers = append(s.AnsweredPlayers, actor)
	if answer != s.CurrentQuestion.CorrectAnswerText() {
		return 0, nil
	}

	points := AnswerPoints(timeLeft)
	if s.CurrentScores == nil {
		s.CurrentScores = make(map[int64]int)
	}
	s.CurrentScores[actor] += points
	return points, nil
}

// AnswerPoints converts the seconds left on the clock into points
func AnswerPoints(timeLeft float64) int {
	if math.IsNaN(timeLeft) || timeLeft <= 0 {
		return 0
	}
	return int(math.Min(game_constants.MAX_POINTS_PER_ANSWER, math.Floor(timeLeft)))
}

// Standings orders every scored player by score, highest first. Players who
// left keep their place in the standings. Ties keep join order.
func Standings(s *redis_models.GameSession) []Standing {
	order := make([]int64, 0, len(s.CurrentScores))
	order = append(order, s.Players...)

	// Players that left are no longer in the roster, append them by id
	var departed []int64
	for player := range s.CurrentScores {
		if !slices.Contains(order, player) {
			departed = append(departed, player)
		}
	}
	slices.Sort(departed)
	order = append(order, departed...)

	standings := make([]Standing, 0, len(order))
	for _, player := range order {
		standings = append(standings, Standing{Player: player, Score: s.CurrentScores[player]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

// Winner returns the player with the highest score, the earliest joined
// player wins a tie. The second value is false when nobody is scored.
func Winner(s *redis_models.GameSession) (int64, bool) {
	standings := Standings(s)
	if len(standings) == 0 {
		return 0, false
	}
	return standings[0].Player, true
}

// RevealAnswer returns the correct answer of the current question
func RevealAnswer(s *redis_models.GameSession, actor int64) (string, error) {
	if !s.HasPlayer(actor) {
		return "", ErrNotMember
	}
	if s.CurrentQuestion == nil {
		return "", ErrNoCurrentQuestion
	}
	return s.CurrentQuestion.CorrectAnswerText(), nil
}

func containsQuestion(questions []redis_models.Question, id int64) bool {
	return slices.ContainsFunc(questions, func(q redis_models.Question) bool { return q.ID == id })
}
