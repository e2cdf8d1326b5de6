package redis

import (
	"slices"
	"time"
)

// Question is a catalog question as it travels inside a game session.
// CorrectAnswer is an index into Answers.
type Question struct {
	ID            int64    `json:"id"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correct_answer"`
	CategoryID    int64    `json:"category_id"`
	CategoryName  string   `json:"category_name"`
}

// CorrectAnswerText returns the text of the correct answer, or "" if the
// index is out of range.
func (q *Question) CorrectAnswerText() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Answers) {
		return ""
	}
	return q.Answers[q.CorrectAnswer]
}

// GameSession represents one trivia match while it is being played
// Key format: "games:{joining_code}"
// TTL: refreshed on every save
type GameSession struct {
	JoiningCode       string        `json:"joining_code"`
	MaxPlayers        int           `json:"max_players"`
	HostPlayer        int64         `json:"host_player"`
	Players           []int64       `json:"players"`         // join order, host first
	InGamePlayers     []int64       `json:"in_game_players"` // players that reached the game screen
	UsedQuestions     []Question    `json:"used_questions"`  // every question served, current one included
	CurrentQuestion   *Question     `json:"current_question"`
	CurrentScores     map[int64]int `json:"current_scores"`
	AnsweredPlayers   []int64       `json:"answered_players"` // answered the current question
	IsStarted         bool          `json:"is_started"`
	IsFinished        bool          `json:"is_finished"`
	TotalQuestions    int           `json:"total_questions"`
	ExcludeCategories []int64       `json:"exclude_categories"`
	QuestionStartedAt *time.Time    `json:"current_question_start_time"`
	CreatedAt         time.Time     `json:"created_at"`
}

// HasPlayer reports whether the player is in the lobby roster
func (s *GameSession) HasPlayer(player int64) bool {
	return slices.Contains(s.Players, player)
}

// IsInGame reports whether the player acknowledged the game screen
func (s *GameSession) IsInGame(player int64) bool {
	return slices.Contains(s.InGamePlayers, player)
}

// HasAnswered reports whether the player already answered the current question
func (s *GameSession) HasAnswered(player int64) bool {
	return slices.Contains(s.AnsweredPlayers, player)
}

// UsedQuestionIDs returns the ids of every question served so far
func (s *GameSession) UsedQuestionIDs() []int64 {
	ids := make([]int64, 0, len(s.UsedQuestions))
	for _, q := range s.UsedQuestions {
		ids = append(ids, q.ID)
	}
	return ids
}

// IsFull reports whether no more players can join
func (s *GameSession) IsFull() bool {
	return len(s.Players) >= s.MaxPlayers
}
