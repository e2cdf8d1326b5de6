package coordinator

import (
	"dtrivia/models"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/trivia"
	"time"
)

// Payloads broadcast to rooms. They are derived from the committed session
// after the lock is released.

type RosterView struct {
	JoiningCode string              `json:"joining_code"`
	Player      models.PlayerInfo   `json:"player"` // who joined or left
	Host        models.PlayerInfo   `json:"host"`
	Players     []models.PlayerInfo `json:"players"`
	MaxPlayers  int                 `json:"max_players"`
}

type StartedView struct {
	JoiningCode    string              `json:"joining_code"`
	TotalQuestions int                 `json:"total_questions"`
	Players        []models.PlayerInfo `json:"players"`
}

type ReadyView struct {
	JoiningCode string              `json:"joining_code"`
	Players     []models.PlayerInfo `json:"players"`
}

type CancelledView struct {
	JoiningCode string `json:"joining_code"`
}

// QuestionView never carries the correct answer index
type QuestionView struct {
	JoiningCode    string     `json:"joining_code"`
	Number         int        `json:"number"` // 1-based
	TotalQuestions int        `json:"total_questions"`
	QuestionID     int64      `json:"question_id"`
	Question       string     `json:"question"`
	Answers        []string   `json:"answers"`
	Category       string     `json:"category"`
	StartedAt      *time.Time `json:"started_at"`
}

type CorrectAnswerView struct {
	JoiningCode string `json:"joining_code"`
	QuestionID  int64  `json:"question_id"`
	Answer      string `json:"answer"`
}

type ScoreLine struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type ScoresView struct {
	JoiningCode string      `json:"joining_code"`
	Scores      []ScoreLine `json:"scores"`
}

type EndView struct {
	JoiningCode string             `json:"joining_code"`
	Reason      string             `json:"reason"`
	Winner      *models.PlayerInfo `json:"winner"`
	Scores      []ScoreLine        `json:"scores"`
}

// End reasons
const (
	EndAllQuestionsServed = "all_questions_served"
	EndCatalogExhausted   = "no_questions_available"
)

func playerInfo(id int64, names map[int64]string) models.PlayerInfo {
	return models.PlayerInfo{ID: id, Name: names[id]}
}

func playerInfos(ids []int64, names map[int64]string) []models.PlayerInfo {
	infos := make([]models.PlayerInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, playerInfo(id, names))
	}
	return infos
}

func rosterView(s *redis_models.GameSession, player int64, names map[int64]string) RosterView {
	return RosterView{
		JoiningCode: s.JoiningCode,
		Player:      playerInfo(player, names),
		Host:        playerInfo(s.HostPlayer, names),
		Players:     playerInfos(s.Players, names),
		MaxPlayers:  s.MaxPlayers,
	}
}

func (c *Coordinator) questionView(s *redis_models.GameSession) QuestionView {
	q := s.CurrentQuestion
	answers := make([]string, len(q.Answers))
	copy(answers, q.Answers)
	c.shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })

	return QuestionView{
		JoiningCode:    s.JoiningCode,
		Number:         len(s.UsedQuestions),
		TotalQuestions: s.TotalQuestions,
		QuestionID:     q.ID,
		Question:       q.Question,
		Answers:        answers,
		Category:       q.CategoryName,
		StartedAt:      s.QuestionStartedAt,
	}
}

func scoreLines(s *redis_models.GameSession, names map[int64]string) []ScoreLine {
	standings := trivia.Standings(s)
	lines := make([]ScoreLine, 0, len(standings))
	for _, st := range standings {
		lines = append(lines, ScoreLine{ID: st.Player, Name: names[st.Player], Score: st.Score})
	}
	return lines
}

func endView(s *redis_models.GameSession, reason string, names map[int64]string) EndView {
	view := EndView{
		JoiningCode: s.JoiningCode,
		Reason:      reason,
		Scores:      scoreLines(s, names),
	}
	if winner, ok := trivia.Winner(s); ok {
		info := playerInfo(winner, names)
		view.Winner = &info
	}
	return view
}

// Summary describes a lobby for the HTTP API
func Summary(s *redis_models.GameSession, names map[int64]string) models.GameSummary {
	return models.GameSummary{
		JoiningCode:    s.JoiningCode,
		Host:           playerInfo(s.HostPlayer, names),
		MaxPlayers:     s.MaxPlayers,
		TotalQuestions: s.TotalQuestions,
		Players:        playerInfos(s.Players, names),
		IsStarted:      s.IsStarted,
		IsFinished:     s.IsFinished,
		IsFull:         s.IsFull(),
		CreatedAt:      s.CreatedAt,
	}
}

// scoredPlayers returns every player that appears in the views of a session
func scoredPlayers(s *redis_models.GameSession) []int64 {
	ids := append([]int64{s.HostPlayer}, s.Players...)
	for id := range s.CurrentScores {
		ids = append(ids, id)
	}
	return ids
}
