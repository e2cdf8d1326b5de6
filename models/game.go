package models

import "time"

// GameCreation to create a new game lobby
type GameCreation struct {
	MaxPlayers        int     `json:"max_players" binding:"required,min=1,max=16"`
	TotalQuestions    int     `json:"total_questions" binding:"omitempty,min=1,max=50"`
	ExcludeCategories []int64 `json:"exclude_categories"`
}

// PlayerInfo pairs a player id with its display name
type PlayerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameSummary represents a game lobby as shown to clients
type GameSummary struct {
	JoiningCode    string       `json:"joining_code"`
	Host           PlayerInfo   `json:"host"`
	MaxPlayers     int          `json:"max_players"`
	TotalQuestions int          `json:"total_questions"`
	Players        []PlayerInfo `json:"players"`
	IsStarted      bool         `json:"is_started"`
	IsFinished     bool         `json:"is_finished"`
	IsFull         bool         `json:"is_full"`
	CreatedAt      time.Time    `json:"created_at"`
}
