package models

import (
	"time"

	"github.com/google/uuid"
)

// Score is an append-only record written once per completed game session.
type Score struct {
	ID             uuid.UUID `json:"id"`
	SessionID      uuid.UUID `json:"session_id"`
	UserID         uuid.UUID `json:"user_id"`
	Score          int       `json:"score"`
	MaxScore       int       `json:"max_score"`
	TimeSpent      int       `json:"time_spent"` // seconds
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	XPEarned       int       `json:"xp_earned"`
	Badges         string    `json:"badges"` // comma-joined
	CreatedAt      time.Time `json:"created_at"`
}

type SubmitScoreRequest struct {
	Score          int `json:"score"`
	MaxScore       int `json:"max_score"`
	TimeSpent      int `json:"time_spent"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

type SubmitScoreResponse struct {
	ScoreID   uuid.UUID `json:"score_id"`
	XPEarned  int       `json:"xp_earned"`
	NewBadges []string  `json:"new_badges"`
	TotalXP   int       `json:"total_xp"`
	Level     int       `json:"level"`
}
