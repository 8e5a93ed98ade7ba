package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

type ScoreRepo struct {
	pool *pgxpool.Pool
}

func NewScoreRepo(pool *pgxpool.Pool) *ScoreRepo {
	return &ScoreRepo{pool: pool}
}

// Create appends a score record. Scores are never updated or deleted.
func (r *ScoreRepo) Create(ctx context.Context, s *models.Score) error {
	s.ID = uuid.New()

	query := `INSERT INTO scores (id, session_id, user_id, score, max_score, time_spent, correct_answers, total_questions, xp_earned, badges)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.SessionID, s.UserID, s.Score, s.MaxScore, s.TimeSpent,
		s.CorrectAnswers, s.TotalQuestions, s.XPEarned, s.Badges,
	).Scan(&s.CreatedAt)
}

func (r *ScoreRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Score, error) {
	query := `SELECT id, session_id, user_id, score, max_score, time_spent, correct_answers, total_questions, xp_earned, badges, created_at
		FROM scores WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*models.Score
	for rows.Next() {
		s := &models.Score{}
		err := rows.Scan(
			&s.ID, &s.SessionID, &s.UserID, &s.Score, &s.MaxScore, &s.TimeSpent,
			&s.CorrectAnswers, &s.TotalQuestions, &s.XPEarned, &s.Badges, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// UserTotals returns how many sessions a user completed and their summed raw score.
func (r *ScoreRepo) UserTotals(ctx context.Context, userID uuid.UUID) (completed int, totalScore int, err error) {
	err = r.pool.QueryRow(ctx,
		"SELECT COUNT(*), COALESCE(SUM(score), 0) FROM scores WHERE user_id = $1",
		userID,
	).Scan(&completed, &totalScore)
	return completed, totalScore, err
}

func (r *ScoreRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM scores").Scan(&n)
	return n, err
}

// AverageScorePercent computes the mean score ratio across all submissions.
func (r *ScoreRepo) AverageScorePercent(ctx context.Context) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(AVG(score::float / NULLIF(max_score, 0)) * 100, 0) FROM scores",
	).Scan(&avg)
	return avg, err
}
