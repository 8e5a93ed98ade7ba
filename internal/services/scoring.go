package services

import (
	"studyquest-backend/internal/models"
)

// ScoreResult is the authoritative grading of one quiz run.
type ScoreResult struct {
	Score          int `json:"score"`
	MaxScore       int `json:"max_score"`
	CorrectAnswers int `json:"correct_answers"`
}

// EvaluateAnswers grades submitted answers against the quiz questions.
// Multiple-choice needs an exact index match. Sequencing needs the full
// canonical order. Drag-drop grants full credit only when every item maps to
// its correct category, otherwise proportional partial credit floored to an
// integer. Each question is graded at most once, so Score never exceeds
// MaxScore regardless of how the answer list is shaped.
func EvaluateAnswers(questions []models.GameQuestion, answers []models.SubmittedAnswer) ScoreResult {
	result := ScoreResult{}
	for _, q := range questions {
		result.MaxScore += q.Points
	}

	answered := make(map[int]bool, len(questions))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) || answered[a.QuestionIndex] {
			continue
		}
		answered[a.QuestionIndex] = true
		q := questions[a.QuestionIndex]

		switch q.Type {
		case models.QuestionMultipleChoice:
			if a.AnswerIndex != nil && *a.AnswerIndex == q.AnswerIndex {
				result.Score += q.Points
				result.CorrectAnswers++
			}

		case models.QuestionDragDrop:
			// Only canonical items count; submitted keys outside the
			// answer map earn nothing.
			placed := 0
			for item, category := range a.Mapping {
				if want, ok := q.CorrectMap[item]; ok && want == category {
					placed++
				}
			}
			total := len(q.CorrectMap)
			if total == 0 {
				continue
			}
			if placed == total {
				result.Score += q.Points
				result.CorrectAnswers++
			} else {
				result.Score += placed * q.Points / total
			}

		case models.QuestionSequencing:
			if len(a.Order) != len(q.Sequence) {
				continue
			}
			match := true
			for i := range q.Sequence {
				if a.Order[i] != q.Sequence[i] {
					match = false
					break
				}
			}
			if match {
				result.Score += q.Points
				result.CorrectAnswers++
			}
		}
	}

	return result
}

// Badge thresholds and XP bonuses. Fixed deterministic rules.
const (
	BadgePerfectScore = "Perfect Score"
	BadgeExcellence   = "Excellence"
	BadgeGreatJob     = "Great Job"
	BadgeSpeedLearner = "Speed Learner"

	speedLearnerMaxSeconds = 60
)

// DeriveRewards applies the badge rule table to a submitted score.
// Base XP is floor(score * 10); the badge tier adds its bonus; finishing
// under a minute additionally grants Speed Learner.
func DeriveRewards(score, maxScore, timeSpent int) (xp int, badges []string) {
	xp = score * 10

	ratio := 0.0
	if maxScore > 0 {
		ratio = float64(score) / float64(maxScore)
	}

	switch {
	case ratio >= 1.0:
		badges = append(badges, BadgePerfectScore)
		xp += 50
	case ratio >= 0.9:
		badges = append(badges, BadgeExcellence)
		xp += 20
	case ratio >= 0.75:
		badges = append(badges, BadgeGreatJob)
		xp += 10
	}

	// timeSpent 0 means the client did not record elapsed time; it never
	// counts as a sub-minute run.
	if timeSpent > 0 && timeSpent < speedLearnerMaxSeconds {
		badges = append(badges, BadgeSpeedLearner)
		xp += 15
	}

	return xp, badges
}

// MergeBadges unions newly earned badges into the user's accumulated set,
// preserving order of first award and deduplicating.
func MergeBadges(existing []string, earned []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(earned))
	for _, b := range existing {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		merged = append(merged, b)
	}
	for _, b := range earned {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		merged = append(merged, b)
	}
	return merged
}
