package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
	"studyquest-backend/internal/services"
)

type GameHandler struct {
	sessionRepo *repository.SessionRepo
	scoreRepo   *repository.ScoreRepo
	userRepo    *repository.UserRepo
}

func NewGameHandler(sessionRepo *repository.SessionRepo, scoreRepo *repository.ScoreRepo, userRepo *repository.UserRepo) *GameHandler {
	return &GameHandler{
		sessionRepo: sessionRepo,
		scoreRepo:   scoreRepo,
		userRepo:    userRepo,
	}
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.sessionRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch sessions", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Evaluate grades a set of submitted answers against the session's stored
// quiz and returns the authoritative score without recording anything. The
// client calls this before SubmitScore so the score it reports is the one
// the server computed.
func (h *GameHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Answers []models.SubmittedAnswer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	var gameData models.GameData
	if err := json.Unmarshal(session.GameData, &gameData); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Session content is unreadable", r))
		return
	}
	if len(gameData.Quiz.Questions) == 0 {
		writeJSON(w, http.StatusConflict, errorResp("NOT_READY", "Session has no quiz content yet", r))
		return
	}

	result := services.EvaluateAnswers(gameData.Quiz.Questions, req.Answers)
	writeJSON(w, http.StatusOK, result)
}

// SubmitScore records a completed game run. The client reports its raw
// counters; XP and badges are derived server-side from the fixed rule table
// and folded into the user's cumulative progress.
func (h *GameHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req models.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateScoreRequest(req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid score payload", fields, r))
		return
	}

	xp, badges := services.DeriveRewards(req.Score, req.MaxScore, req.TimeSpent)

	score := &models.Score{
		SessionID:      session.ID,
		UserID:         session.UserID,
		Score:          req.Score,
		MaxScore:       req.MaxScore,
		TimeSpent:      req.TimeSpent,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		XPEarned:       xp,
		Badges:         joinBadges(badges),
	}

	if err := h.scoreRepo.Create(r.Context(), score); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record score", r))
		return
	}

	// The score is already recorded; a failed completion flag should not
	// fail the whole submission, but it must not vanish either.
	if err := h.sessionRepo.MarkCompleted(r.Context(), session.ID); err != nil {
		log.Printf("Failed to mark session %s completed: %v", session.ID, err)
	}

	user, err := h.userRepo.AddProgress(r.Context(), session.UserID, xp, badges)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update progress", r))
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitScoreResponse{
		ScoreID:   score.ID,
		XPEarned:  xp,
		NewBadges: badges,
		TotalXP:   user.XP,
		Level:     user.Level(),
	})
}

func (h *GameHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*models.GameSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return nil, false
	}

	if session.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return session, true
}

func validateScoreRequest(req models.SubmitScoreRequest) map[string]string {
	fields := make(map[string]string)
	if req.Score < 0 {
		fields["score"] = "Score must be non-negative"
	}
	if req.MaxScore < 1 {
		fields["max_score"] = "Max score must be at least 1"
	}
	if req.TimeSpent < 0 {
		fields["time_spent"] = "Time spent must be non-negative"
	}
	if req.CorrectAnswers < 0 {
		fields["correct_answers"] = "Correct answers must be non-negative"
	}
	if req.TotalQuestions < 1 {
		fields["total_questions"] = "Total questions must be at least 1"
	}
	if req.Score > req.MaxScore {
		fields["score"] = "Score cannot exceed max score"
	}
	return fields
}

func joinBadges(badges []string) string {
	return strings.Join(badges, ",")
}
