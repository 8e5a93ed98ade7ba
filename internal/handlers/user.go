package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

type UserHandler struct {
	userRepo  *repository.UserRepo
	scoreRepo *repository.ScoreRepo
	redis     *redis.Client
}

func NewUserHandler(userRepo *repository.UserRepo, scoreRepo *repository.ScoreRepo, redisClient *redis.Client) *UserHandler {
	return &UserHandler{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		redis:     redisClient,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"level":  user.Level(),
		"badges": user.BadgeList(),
	})
}

func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	completed, totalScore, err := h.scoreRepo.UserTotals(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch progress", r))
		return
	}

	level := user.Level()
	writeJSON(w, http.StatusOK, models.UserProgress{
		UserID:         user.ID,
		XP:             user.XP,
		Level:          level,
		XPToNextLevel:  level*100 - user.XP,
		Badges:         user.BadgeList(),
		GamesCompleted: completed,
		TotalScore:     totalScore,
	})
}

const leaderboardCacheKey = "cache:leaderboard"

// Leaderboard returns the top users by XP, cached in Redis for a minute.
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if cached, err := h.redis.Get(r.Context(), leaderboardCacheKey).Result(); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	users, err := h.userRepo.TopByXP(r.Context(), 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch leaderboard", r))
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			UserID:   u.ID,
			FullName: u.FullName,
			XP:       u.XP,
			Level:    u.Level(),
			Rank:     i + 1,
		})
	}

	payload, _ := json.Marshal(map[string]interface{}{"leaderboard": entries})
	h.redis.Set(r.Context(), leaderboardCacheKey, payload, time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
