package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

type AdminHandler struct {
	userRepo    *repository.UserRepo
	uploadRepo  *repository.UploadRepo
	sessionRepo *repository.SessionRepo
	scoreRepo   *repository.ScoreRepo
}

func NewAdminHandler(userRepo *repository.UserRepo, uploadRepo *repository.UploadRepo, sessionRepo *repository.SessionRepo, scoreRepo *repository.ScoreRepo) *AdminHandler {
	return &AdminHandler{
		userRepo:    userRepo,
		uploadRepo:  uploadRepo,
		sessionRepo: sessionRepo,
		scoreRepo:   scoreRepo,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userRepo.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	uploads, err := h.uploadRepo.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	sessions, err := h.sessionRepo.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	completed, err := h.sessionRepo.CountCompleted(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	scores, err := h.scoreRepo.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	avgScore, err := h.scoreRepo.AverageScorePercent(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_users":         users,
		"total_uploads":       uploads,
		"total_sessions":      sessions,
		"completed_sessions":  completed,
		"total_scores":        scores,
		"average_score_pct":   avgScore,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, err := h.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch users", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	switch req.Role {
	case models.RoleUser, models.RoleModerator, models.RoleAdmin:
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown role", r))
		return
	}

	if err := h.userRepo.UpdateRole(r.Context(), id, req.Role); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update role", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
		return
	}

	if id == middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Cannot deactivate your own account", r))
		return
	}

	if err := h.userRepo.Deactivate(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to deactivate user", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deactivated"})
}

func (h *AdminHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	uploads, err := h.uploadRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch uploads", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"uploads": uploads})
}

func (h *AdminHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload ID", r))
		return
	}

	if err := h.uploadRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete upload", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload deleted"})
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
