package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyquest-backend/internal/extract"
	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

// MaxUploadSize caps document uploads at 10 MiB.
const MaxUploadSize = 10 << 20

type UploadHandler struct {
	uploadRepo  *repository.UploadRepo
	sessionRepo *repository.SessionRepo
	jobRepo     *repository.JobRepo
	redis       *redis.Client
	storagePath string
}

func NewUploadHandler(uploadRepo *repository.UploadRepo, sessionRepo *repository.SessionRepo, jobRepo *repository.JobRepo, redisClient *redis.Client, storagePath string) *UploadHandler {
	return &UploadHandler{
		uploadRepo:  uploadRepo,
		sessionRepo: sessionRepo,
		jobRepo:     jobRepo,
		redis:       redisClient,
		storagePath: storagePath,
	}
}

var extensionMIME = map[string]string{
	".pdf":  extract.MimePDF,
	".docx": extract.MimeDOCX,
	".doc":  extract.MimeDOC,
	".pptx": extract.MimePPTX,
	".ppt":  extract.MimePPT,
	".txt":  extract.MimeText,
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > MaxUploadSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 10MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	// Magic byte check on the first 512 bytes
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	buf = buf[:n]

	mimeType := resolveMIME(http.DetectContentType(buf), header.Filename)
	if mimeType == "" {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported", r))
		return
	}

	file.Seek(0, io.SeekStart)

	userID := middleware.GetUserID(r.Context())
	fileID := uuid.New().String()
	relPath := filepath.Join("users", userID.String(), fileID+strings.ToLower(filepath.Ext(header.Filename)))

	fullPath := filepath.Join(h.storagePath, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	dst.Close()

	upload := &models.Upload{
		UserID:   userID,
		Kind:     "file",
		Title:    header.Filename,
		FilePath: &relPath,
		MimeType: mimeType,
	}

	if err := h.uploadRepo.Create(r.Context(), upload); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create upload record", r))
		return
	}

	h.enqueueJob(r, userID, "upload-processing", upload.ID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"upload_id": upload.ID,
		"filename":  header.Filename,
		"mime_type": mimeType,
	})
}

func (h *UploadHandler) UploadFromURL(w http.ResponseWriter, r *http.Request) {
	var req models.UploadFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "URL must start with http:// or https://", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	upload := &models.Upload{
		UserID:    userID,
		Kind:      "url",
		Title:     req.URL,
		SourceURL: &req.URL,
		MimeType:  "text/html",
	}

	if err := h.uploadRepo.Create(r.Context(), upload); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create upload record", r))
		return
	}

	h.enqueueJob(r, userID, "upload-processing", upload.ID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"upload_id": upload.ID,
		"url":       req.URL,
	})
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	uploads, err := h.uploadRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch uploads", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"uploads": uploads})
}

func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.ownedUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.ownedUpload(w, r)
	if !ok {
		return
	}

	if err := h.uploadRepo.Delete(r.Context(), upload.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete upload", r))
		return
	}

	if upload.FilePath != nil {
		os.Remove(filepath.Join(h.storagePath, *upload.FilePath))
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Upload deleted"})
}

// Process creates (at most) one interactive session per upload and queues
// game generation. The existence check is a plain lookup, not a transactional
// constraint: two concurrent calls can both miss it and produce duplicate
// sessions with identical content. Accepted as harmless.
func (h *UploadHandler) Process(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.ownedUpload(w, r)
	if !ok {
		return
	}

	if existing, err := h.sessionRepo.FindByUpload(r.Context(), upload.ID, models.SessionTypeInteractive); err == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": existing.ID,
			"status":     "exists",
		})
		return
	}

	job := h.enqueueJob(r, upload.UserID, "game-generation", upload.ID)
	if job == nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue game generation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": "queued",
	})
}

func (h *UploadHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"max_upload_bytes": MaxUploadSize,
		"formats": []map[string]string{
			{"extension": ".pdf", "mime_type": extract.MimePDF, "description": "PDF Document"},
			{"extension": ".docx", "mime_type": extract.MimeDOCX, "description": "Word Document"},
			{"extension": ".pptx", "mime_type": extract.MimePPTX, "description": "PowerPoint Presentation"},
			{"extension": ".txt", "mime_type": extract.MimeText, "description": "Plain Text"},
		},
	})
}

func (h *UploadHandler) ownedUpload(w http.ResponseWriter, r *http.Request) (*models.Upload, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload ID", r))
		return nil, false
	}

	upload, err := h.uploadRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Upload not found", r))
		return nil, false
	}

	if upload.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return upload, true
}

func (h *UploadHandler) enqueueJob(r *http.Request, userID uuid.UUID, jobType string, reference uuid.UUID) *models.Job {
	job := &models.Job{
		UserID:      userID,
		Type:        jobType,
		ReferenceID: reference,
	}

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		return nil
	}

	jobBytes, _ := json.Marshal(job)
	h.redis.LPush(r.Context(), "queue:"+jobType, string(jobBytes))
	return job
}

// resolveMIME prefers the extension mapping for the formats we accept, and
// falls back to the sniffed type for plain text.
func resolveMIME(sniffed, filename string) string {
	if mime, ok := extensionMIME[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	if strings.HasPrefix(sniffed, "text/plain") {
		return extract.MimeText
	}
	return ""
}
