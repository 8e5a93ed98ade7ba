package models

import (
	"time"

	"github.com/google/uuid"
)

type Upload struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Kind          string     `json:"kind"`   // "file" | "url"
	Status        string     `json:"status"` // "pending" | "processing" | "completed" | "failed"
	Title         string     `json:"title"`
	FilePath      *string    `json:"file_path"`
	SourceURL     *string    `json:"source_url"`
	MimeType      string     `json:"mime_type"`
	ExtractedText *string    `json:"extracted_text"`
	WordCount     *int       `json:"word_count"`
	PageCount     *int       `json:"page_count"`
	IsProcessed   bool       `json:"is_processed"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type UploadFromURLRequest struct {
	URL string `json:"url"`
}
