package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

type UploadRepo struct {
	pool *pgxpool.Pool
}

func NewUploadRepo(pool *pgxpool.Pool) *UploadRepo {
	return &UploadRepo{pool: pool}
}

func (r *UploadRepo) Create(ctx context.Context, u *models.Upload) error {
	u.ID = uuid.New()
	if u.Status == "" {
		u.Status = "pending"
	}

	query := `INSERT INTO uploads (id, user_id, kind, status, title, file_path, source_url, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		u.ID, u.UserID, u.Kind, u.Status, u.Title, u.FilePath, u.SourceURL, u.MimeType,
	).Scan(&u.CreatedAt)
}

const uploadColumns = `id, user_id, kind, status, title, file_path, source_url, mime_type,
	extracted_text, word_count, page_count, is_processed, processed_at, created_at`

func scanUpload(row interface{ Scan(...any) error }) (*models.Upload, error) {
	u := &models.Upload{}
	err := row.Scan(
		&u.ID, &u.UserID, &u.Kind, &u.Status, &u.Title, &u.FilePath, &u.SourceURL,
		&u.MimeType, &u.ExtractedText, &u.WordCount, &u.PageCount, &u.IsProcessed,
		&u.ProcessedAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UploadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = $1`
	return scanUpload(r.pool.QueryRow(ctx, query, id))
}

func (r *UploadRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listUploads(ctx, query, userID)
}

func (r *UploadRepo) List(ctx context.Context, limit, offset int) ([]*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listUploads(ctx, query, limit, offset)
}

func (r *UploadRepo) listUploads(ctx context.Context, query string, args ...any) ([]*models.Upload, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*models.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// SetExtracted saves the extraction output and flips the upload to completed.
func (r *UploadRepo) SetExtracted(ctx context.Context, id uuid.UUID, text string, wordCount, pageCount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE uploads SET extracted_text = $1, word_count = $2, page_count = NULLIF($3, 0), status = 'completed' WHERE id = $4`,
		text, wordCount, pageCount, id,
	)
	return err
}

func (r *UploadRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE uploads SET status = $1 WHERE id = $2", status, id)
	return err
}

// MarkProcessed records that a game session has been generated for this upload.
func (r *UploadRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE uploads SET is_processed = TRUE, processed_at = $1 WHERE id = $2",
		time.Now(), id,
	)
	return err
}

func (r *UploadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM uploads WHERE id = $1", id)
	return err
}

func (r *UploadRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM uploads").Scan(&n)
	return n, err
}
