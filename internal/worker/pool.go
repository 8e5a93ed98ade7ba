package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyquest-backend/internal/extract"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
	"studyquest-backend/internal/services"
)

type Pool struct {
	redis        *redis.Client
	extractor    *extract.Service
	urlExtractor *extract.URLExtractor
	generator    services.ContentGenerator
	uploadRepo   *repository.UploadRepo
	sessionRepo  *repository.SessionRepo
	jobRepo      *repository.JobRepo
	storagePath  string
	tokenBudget  int
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	extractor *extract.Service,
	urlExtractor *extract.URLExtractor,
	generator services.ContentGenerator,
	uploadRepo *repository.UploadRepo,
	sessionRepo *repository.SessionRepo,
	jobRepo *repository.JobRepo,
	storagePath string,
	tokenBudget int,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		extractor:    extractor,
		urlExtractor: urlExtractor,
		generator:    generator,
		uploadRepo:   uploadRepo,
		sessionRepo:  sessionRepo,
		jobRepo:      jobRepo,
		storagePath:  storagePath,
		tokenBudget:  tokenBudget,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:upload-processing",
		"queue:game-generation",
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		p.PublishUpdate(ctx, job.UserID, models.WSMessage{
			Type: "status_update",
			Payload: models.StatusUpdate{
				JobID:    job.ID,
				Step:     1,
				StepName: "Analyzing content",
			},
		})

		var resultID uuid.UUID
		var processErr error
		switch job.Type {
		case "upload-processing":
			resultID, processErr = p.processUpload(ctx, &job)
		case "game-generation":
			resultID, processErr = p.processGame(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job, resultID)
		}

		p.redis.Del(ctx, lockKey)
	}
}

// processUpload extracts text from the stored file or source URL and saves
// it on the upload record.
func (p *Pool) processUpload(ctx context.Context, job *models.Job) (uuid.UUID, error) {
	upload, err := p.uploadRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get upload: %w", err)
	}

	p.uploadRepo.UpdateStatus(ctx, upload.ID, "processing")

	p.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:    job.ID,
			Step:     2,
			StepName: "Extracting text",
		},
	})

	var content *extract.ExtractedContent
	var extractErr error

	switch upload.Kind {
	case "url":
		if upload.SourceURL == nil || *upload.SourceURL == "" {
			extractErr = fmt.Errorf("url upload has no source url")
			break
		}
		content, extractErr = p.urlExtractor.FromURL(ctx, *upload.SourceURL)

	case "file":
		if upload.FilePath == nil || *upload.FilePath == "" {
			extractErr = fmt.Errorf("file upload has no file path")
			break
		}
		data, readErr := os.ReadFile(filepath.Join(p.storagePath, *upload.FilePath))
		if readErr != nil {
			extractErr = fmt.Errorf("failed to read stored file: %w", readErr)
			break
		}
		content, extractErr = p.extractor.Extract(data, upload.Title, upload.MimeType)

	default:
		extractErr = fmt.Errorf("unknown upload kind: %s", upload.Kind)
	}

	if extractErr != nil {
		p.uploadRepo.UpdateStatus(ctx, upload.ID, "failed")
		return uuid.Nil, extractErr
	}

	if err := p.uploadRepo.SetExtracted(ctx, upload.ID, content.Text, content.Metadata.WordCount, content.Metadata.Pages); err != nil {
		p.uploadRepo.UpdateStatus(ctx, upload.ID, "failed")
		return uuid.Nil, fmt.Errorf("failed to save extracted text: %w", err)
	}

	log.Printf("Extracted %d words from upload %s", content.Metadata.WordCount, upload.ID)
	return upload.ID, nil
}

// processGame generates interactive game content from an upload's extracted
// text and stores it as a session. Creation is lookup-before-create, so two
// racing jobs can produce duplicate sessions; the content is identical either
// way.
func (p *Pool) processGame(ctx context.Context, job *models.Job) (uuid.UUID, error) {
	upload, err := p.uploadRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get upload: %w", err)
	}

	if upload.ExtractedText == nil || *upload.ExtractedText == "" {
		upload, err = p.waitForExtraction(ctx, upload.ID, 60*time.Second)
		if err != nil {
			return uuid.Nil, err
		}
	}

	if existing, err := p.sessionRepo.FindByUpload(ctx, upload.ID, models.SessionTypeInteractive); err == nil {
		log.Printf("Session %s already exists for upload %s, skipping generation", existing.ID, upload.ID)
		return existing.ID, nil
	}

	p.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID:    job.ID,
			Step:     2,
			StepName: "Generating game content",
		},
	})

	text := extract.TruncateForBudget(*upload.ExtractedText, p.tokenBudget)

	gameData, err := p.generator.Generate(ctx, text)
	if err != nil {
		return uuid.Nil, fmt.Errorf("game generation failed: %w", err)
	}

	dataBytes, err := json.Marshal(gameData)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to serialize game data: %w", err)
	}

	session := &models.GameSession{
		UploadID: upload.ID,
		UserID:   upload.UserID,
		GameData: dataBytes,
	}
	if err := p.sessionRepo.Create(ctx, session); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create game session: %w", err)
	}

	p.uploadRepo.MarkProcessed(ctx, upload.ID)

	log.Printf("Generated game session %s for upload %s", session.ID, upload.ID)
	return session.ID, nil
}

func (p *Pool) waitForExtraction(ctx context.Context, uploadID uuid.UUID, timeout time.Duration) (*models.Upload, error) {
	deadline := time.Now().Add(timeout)

	for {
		upload, err := p.uploadRepo.GetByID(ctx, uploadID)
		if err != nil {
			return nil, fmt.Errorf("failed to get upload: %w", err)
		}

		if upload.ExtractedText != nil && *upload.ExtractedText != "" {
			return upload, nil
		}

		if upload.Status == "failed" {
			return nil, fmt.Errorf("upload extraction failed")
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("extracted text not ready yet (status: %s)", upload.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, resultID uuid.UUID) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")

	p.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:      job.ID,
			ResultID:   resultID,
			ResultType: getResultType(job.Type),
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	errMsg := userFacingError(err)

	// Extraction failures are terminal: resubmitting the same bytes cannot
	// succeed, so the caller has to fix the document and upload again.
	// Everything else (db hiccups, network) gets the usual retry budget.
	if isExtractionError(err) || job.RetryCount+1 >= job.MaxRetries {
		log.Printf("Job %s failed permanently: %s", job.ID, err)
		p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)
		if job.Type == "upload-processing" {
			p.uploadRepo.UpdateStatus(ctx, job.ReferenceID, "failed")
		}

		p.PublishUpdate(ctx, job.UserID, models.WSMessage{
			Type: "error",
			Payload: models.ErrorEvent{
				JobID:        job.ID,
				ErrorCode:    "JOB_FAILED",
				ErrorMessage: errMsg,
			},
		})
		return
	}

	job.RetryCount++
	log.Printf("Job %s failed (attempt %d): %s — retrying", job.ID, job.RetryCount, err)
	p.jobRepo.UpdateStatus(ctx, job.ID, "queued")
	p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

	// Re-queue after backoff
	jobBytes, _ := json.Marshal(job)
	backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
	time.AfterFunc(backoff, func() {
		p.redis.LPush(context.Background(), "queue:"+job.Type, string(jobBytes))
	})
}

// PublishUpdate fans a message out to the user's websocket connections via
// Redis pub/sub.
func (p *Pool) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	p.redis.Publish(ctx, "user_updates:"+userID.String(), string(data))
}

func isExtractionError(err error) bool {
	return errors.Is(err, extract.ErrUnsupportedType) ||
		errors.Is(err, extract.ErrEmptyContent) ||
		errors.Is(err, extract.ErrLibraryUnavailable) ||
		errors.Is(err, extract.ErrFetch)
}

// userFacingError rewraps extraction taxonomy errors with a remediation hint.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		return "This file type is not supported. Try saving the document as a PDF, Word, PowerPoint, or text file."
	case errors.Is(err, extract.ErrEmptyContent):
		return "Not enough readable text was found in the document. Try saving it as a text file and uploading again."
	case errors.Is(err, extract.ErrLibraryUnavailable):
		return "The document could not be parsed. It may be corrupted or in a legacy format; try re-saving it in a modern format."
	case errors.Is(err, extract.ErrFetch):
		return "The page could not be fetched. Check the URL and try again."
	default:
		return err.Error()
	}
}

func getResultType(jobType string) string {
	switch jobType {
	case "game-generation":
		return "session"
	default:
		return "upload"
	}
}
