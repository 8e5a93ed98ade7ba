package services

import "context"

type MediaResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind"` // "image" | "video"
}

// MediaSearchService is a placeholder for a future media provider
// integration. It currently always returns empty results; the endpoint
// exists so clients can build against the final contract.
type MediaSearchService struct{}

func NewMediaSearchService() *MediaSearchService {
	return &MediaSearchService{}
}

func (s *MediaSearchService) Search(ctx context.Context, query string) ([]MediaResult, error) {
	return []MediaResult{}, nil
}
