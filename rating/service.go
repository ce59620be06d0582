package rating

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrValueOutOfRange signals a rating outside 1-5.
	ErrValueOutOfRange = errors.New("rating: value must be an integer between 1 and 5")
	// ErrCommentTooLong signals a comment over 500 characters.
	ErrCommentTooLong = errors.New("rating: comment must be at most 500 characters")
)

const maxCommentLen = 500

// Service handles rating business logic.
type Service struct {
	repo Repository
}

// NewService creates a new rating service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add validates and records the caller's rating for a store. Validation runs
// before any write: an out-of-range value never reaches the database.
func (s *Service) Add(ctx context.Context, userID string, params AddParams) (Rating, error) {
	if params.Value < 1 || params.Value > 5 {
		return Rating{}, fmt.Errorf("%w: got %d", ErrValueOutOfRange, params.Value)
	}
	if len([]rune(params.Comment)) > maxCommentLen {
		return Rating{}, ErrCommentTooLong
	}
	if params.StoreID == "" {
		return Rating{}, ErrStoreNotFound
	}

	return s.repo.Create(ctx, userID, params)
}

// ListForUser returns the caller's own ratings.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]UserRating, error) {
	return s.repo.ListForUser(ctx, userID)
}
