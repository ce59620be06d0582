package store

import (
	"context"

	"ratehub/auth"
)

// Service handles store business logic. Role enforcement happens at the HTTP
// layer; every operation here is additionally scoped to the calling owner so
// one owner can never read or write another owner's store.
type Service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and creates the calling owner's store.
// Store names and emails follow the same rules as account fields.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (Store, error) {
	name, err := auth.ValidateName(params.Name)
	if err != nil {
		return Store{}, err
	}
	email, err := auth.NormalizeEmail(params.Email)
	if err != nil {
		return Store{}, err
	}
	address, err := auth.ValidateAddress(params.Address)
	if err != nil {
		return Store{}, err
	}

	return s.repo.Create(ctx, ownerID, CreateParams{
		Name:    name,
		Email:   email,
		Address: address,
	})
}

// GetOwnerView returns the calling owner's store together with its ratings.
func (s *Service) GetOwnerView(ctx context.Context, ownerID string) (OwnerView, error) {
	st, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return OwnerView{}, err
	}

	ratings, err := s.repo.ListRatings(ctx, st.ID)
	if err != nil {
		return OwnerView{}, err
	}

	view := OwnerView{Store: st, Ratings: ratings}
	if len(ratings) > 0 {
		total := 0
		for _, r := range ratings {
			total += r.Value
		}
		view.AverageRating = float64(total) / float64(len(ratings))
	}

	return view, nil
}

// List returns the public catalogue with rating aggregates.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}
