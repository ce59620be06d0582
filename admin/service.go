package admin

import "context"

// Service handles admin business logic. It is read-only; admin user creation
// goes through the auth service so the password policy stays in one place.
type Service struct {
	repo Repository
}

// NewService creates a new admin service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats returns platform totals.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]UserRecord, error) {
	return s.repo.ListUsers(ctx)
}
