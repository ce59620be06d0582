package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ratehub/auth"
)

func TestService_CreateValidatesFields(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	base := CreateParams{
		Name:    "Corner Grocery and General Goods",
		Email:   "shop@example.com",
		Address: "12 Market Lane",
	}

	if _, err := svc.Create(ctx, "owner-1", CreateParams{Name: "Tiny", Email: base.Email}); !errors.Is(err, auth.ErrNameLength) {
		t.Fatalf("expected ErrNameLength, got %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", CreateParams{Name: base.Name, Email: "nope"}); !errors.Is(err, auth.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	st, err := svc.Create(ctx, "owner-1", base)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if st.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", st.OwnerID)
	}
	if st.Email != "shop@example.com" {
		t.Fatalf("unexpected email %q", st.Email)
	}
}

func TestService_CreateSecondStoreRejected(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	params := CreateParams{
		Name:  "Corner Grocery and General Goods",
		Email: "shop@example.com",
	}
	if _, err := svc.Create(ctx, "owner-1", params); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", params); !errors.Is(err, ErrOwnerHasStore) {
		t.Fatalf("expected ErrOwnerHasStore, got %v", err)
	}
}

func TestService_GetOwnerViewScopedToOwner(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	st, err := svc.Create(ctx, "owner-1", CreateParams{
		Name:  "Corner Grocery and General Goods",
		Email: "shop@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.ratings[st.ID] = []OwnerRating{
		{ID: "r1", Value: 5, UserName: "Rita Rater", CreatedAt: time.Now()},
		{ID: "r2", Value: 2, UserName: "Sam Scorer", CreatedAt: time.Now()},
	}

	view, err := svc.GetOwnerView(ctx, "owner-1")
	if err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if view.Store.ID != st.ID || len(view.Ratings) != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.AverageRating != 3.5 {
		t.Fatalf("expected average 3.5, got %v", view.AverageRating)
	}

	if _, err := svc.GetOwnerView(ctx, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

type fakeRepository struct {
	byOwner map[string]Store
	ratings map[string][]OwnerRating
	nextID  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byOwner: make(map[string]Store),
		ratings: make(map[string][]OwnerRating),
		nextID:  1,
	}
}

func (f *fakeRepository) Create(ctx context.Context, ownerID string, params CreateParams) (Store, error) {
	if _, exists := f.byOwner[ownerID]; exists {
		return Store{}, ErrOwnerHasStore
	}

	st := Store{
		ID:        fmt.Sprintf("store-%d", f.nextID),
		Name:      params.Name,
		Email:     params.Email,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if params.Address != "" {
		addr := params.Address
		st.Address = &addr
	}
	f.nextID++
	f.byOwner[ownerID] = st
	return st, nil
}

func (f *fakeRepository) GetByOwner(ctx context.Context, ownerID string) (Store, error) {
	st, ok := f.byOwner[ownerID]
	if !ok {
		return Store{}, ErrNotFound
	}
	return st, nil
}

func (f *fakeRepository) List(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	for _, st := range f.byOwner {
		sum := Summary{Store: st}
		for _, r := range f.ratings[st.ID] {
			sum.AverageRating += float64(r.Value)
			sum.RatingCount++
		}
		if sum.RatingCount > 0 {
			sum.AverageRating /= float64(sum.RatingCount)
		}
		out = append(out, sum)
	}
	return out, nil
}

func (f *fakeRepository) ListRatings(ctx context.Context, storeID string) ([]OwnerRating, error) {
	return f.ratings[storeID], nil
}
