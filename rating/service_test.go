package rating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestService_AddValidRange(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	for value := 1; value <= 5; value++ {
		rec, err := svc.Add(ctx, fmt.Sprintf("user-%d", value), AddParams{
			StoreID: "store-1",
			Value:   value,
		})
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", value, err)
		}
		if rec.Value != value {
			t.Fatalf("expected value %d got %d", value, rec.Value)
		}
	}
}

func TestService_AddRejectsOutOfRange(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	for _, value := range []int{0, 6, -1, 100} {
		_, err := svc.Add(ctx, "user-1", AddParams{StoreID: "store-1", Value: value})
		if !errors.Is(err, ErrValueOutOfRange) {
			t.Fatalf("value %d: expected ErrValueOutOfRange, got %v", value, err)
		}
	}

	// Nothing may be persisted for rejected values.
	if n := len(repo.records); n != 0 {
		t.Fatalf("expected no persisted ratings, got %d", n)
	}
}

func TestService_AddRejectsLongComment(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.Add(context.Background(), "user-1", AddParams{
		StoreID: "store-1",
		Value:   4,
		Comment: strings.Repeat("x", 501),
	})
	if !errors.Is(err, ErrCommentTooLong) {
		t.Fatalf("expected ErrCommentTooLong, got %v", err)
	}
}

func TestService_AddDuplicateRejected(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "user-1", AddParams{StoreID: "store-1", Value: 4}); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if _, err := svc.Add(ctx, "user-1", AddParams{StoreID: "store-1", Value: 2}); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("expected ErrAlreadyRated, got %v", err)
	}

	// A different store is fine.
	if _, err := svc.Add(ctx, "user-1", AddParams{StoreID: "store-2", Value: 2}); err != nil {
		t.Fatalf("different store: %v", err)
	}
}

type fakeRepository struct {
	records map[string]Rating // keyed by userID+storeID
	nextID  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{records: make(map[string]Rating), nextID: 1}
}

func (f *fakeRepository) Create(ctx context.Context, userID string, params AddParams) (Rating, error) {
	key := userID + "|" + params.StoreID
	if _, exists := f.records[key]; exists {
		return Rating{}, ErrAlreadyRated
	}

	rec := Rating{
		ID:        fmt.Sprintf("rating-%d", f.nextID),
		Value:     params.Value,
		StoreID:   params.StoreID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if params.Comment != "" {
		comment := params.Comment
		rec.Comment = &comment
	}
	f.nextID++
	f.records[key] = rec
	return rec, nil
}

func (f *fakeRepository) ListForUser(ctx context.Context, userID string) ([]UserRating, error) {
	out := []UserRating{}
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, UserRating{Rating: rec, StoreName: "Store " + rec.StoreID})
		}
	}
	return out, nil
}
