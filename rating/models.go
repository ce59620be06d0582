package rating

import "time"

// Rating is a single user's 1-5 score for a store.
type Rating struct {
	ID        string
	Value     int
	Comment   *string
	StoreID   string
	UserID    string
	CreatedAt time.Time
}

// UserRating is a rating as shown on the caller's "my ratings" list.
type UserRating struct {
	Rating
	StoreName string
}

// AddParams contains caller-supplied rating fields. The user comes from the
// authenticated request context, never from the payload.
type AddParams struct {
	StoreID string `json:"storeId"`
	Value   int    `json:"rating"`
	Comment string `json:"comment"`
}
