package store

import "time"

// Store is a rated storefront. Exactly one per owner.
type Store struct {
	ID        string
	Name      string
	Email     string
	Address   *string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a catalogue entry with rating aggregates computed in SQL.
type Summary struct {
	Store
	AverageRating float64
	RatingCount   int
}

// OwnerRating is a single rating as shown on the owner dashboard,
// including the rater's display name.
type OwnerRating struct {
	ID        string
	Value     int
	Comment   *string
	UserName  string
	CreatedAt time.Time
}

// OwnerView bundles an owner's store with its ratings.
type OwnerView struct {
	Store         Store
	AverageRating float64
	Ratings       []OwnerRating
}

// CreateParams contains caller-supplied store fields. The owner comes from
// the authenticated request context, never from the payload.
type CreateParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
