package main

import (
	"encoding/json"
	"net/http"

	"ratehub/rating"
	"ratehub/store"
)

type storeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Address   *string `json:"address,omitempty"`
	OwnerID   string  `json:"ownerId"`
	CreatedAt string  `json:"createdAt"`
}

type storeSummaryResponse struct {
	storeResponse
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
}

type ownerRatingResponse struct {
	ID        string  `json:"id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
	UserName  string  `json:"userName"`
	CreatedAt string  `json:"createdAt"`
}

type ownerStoreResponse struct {
	storeResponse
	AverageRating float64               `json:"averageRating"`
	Ratings       []ownerRatingResponse `json:"ratings"`
}

type ratingResponse struct {
	ID        string  `json:"id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
	StoreID   string  `json:"storeId"`
	CreatedAt string  `json:"createdAt"`
}

type myRatingResponse struct {
	ratingResponse
	StoreName string `json:"storeName"`
}

func toStoreResponse(st store.Store) storeResponse {
	return storeResponse{
		ID:        st.ID,
		Name:      st.Name,
		Email:     st.Email,
		Address:   st.Address,
		OwnerID:   st.OwnerID,
		CreatedAt: formatTime(st.CreatedAt),
	}
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.storeSvc.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	items := make([]storeSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, storeSummaryResponse{
			storeResponse: toStoreResponse(sum.Store),
			AverageRating: sum.AverageRating,
			RatingCount:   sum.RatingCount,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleOwnerStore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing user in request context")
		return
	}

	view, err := s.storeSvc.GetOwnerView(r.Context(), ownerID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	ratings := make([]ownerRatingResponse, 0, len(view.Ratings))
	for _, or := range view.Ratings {
		ratings = append(ratings, ownerRatingResponse{
			ID:        or.ID,
			Rating:    or.Value,
			Comment:   or.Comment,
			UserName:  or.UserName,
			CreatedAt: formatTime(or.CreatedAt),
		})
	}

	writeJSON(w, http.StatusOK, ownerStoreResponse{
		storeResponse: toStoreResponse(view.Store),
		AverageRating: view.AverageRating,
		Ratings:       ratings,
	})
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing user in request context")
		return
	}

	var params store.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := s.storeSvc.Create(r.Context(), ownerID, params)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStoreResponse(st))
}

func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing user in request context")
		return
	}

	var params rating.AddParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.ratingSvc.Add(r.Context(), userID, params)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ratingResponse{
		ID:        rec.ID,
		Rating:    rec.Value,
		Comment:   rec.Comment,
		StoreID:   rec.StoreID,
		CreatedAt: formatTime(rec.CreatedAt),
	})
}

func (s *Server) handleMyRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing user in request context")
		return
	}

	ratings, err := s.ratingSvc.ListForUser(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	items := make([]myRatingResponse, 0, len(ratings))
	for _, ur := range ratings {
		items = append(items, myRatingResponse{
			ratingResponse: ratingResponse{
				ID:        ur.ID,
				Rating:    ur.Value,
				Comment:   ur.Comment,
				StoreID:   ur.StoreID,
				CreatedAt: formatTime(ur.CreatedAt),
			},
			StoreName: ur.StoreName,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
