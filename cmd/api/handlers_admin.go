package main

import (
	"encoding/json"
	"net/http"

	"ratehub/admin"
	"ratehub/auth"
)

type adminUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *string   `json:"address,omitempty"`
	Role      auth.Role `json:"role"`
	StoreName *string   `json:"storeName,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

type statsResponse struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalStores   int     `json:"totalStores"`
	TotalRatings  int     `json:"totalRatings"`
	AverageRating float64 `json:"averageRating"`
}

func toAdminUserResponse(u admin.UserRecord) adminUserResponse {
	return adminUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		StoreName: u.StoreName,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.adminSvc.ListUsers(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	items := make([]adminUserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toAdminUserResponse(u))
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": items})
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.authSvc.CreateUser(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminSvc.Stats(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalUsers:    stats.TotalUsers,
		TotalStores:   stats.TotalStores,
		TotalRatings:  stats.TotalRatings,
		AverageRating: stats.AverageRating,
	})
}
