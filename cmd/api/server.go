package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"ratehub/admin"
	"ratehub/auth"
	"ratehub/rating"
	"ratehub/store"
)

type authService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	CreateUser(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	VerifyToken(ctx context.Context, token string) (string, auth.Role, error)
	Logout(ctx context.Context, token string) error
	UpdatePassword(ctx context.Context, userID, current, next string) error
}

type storeService interface {
	Create(ctx context.Context, ownerID string, params store.CreateParams) (store.Store, error)
	GetOwnerView(ctx context.Context, ownerID string) (store.OwnerView, error)
	List(ctx context.Context) ([]store.Summary, error)
}

type ratingService interface {
	Add(ctx context.Context, userID string, params rating.AddParams) (rating.Rating, error)
	ListForUser(ctx context.Context, userID string) ([]rating.UserRating, error)
}

type adminService interface {
	Stats(ctx context.Context) (admin.Stats, error)
	ListUsers(ctx context.Context) ([]admin.UserRecord, error)
}

// Server wires the domain services to the HTTP surface. The route guard in
// the client is a UX convenience only; every handler here re-checks the
// caller's role from the verified token before touching data.
type Server struct {
	log         *zap.Logger
	authSvc     authService
	storeSvc    storeService
	ratingSvc   ratingService
	adminSvc    adminService
	authLimiter *ipLimiter
}

// NewServer creates the HTTP server facade.
func NewServer(log *zap.Logger, authSvc authService, storeSvc storeService, ratingSvc ratingService, adminSvc adminService, authRatePerMin int) *Server {
	return &Server{
		log:         log,
		authSvc:     authSvc,
		storeSvc:    storeSvc,
		ratingSvc:   ratingSvc,
		adminSvc:    adminSvc,
		authLimiter: newIPLimiter(authRatePerMin),
	}
}

// Routes builds the router with the full middleware chain.
func (s *Server) Routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Server is up!\n"))
	})

	// Credential endpoints are rate limited per source IP.
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/auth/logout", s.handleLogout)
		r.Post("/auth/password", s.handleUpdatePassword)
		r.Get("/stores", s.handleListStores)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleUser))
			r.Post("/ratings", s.handleAddRating)
			r.Get("/ratings/mine", s.handleMyRatings)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleOwner))
			r.Get("/owner/store", s.handleOwnerStore)
			r.Post("/owner/store", s.handleCreateStore)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(auth.RoleAdmin))
			r.Get("/admin/users", s.handleAdminUsers)
			r.Post("/admin/users", s.handleAdminCreateUser)
			r.Get("/admin/stats", s.handleAdminStats)
		})
	})

	return r
}
