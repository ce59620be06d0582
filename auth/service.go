package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidRole signals a role outside the closed enum.
	ErrInvalidRole = errors.New("auth: invalid role")
	// ErrAdminSignupForbidden signals a public registration asking for the
	// admin role. Admin accounts are minted only by existing admins.
	ErrAdminSignupForbidden = errors.New("auth: admin accounts cannot self-register")
	// ErrInvalidToken signals a token that failed verification.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenRevoked signals a token that was logged out.
	ErrTokenRevoked = errors.New("auth: token revoked")
)

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Service handles authentication business logic.
type Service struct {
	repo      Repository
	revoker   Revoker
	jwtSecret []byte
}

// LoginResult bundles the token and domain user returned after a successful login.
type LoginResult struct {
	Token string
	User  User
}

// NewService creates a new authentication service. A nil revoker disables
// the logout revocation list; issued tokens then expire only by TTL.
func NewService(repo Repository, revoker Revoker, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		revoker:   revoker,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new account through public signup. The admin role is
// rejected here; use CreateUser from an admin-gated path instead.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Role == RoleAdmin {
		return nil, ErrAdminSignupForbidden
	}
	return s.create(ctx, req)
}

// CreateUser creates an account with any valid role, including admin.
// Callers must have verified administrative privilege beforehand.
func (s *Service) CreateUser(ctx context.Context, req RegisterRequest) (*User, error) {
	return s.create(ctx, req)
}

func (s *Service) create(ctx context.Context, req RegisterRequest) (*User, error) {
	name, err := ValidateName(req.Name)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	address, err := ValidateAddress(req.Address)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !isValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	params := CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
	}
	if address != "" {
		params.Address = &address
	}

	user, err := s.repo.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates a user and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{
		Token: token,
		User:  user,
	}, nil
}

// GetUserByID retrieves account information by ID.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword verifies the current password and replaces it.
func (s *Service) UpdatePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	return s.repo.UpdatePasswordHash(ctx, userID, string(hash))
}

// VerifyToken validates a bearer token and returns the caller's identity.
// Revoked tokens fail verification even before their TTL expires.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (string, Role, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", "", err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, tokenString)
		if err != nil {
			return "", "", fmt.Errorf("auth: check revocation: %w", err)
		}
		if revoked {
			return "", "", ErrTokenRevoked
		}
	}

	return claims.UserID, claims.Role, nil
}

// Logout revokes the given token for its remaining lifetime. Invalid or
// already-expired tokens are treated as a no-op so logout stays idempotent.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil
	}

	if s.revoker == nil {
		return nil
	}

	ttl := tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return nil
		}
	}

	if err := s.revoker.Revoke(ctx, tokenString, ttl); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

func (s *Service) parseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if !isValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

func (s *Service) generateToken(userID string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
