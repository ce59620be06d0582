package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ratehub/auth"
)

var (
	// ErrSuperseded signals that a login completed after the user had
	// already moved on (logout or a newer login); its result was discarded.
	ErrSuperseded = errors.New("session: login superseded, result discarded")
)

// RejectionError carries the server-reported message for an expected
// rejection (bad credentials, validation failure). Transport failures are
// returned as-is, not wrapped in this type.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

// Issuer performs authentication against the HTTP API and is the session
// cache's only writer.
type Issuer struct {
	baseURL string
	client  *http.Client
	cache   *Store
}

// NewIssuer creates an issuer for the API at baseURL writing into cache.
// No client-side timeout is imposed; cancellation is the caller's context.
func NewIssuer(baseURL string, cache *Store) *Issuer {
	return &Issuer{
		baseURL: baseURL,
		client:  &http.Client{},
		cache:   cache,
	}
}

type loginResponse struct {
	User  UserDescriptor `json:"user"`
	Token string         `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login authenticates and, on success, installs the session in the cache.
// Expected rejections come back as *RejectionError with the server's message
// (or "Login failed" when the server supplied none); the cache is left
// untouched. If the cache changed while the request was in flight the stale
// result is discarded and ErrSuperseded returned.
func (i *Issuer) Login(ctx context.Context, email, password string) (*Session, error) {
	gen := i.cache.Generation()

	body, resp, err := i.post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, rejection(body, "Login failed")
	}

	var payload loginResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("session: decode login response: %w", err)
	}

	sess := &Session{User: payload.User, Token: payload.Token}
	if err := i.cache.write(sess, gen); err != nil {
		if errors.Is(err, ErrStaleWrite) {
			return nil, ErrSuperseded
		}
		return nil, err
	}

	return sess, nil
}

// SignUp registers a new account. It never establishes a session: the caller
// must log in separately.
func (i *Issuer) SignUp(ctx context.Context, email, password, name, address string, role auth.Role) error {
	body, resp, err := i.post(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"address":  address,
		"role":     string(role),
	}, "")
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejection(body, "Registration failed")
	}

	return nil
}

// Logout clears the session cache unconditionally and tells the server to
// revoke the token on a best-effort basis. It is idempotent and never fails:
// a dead server must not be able to keep a client logged in.
func (i *Issuer) Logout(ctx context.Context) {
	sess := i.cache.Get()
	i.cache.reset()

	if sess == nil {
		return
	}
	_, _, _ = i.post(ctx, "/auth/logout", struct{}{}, sess.Token)
}

func (i *Issuer) post(ctx context.Context, path string, payload any, token string) ([]byte, *http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("session: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("session: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, nil, fmt.Errorf("session: read response: %w", err)
	}

	return buf.Bytes(), resp, nil
}

func rejection(body []byte, fallback string) error {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &RejectionError{Message: payload.Error}
	}
	return &RejectionError{Message: fallback}
}
