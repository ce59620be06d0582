package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ratehub/auth"
)

type fakeAPI struct {
	mu          chan struct{} // non-nil: login blocks until released
	logins      atomic.Int64
	logouts     atomic.Int64
	failLogin   string // error message to return, "" means succeed
	failSignUp  string
	signupCalls atomic.Int64
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.logins.Add(1)
		if f.mu != nil {
			<-f.mu
		}
		if f.failLogin != "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": f.failLogin})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{
				"id":    "user-1",
				"name":  "Alice Example Storefront User",
				"email": "alice@example.com",
				"role":  "user",
			},
			"token": "issued-token",
		})
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		f.signupCalls.Add(1)
		if f.failSignUp != "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": f.failSignUp})
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logouts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newIssuerHarness(t *testing.T, api *fakeAPI) (*Issuer, *Store) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	cache := newTestStore(t)
	if err := cache.Hydrate(); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return NewIssuer(srv.URL, cache), cache
}

func TestIssuer_LoginWritesCache(t *testing.T) {
	issuer, cache := newIssuerHarness(t, &fakeAPI{})

	sess, err := issuer.Login(context.Background(), "alice@example.com", "Sup3rsafe!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	cached := cache.Get()
	if cached == nil {
		t.Fatal("expected session in cache after login")
	}
	if cached.User.ID != "user-1" || cached.User.Email != "alice@example.com" || cached.User.Role != auth.RoleUser {
		t.Fatalf("cached descriptor mismatch: %+v", cached.User)
	}
	if cached.Token != "issued-token" || sess.Token != "issued-token" {
		t.Fatalf("token mismatch: cache=%q result=%q", cached.Token, sess.Token)
	}
}

func TestIssuer_LoginRejectionLeavesCacheEmpty(t *testing.T) {
	issuer, cache := newIssuerHarness(t, &fakeAPI{failLogin: "Login failed"})

	_, err := issuer.Login(context.Background(), "a@b.com", "Wrong1!")
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if rej.Message != "Login failed" {
		t.Fatalf("expected server message, got %q", rej.Message)
	}
	if cache.Get() != nil {
		t.Fatal("cache must stay empty after rejected login")
	}
}

func TestIssuer_LoginTransportErrorSurfaced(t *testing.T) {
	cache := newTestStore(t)
	if err := cache.Hydrate(); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	issuer := NewIssuer("http://127.0.0.1:1", cache)

	_, err := issuer.Login(context.Background(), "a@b.com", "Pass1!aa")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var rej *RejectionError
	if errors.As(err, &rej) {
		t.Fatal("transport failure must not be a RejectionError")
	}
	if cache.Get() != nil {
		t.Fatal("cache must stay empty after transport failure")
	}
}

// Signup never establishes a session: navigating to a guarded route right
// after registering still lands on the login surface.
func TestIssuer_SignUpDoesNotLogIn(t *testing.T) {
	api := &fakeAPI{}
	issuer, cache := newIssuerHarness(t, api)

	err := issuer.SignUp(context.Background(), "owner@example.com", "Sup3rsafe!",
		"Olive Owner of the Corner Shop", "", auth.RoleOwner)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if api.signupCalls.Load() != 1 {
		t.Fatal("expected one register call")
	}
	if cache.Get() != nil {
		t.Fatal("signup must not write the session cache")
	}

	guard := NewGuard(cache)
	out := guard.Resolve("/owner", []auth.Role{auth.RoleOwner})
	if out.Kind != OutcomeRedirectToLogin || out.To != LoginPath {
		t.Fatalf("expected redirect to %s, got %+v", LoginPath, out)
	}
}

func TestIssuer_LogoutIdempotent(t *testing.T) {
	api := &fakeAPI{}
	issuer, cache := newIssuerHarness(t, api)

	if _, err := issuer.Login(context.Background(), "alice@example.com", "Sup3rsafe!"); err != nil {
		t.Fatalf("login: %v", err)
	}

	issuer.Logout(context.Background())
	if cache.Get() != nil {
		t.Fatal("expected empty cache after logout")
	}

	// Second logout: same observable state, no extra server call.
	issuer.Logout(context.Background())
	if cache.Get() != nil {
		t.Fatal("expected empty cache after second logout")
	}
	if api.logouts.Load() != 1 {
		t.Fatalf("expected exactly one revoke call, got %d", api.logouts.Load())
	}
}

// A login response that lands after the user logged out must not
// resurrect the session.
func TestIssuer_StaleLoginDiscardedAfterLogout(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{mu: release}
	issuer, cache := newIssuerHarness(t, api)

	done := make(chan error, 1)
	go func() {
		_, err := issuer.Login(context.Background(), "alice@example.com", "Sup3rsafe!")
		done <- err
	}()

	// Wait for the request to reach the server, then log out underneath it.
	for api.logins.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	issuer.Logout(context.Background())
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if cache.Get() != nil {
		t.Fatal("stale login must not repopulate the cache")
	}
}
