package handler

import (
	"net/http"
	"testing"

	"github.com/tharsan/event-booking-api/internal/googleauth"
	"github.com/tharsan/event-booking-api/internal/middleware"
	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/utils"
)

func newAuthHandler(users UserStore, google GoogleVerifier) *AuthHandler {
	return NewAuthHandler(users, google, testConfig())
}

func registerUser(t *testing.T, h *AuthHandler, username, email, password, role string) {
	t.Helper()
	rec := doJSON(t, h.Register, http.MethodPost, map[string]string{
		"username": username, "email": email, "password": password, "role": role,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body %s", username, rec.Code, rec.Body.String())
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users, nil)
	registerUser(t, h, "alice", "alice@example.com", "s3cret", "")

	rec := doJSON(t, h.Login, http.MethodPost, map[string]string{
		"username": "alice", "password": "s3cret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got status %d, body %s", rec.Code, rec.Body.String())
	}

	cookie := findCookie(rec, middleware.UserCookie)
	if cookie == nil {
		t.Fatal("login did not set the auth cookie")
	}
	if !cookie.HttpOnly {
		t.Error("auth cookie is not HTTP-only")
	}

	id, err := utils.VerifyToken(testConfig().JWTSecret, cookie.Value)
	if err != nil {
		t.Fatalf("cookie token did not verify: %v", err)
	}
	if id.Username != "alice" || id.Role != model.RoleUser {
		t.Errorf("token identity = %+v, want alice/user", id)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users, nil)
	registerUser(t, h, "alice", "alice@example.com", "s3cret", "")

	rec := doJSON(t, h.Login, http.MethodPost, map[string]string{
		"username": "alice", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
	if findCookie(rec, middleware.UserCookie) != nil {
		t.Error("failed login must not set an auth cookie")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	h := newAuthHandler(newFakeUserStore(), nil)
	rec := doJSON(t, h.Login, http.MethodPost, map[string]string{
		"username": "nobody", "password": "whatever",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestAdminLoginRejectsRegularUser(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users, nil)
	registerUser(t, h, "bob", "bob@example.com", "s3cret", "")

	rec := doJSON(t, h.AdminLogin, http.MethodPost, map[string]string{
		"username": "bob", "password": "s3cret",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rec.Code)
	}
	if findCookie(rec, middleware.AdminCookie) != nil {
		t.Error("non-admin must not receive an admin cookie")
	}
}

func TestAdminLoginSetsAdminCookie(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users, nil)
	registerUser(t, h, "root", "root@example.com", "s3cret", "admin")

	rec := doJSON(t, h.AdminLogin, http.MethodPost, map[string]string{
		"username": "root", "password": "s3cret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := findCookie(rec, middleware.AdminCookie)
	if cookie == nil {
		t.Fatal("admin login did not set the admin cookie")
	}
	id, err := utils.VerifyToken(testConfig().JWTSecret, cookie.Value)
	if err != nil {
		t.Fatalf("cookie token did not verify: %v", err)
	}
	if id.Role != model.RoleAdmin {
		t.Errorf("token role = %q, want admin", id.Role)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	h := newAuthHandler(newFakeUserStore(), nil)
	cases := []map[string]string{
		{"email": "a@example.com", "password": "x"},
		{"username": "a", "password": "x"},
		{"username": "a", "email": "a@example.com"},
	}
	for _, body := range cases {
		rec := doJSON(t, h.Register, http.MethodPost, body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %v: got status %d, want 400", body, rec.Code)
		}
	}
}

func TestRegisterDuplicates(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users, nil)
	registerUser(t, h, "alice", "alice@example.com", "s3cret", "")

	rec := doJSON(t, h.Register, http.MethodPost, map[string]string{
		"username": "alice", "email": "other@example.com", "password": "x",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username: got status %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "name already exists" {
		t.Errorf("duplicate username error = %v", got)
	}

	rec = doJSON(t, h.Register, http.MethodPost, map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "x",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email: got status %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "email already exists" {
		t.Errorf("duplicate email error = %v", got)
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	users := newFakeUserStore()
	users.failAll = true
	h := newAuthHandler(users, nil)
	rec := doJSON(t, h.Register, http.MethodPost, map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "x",
	}, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", rec.Code)
	}
}

func TestGoogleLoginProvisionsOnFirstSight(t *testing.T) {
	users := newFakeUserStore()
	google := &fakeGoogle{profile: googleauth.Profile{
		Email: "carol@example.com", Name: "Carol", Picture: "https://img.example/c.png",
	}}
	h := newAuthHandler(users, google)

	rec := doJSON(t, h.GoogleLogin, http.MethodPost, map[string]string{"token": "valid"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first login: got status %d, body %s", rec.Code, rec.Body.String())
	}
	if findCookie(rec, middleware.UserCookie) == nil {
		t.Fatal("google login did not set the auth cookie")
	}
	if len(users.users) != 1 {
		t.Fatalf("got %d users after first login, want 1", len(users.users))
	}

	// Second sign-in reuses the provisioned account.
	rec = doJSON(t, h.GoogleLogin, http.MethodPost, map[string]string{"token": "valid"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second login: got status %d", rec.Code)
	}
	if len(users.users) != 1 {
		t.Fatalf("got %d users after second login, want 1", len(users.users))
	}
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	h := newAuthHandler(newFakeUserStore(), &fakeGoogle{err: googleauth.ErrInvalidToken})
	rec := doJSON(t, h.GoogleLogin, http.MethodPost, map[string]string{"token": "bogus"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := newAuthHandler(newFakeUserStore(), nil)
	rec := doJSON(t, h.Logout, http.MethodPost, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	cookie := findCookie(rec, middleware.UserCookie)
	if cookie == nil {
		t.Fatal("logout did not touch the auth cookie")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Errorf("logout cookie not expired: MaxAge=%d Value=%q", cookie.MaxAge, cookie.Value)
	}
}
