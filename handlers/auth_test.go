package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventcrew/awardsysbackend/database"
	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/repository"
)

var testSecret = []byte("test-secret")

func newUserRepo(t *testing.T) *repository.UserRepository {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repository.NewUserRepository(db)
}

func seedAdmin(t *testing.T, repo *repository.UserRepository, username, password string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func doLogin(t *testing.T, handler *AuthHandler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(LoginPayload{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	repo := newUserRepo(t)
	seedAdmin(t, repo, "admin", "hunter22hunter2")
	handler := NewAuthHandler(repo, testSecret, time.Hour)

	rec := doLogin(t, handler, "admin", "hunter22hunter2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Errorf("expected a token in the response")
	}
	if resp.User.Username != "admin" {
		t.Errorf("expected the user echoed back, got %q", resp.User.Username)
	}

	// the password hash must never leave the server
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode raw response: %v", err)
	}
	var userFields map[string]json.RawMessage
	if err := json.Unmarshal(raw["user"], &userFields); err != nil {
		t.Fatalf("failed to decode user field: %v", err)
	}
	if _, leaked := userFields["password_hash"]; leaked {
		t.Errorf("password hash serialized in login response")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newUserRepo(t)
	seedAdmin(t, repo, "admin", "hunter22hunter2")
	handler := NewAuthHandler(repo, testSecret, time.Hour)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "ghost", "hunter22hunter2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doLogin(t, handler, tc.username, tc.password)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestJWTVerifier(t *testing.T) {
	repo := newUserRepo(t)
	user := seedAdmin(t, repo, "admin", "hunter22hunter2")
	handler := NewAuthHandler(repo, testSecret, time.Hour)
	verifier := &JWTVerifier{UserRepo: repo, Secret: testSecret}

	rec := doLogin(t, handler, "admin", "hunter22hunter2")
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	cred := verifier.Verify(resp.Token)
	if !cred.Valid {
		t.Fatalf("freshly issued token rejected")
	}
	if cred.UserID != user.ID {
		t.Errorf("expected user id %d, got %d", user.ID, cred.UserID)
	}

	if cred := verifier.Verify("garbage"); cred.Valid {
		t.Errorf("garbage token accepted")
	}
	if cred := verifier.Verify(""); cred.Valid {
		t.Errorf("empty token accepted")
	}

	// a token signed with a different secret must not verify
	other := NewAuthHandler(repo, []byte("other-secret"), time.Hour)
	rec = doLogin(t, other, "admin", "hunter22hunter2")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if cred := verifier.Verify(resp.Token); cred.Valid {
		t.Errorf("token signed with a foreign secret accepted")
	}
}

func TestAuthMiddleware(t *testing.T) {
	repo := newUserRepo(t)
	seedAdmin(t, repo, "admin", "hunter22hunter2")
	handler := NewAuthHandler(repo, testSecret, time.Hour)

	rec := doLogin(t, handler, "admin", "hunter22hunter2")
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var sawUser *models.User
	protected := AuthMiddleware(repo, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUser, _ = r.Context().Value(UserContextKey).(*models.User)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + resp.Token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + resp.Token, http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
	if sawUser == nil || sawUser.Username != "admin" {
		t.Errorf("authenticated user not placed in context")
	}
}
