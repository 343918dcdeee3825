package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepositoryInterface
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthHandler(userRepo repository.UserRepositoryInterface, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Secret: secret, TokenTTL: tokenTTL}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login verifies admin credentials and issues an HS256 token. The same token
// is what a websocket connection presents to join the admin group.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(h.TokenTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "awardsysbackend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.Secret)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expirationTime,
	})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler should be protected by the AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Could not retrieve user from context")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// JWTVerifier is the credential-verification collaborator the Connection
// Registry delegates to. Every stored user is an administrator, so a token
// that parses, hasn't expired and names an existing user yields the admin
// role; anything else is reported invalid and the registry leaves the
// connection anonymous.
type JWTVerifier struct {
	UserRepo repository.UserRepositoryInterface
	Secret   []byte
}

// Verify implements realtime.TokenVerifier.
func (v *JWTVerifier) Verify(tokenString string) realtime.Credential {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil || !token.Valid {
		return realtime.Credential{}
	}

	var userID uint
	if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
		return realtime.Credential{}
	}
	if _, err := v.UserRepo.GetByID(userID); err != nil {
		// user deleted after the token was issued
		return realtime.Credential{}
	}
	return realtime.Credential{Valid: true, Role: realtime.RoleAdmin, UserID: userID}
}
