package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lcalzada-xor/authgate/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// AuthHandler serves login, logout and registration. Login runs every
// attempt through the threat gate before credentials are checked, so a
// blocked attempt never learns whether the account exists.
type AuthHandler struct {
	Auth ports.AuthService
	Gate ports.ThreatGate
}

func NewAuthHandler(auth ports.AuthService, gate ports.ThreatGate) *AuthHandler {
	return &AuthHandler{Auth: auth, Gate: gate}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Decoded as a raw map first so the gate sees the true field count,
	// extra fields included.
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	email := stringField(body, "email")
	password := stringField(body, "password")

	var sessionKey string
	if cookie, err := r.Cookie("auth_token"); err == nil {
		sessionKey = cookie.Value
	}

	attempt := domain.LoginAttempt{
		Email:      email,
		Password:   password,
		Method:     r.Method,
		Path:       r.URL.Path,
		UserAgent:  r.UserAgent(),
		RemoteIP:   middleware.ClientIP(r),
		FieldCount: len(body),
		SessionKey: sessionKey,
		Time:       time.Now(),
	}

	decision := h.Gate.Evaluate(r.Context(), attempt)
	if !decision.Allow {
		respondJSON(w, http.StatusForbidden, map[string]interface{}{
			"error":      decision.Message,
			"threatType": decision.ThreatType,
			"confidence": decision.Confidence,
		})
		return
	}

	token, user, err := h.Auth.Login(r.Context(), domain.Credentials{Email: email, Password: password})
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user := domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	created, err := h.Auth.Register(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		h.Auth.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "auth_token",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Non-string values still count as a present field; the gate sees
		// their length as zero.
		return ""
	}
	return s
}
