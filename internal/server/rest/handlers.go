package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/dmitrijs2005/backoffice/internal/server/services"
)

// AuthService is the session core as seen by the HTTP layer.
// *services.AuthService satisfies it.
type AuthService interface {
	Authenticator
	Register(ctx context.Context, name, email, password string) (*models.UserInfo, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Revalidate(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	CurrentUser(ctx context.Context, id string) (*models.UserInfo, error)
}

// AuthHandler handles the /api/auth endpoints.
type AuthHandler struct {
	service AuthService
	jar     *CookieJar
	logger  logging.Logger
}

func NewAuthHandler(svc AuthService, jar *CookieJar, logger logging.Logger) *AuthHandler {
	return &AuthHandler{service: svc, jar: jar, logger: logger}
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	recordAuthAttempt(flowRegister, err)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	recordAuthAttempt(flowLogin, err)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.jar.SetSession(w, res.Tokens); err != nil {
		h.logger.Error(r.Context(), "sealing session cookies failed", "error", err)
		writeAppError(w, common.ErrorInternal)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: res.User})
}

// Refresh handles POST /api/auth/refresh. A rejected refresh token or a
// missing user signs the client out; server faults leave the cookies alone.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.jar.RefreshToken(r)
	if token == "" {
		recordAuthAttempt(flowRefresh, common.ErrorUnauthorized)
		h.jar.Clear(w)
		writeAppError(w, common.ErrorUnauthorized)
		return
	}

	pair, err := h.service.Revalidate(r.Context(), token)
	recordAuthAttempt(flowRefresh, err)
	if err != nil {
		if signsOut(err) {
			h.jar.Clear(w)
		}
		writeAppError(w, err)
		return
	}

	if err := h.jar.SetSession(w, pair); err != nil {
		h.logger.Error(r.Context(), "sealing session cookies failed", "error", err)
		writeAppError(w, common.ErrorInternal)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: "refreshed"})
}

func signsOut(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrUserNotFound)
}

// SignOut handles POST /api/auth/signout. Tokens are stateless, so this only
// clears the cookies.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.jar.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeAppError(w, common.ErrorUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), p.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// AdminPing handles GET /api/admin/ping
func AdminPing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: "pong"})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "ok"}})
}

var _ AuthService = (*services.AuthService)(nil)
