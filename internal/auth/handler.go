package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/terojleinonen/cms-admin/internal/authz"
	"github.com/terojleinonen/cms-admin/internal/platform/httpx"
	"github.com/terojleinonen/cms-admin/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	gate     authz.Gate
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, gate authz.Gate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		gate:     gate,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuthenticated())
		r.Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func toAccountResponse(acc *Account) accountResponse {
	return accountResponse{
		ID:       acc.ID,
		Email:    acc.Email,
		Name:     acc.Name,
		Role:     string(acc.Role),
		IsActive: acc.IsActive,
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, "email and password are required")
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "login failed")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("login without session middleware")
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "login failed")
		return
	}
	// Fresh session ID on privilege change.
	if err := h.sessions.Renew(r.Context(), sess); err != nil {
		h.logger.Error("renew session", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "login failed")
		return
	}
	sess.SetUser(account.ID)

	// RemoteAddr holds the client IP after the RealIP middleware.
	expiresAt := time.Now().Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, account.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session metadata", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"user": toAccountResponse(account)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session metadata", slog.Any("error", err))
		}
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	account, err := h.service.Load(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "account no longer exists")
			return
		}
		h.logger.Error("load account", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "lookup failed")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": toAccountResponse(account)})
}
