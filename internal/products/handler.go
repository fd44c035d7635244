package products

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

// Handler manages catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	resolver *authz.Resolver
	gate     authz.Gate
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, resolver *authz.Resolver, gate authz.Gate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		resolver: resolver,
		gate:     gate,
		validate: validator.New(),
	}
}

// MountRoutes registers catalog routes. Reads and creates are gated at
// the route; updates and deletes need the recorded owner, so they pass
// an authenticated-only gate and evaluate the owner-access policy in
// the handler once the product is loaded.
func (h *Handler) MountRoutes(r chi.Router) {
	read := authz.Policy{Permissions: []authz.Permission{{Resource: "products", Action: authz.ActionRead}}}
	create := authz.Policy{Permissions: []authz.Permission{{Resource: "products", Action: authz.ActionCreate}}}

	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(read))
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(create))
		r.Post("/", h.createProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuthenticated())
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "listing failed")
		return
	}
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product": toProductResponse(p)})
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Slug        string `json:"slug" validate:"omitempty,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, err.Error())
		return
	}

	actor := authz.UserFromContext(r.Context())
	p, err := h.service.CreateProduct(r.Context(), actor, CreateParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"product": toProductResponse(p)})
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,gte=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	// Owner access widens the grant: an owner without products:update
	// may still edit their own record.
	actor := authz.UserFromContext(r.Context())
	decision := h.resolver.Evaluate(actor, authz.Policy{
		Permissions:      []authz.Permission{{Resource: "products", Action: authz.ActionUpdate}},
		AllowOwnerAccess: true,
		ResourceOwnerID:  p.CreatedBy,
	})
	if !decision.Allowed {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, decision.Reason)
		return
	}

	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidationFailed, err.Error())
		return
	}

	params := UpdateParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		params.Status = &status
	}

	updated, err := h.service.UpdateProduct(r.Context(), p.ID, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product": toProductResponse(updated)})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	actor := authz.UserFromContext(r.Context())
	decision := h.resolver.Evaluate(actor, authz.Policy{
		Permissions:      []authz.Permission{{Resource: "products", Action: authz.ActionDelete}},
		AllowOwnerAccess: true,
		ResourceOwnerID:  p.CreatedBy,
	})
	if !decision.Allowed {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, decision.Reason)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), p.ID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "product not found")
	case errors.Is(err, ErrSlugTaken):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeConflict, "slug already in use")
	default:
		h.logger.Error("products service", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "operation failed")
	}
}
