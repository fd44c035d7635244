package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListProducts returns the catalog.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// GetProduct fetches one product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

// CreateParams collects new-product input.
type CreateParams struct {
	Name        string
	Slug        string
	Description string
	PriceCents  int64
}

// CreateProduct creates a draft owned by the acting user.
func (s *Service) CreateProduct(ctx context.Context, actor *authz.User, params CreateParams) (Product, error) {
	slug := params.Slug
	if slug == "" {
		slug = slugify(params.Name)
	}
	p := Product{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Slug:        slug,
		Description: params.Description,
		PriceCents:  params.PriceCents,
		Status:      StatusDraft,
	}
	if actor != nil {
		p.CreatedBy = actor.ID
	}
	return s.repo.Create(ctx, p)
}

// UpdateParams collects product mutation input. Nil fields are left
// unchanged.
type UpdateParams struct {
	Name        *string
	Slug        *string
	Description *string
	PriceCents  *int64
	Status      *Status
}

// UpdateProduct applies the update. Ownership checks happen in the
// handler, where the recorded owner is known.
func (s *Service) UpdateProduct(ctx context.Context, id string, params UpdateParams) (Product, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if params.Name != nil {
		current.Name = *params.Name
	}
	if params.Slug != nil {
		current.Slug = *params.Slug
	}
	if params.Description != nil {
		current.Description = *params.Description
	}
	if params.PriceCents != nil {
		current.PriceCents = *params.PriceCents
	}
	if params.Status != nil {
		current.Status = *params.Status
	}
	return s.repo.Update(ctx, current)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
