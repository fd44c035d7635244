package products

import "time"

// Status tracks the publication lifecycle of a product.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Product is a catalog entry. CreatedBy records the owning user for
// owner-access checks.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	Status      Status
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
