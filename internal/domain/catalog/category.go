package catalog

import (
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products. Import rows reference categories by free-text
// name; names are resolved through the normalized slug.
type Category struct {
	shared.BaseEntity
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	IsActive    bool       `gorm:"not null;default:true"`
	SortOrder   int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category with a slug derived from the name
func NewCategory(name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       CategorySlug(name),
		IsActive:   true,
	}, nil
}

// CategorySlug normalizes a free-text category name to its lookup slug
func CategorySlug(name string) string {
	return slug.Make(name)
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
