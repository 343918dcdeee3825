package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// CategoryService applies category mutations. Each operation is atomic
// against the store; on confirmed commit it records an audit entry
// (best-effort) and then publishes exactly one change event, in that order.
type CategoryService struct {
	Categories repository.CategoryRepositoryInterface
	Audit      *AuditRecorder
	Hub        *realtime.Hub
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories repository.CategoryRepositoryInterface, audit *AuditRecorder, hub *realtime.Hub) *CategoryService {
	return &CategoryService{Categories: categories, Audit: audit, Hub: hub}
}

// CategoryInput carries the fields for creating a category. ID, Title,
// Description and Icon are required.
type CategoryInput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	IsAward      *bool  `json:"is_award,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// CategoryUpdate carries a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	IsAward      *bool   `json:"is_award,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// CreateCategory validates and creates a new category, then broadcasts
// category-created.
func (s *CategoryService) CreateCategory(actorID *uint, ip string, input CategoryInput) (*models.Category, error) {
	input.ID = strings.TrimSpace(input.ID)
	if input.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.Icon == "" {
		return nil, fmt.Errorf("%w: icon is required", ErrInvalidInput)
	}

	// the slug is immutable once created; a soft-deleted category still owns
	// its slug, so that counts as a conflict too
	if _, err := s.Categories.GetByIDAny(input.ID); err == nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, input.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	isAward := true
	if input.IsAward != nil {
		isAward = *input.IsAward
	}
	category := &models.Category{
		ID:           input.ID,
		Title:        input.Title,
		Description:  input.Description,
		Icon:         input.Icon,
		IsAward:      isAward,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.Categories.Create(category); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "category.create", "categories", category.ID, nil, category, ip)
	s.Hub.Publish(realtime.CategoryCreated{
		ID:           category.ID,
		Title:        category.Title,
		Description:  category.Description,
		Icon:         category.Icon,
		IsAward:      category.IsAward,
		DisplayOrder: category.DisplayOrder,
	})
	return category, nil
}

// UpdateCategory applies only the provided fields to an active category and
// broadcasts category-updated carrying the diff.
func (s *CategoryService) UpdateCategory(actorID *uint, ip, id string, update CategoryUpdate) (*models.Category, error) {
	before, err := s.Categories.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	event := realtime.CategoryUpdated{ID: id}
	if update.Title != nil {
		updates["title"] = *update.Title
		event.Title = update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
		event.Description = update.Description
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
		event.Icon = update.Icon
	}
	if update.IsAward != nil {
		updates["is_award"] = *update.IsAward
		event.IsAward = update.IsAward
	}
	if update.DisplayOrder != nil {
		updates["display_order"] = *update.DisplayOrder
		event.DisplayOrder = update.DisplayOrder
	}

	if err := s.Categories.Update(id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, id)
		}
		return nil, err
	}

	after, err := s.Categories.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "category.update", "categories", id, before, after, ip)
	s.Hub.Publish(event)
	return after, nil
}

// DeleteCategory soft-deletes the category and cascades the soft delete to
// its nominees in the same transaction, then broadcasts category-deleted.
func (s *CategoryService) DeleteCategory(actorID *uint, ip, id string) error {
	before, err := s.Categories.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %q", ErrNotFound, id)
		}
		return err
	}

	if err := s.Categories.SoftDeleteCascade(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %q", ErrNotFound, id)
		}
		return err
	}

	s.Audit.Record(actorID, "category.delete", "categories", id, before, nil, ip)
	s.Hub.Publish(realtime.CategoryDeleted{ID: id})
	return nil
}

// ListActive returns the active categories with their active nominees, the
// full state a late-joining client fetches before merging events.
func (s *CategoryService) ListActive() ([]models.Category, error) {
	return s.Categories.ListActive()
}
