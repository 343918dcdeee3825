package services

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/eventcrew/awardsysbackend/models"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
)

// FileCleaner schedules best-effort removal of a stored file that is no
// longer referenced. Failure to delete is never fatal to the mutation that
// superseded the file.
type FileCleaner interface {
	Enqueue(relPath string)
}

// NomineeService applies nominee mutations, including photo reference swaps.
type NomineeService struct {
	Nominees   repository.NomineeRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	Audit      *AuditRecorder
	Hub        *realtime.Hub
	Cleaner    FileCleaner
}

// NewNomineeService creates a new NomineeService
func NewNomineeService(nominees repository.NomineeRepositoryInterface, categories repository.CategoryRepositoryInterface, audit *AuditRecorder, hub *realtime.Hub, cleaner FileCleaner) *NomineeService {
	return &NomineeService{Nominees: nominees, Categories: categories, Audit: audit, Hub: hub, Cleaner: cleaner}
}

// NomineeInput carries the fields for creating a nominee. Name is required.
type NomineeInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// NomineeUpdate carries a partial update; nil fields are left untouched.
type NomineeUpdate struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// AddNominee creates a nominee under an active category and broadcasts
// nominee-added.
func (s *NomineeService) AddNominee(actorID *uint, ip, categoryID string, input NomineeInput) (*models.Nominee, error) {
	if _, err := s.Categories.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
		}
		return nil, err
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	nominee := &models.Nominee{
		CategoryID:   categoryID,
		Name:         input.Name,
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.Nominees.Create(nominee); err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "nominee.create", "nominees", nomineeTargetID(nominee.ID), nil, nominee, ip)
	s.Hub.Publish(realtime.NomineeAdded{
		ID:           nominee.ID,
		CategoryID:   nominee.CategoryID,
		Name:         nominee.Name,
		Description:  nominee.Description,
		DisplayOrder: nominee.DisplayOrder,
	})
	return nominee, nil
}

// UpdateNominee applies only the provided fields to an active nominee and
// broadcasts nominee-updated carrying the diff.
func (s *NomineeService) UpdateNominee(actorID *uint, ip string, id uint, update NomineeUpdate) (*models.Nominee, error) {
	before, err := s.Nominees.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	event := realtime.NomineeUpdated{ID: id, CategoryID: before.CategoryID}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = *update.Name
		event.Name = update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
		event.Description = update.Description
	}
	if update.DisplayOrder != nil {
		updates["display_order"] = *update.DisplayOrder
		event.DisplayOrder = update.DisplayOrder
	}

	if err := s.Nominees.Update(id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	after, err := s.Nominees.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "nominee.update", "nominees", nomineeTargetID(id), before, after, ip)
	s.Hub.Publish(event)
	return after, nil
}

// DeleteNominee soft-deletes the nominee and hard-deletes its votes in the
// same transaction, then broadcasts nominee-deleted. The stored photo file,
// if any, is scheduled for best-effort removal.
func (s *NomineeService) DeleteNominee(actorID *uint, ip string, id uint) error {
	before, err := s.Nominees.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return err
	}

	if err := s.Nominees.SoftDeleteWithVotes(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return err
	}

	if before.PhotoPath != nil {
		s.Cleaner.Enqueue(*before.PhotoPath)
	}

	s.Audit.Record(actorID, "nominee.delete", "nominees", nomineeTargetID(id), before, nil, ip)
	s.Hub.Publish(realtime.NomineeDeleted{ID: id, CategoryID: before.CategoryID})
	return nil
}

// SetNomineePhoto swaps the stored photo reference and schedules removal of
// the superseded file, then broadcasts nominee-photo-updated.
func (s *NomineeService) SetNomineePhoto(actorID *uint, ip string, id uint, photoPath string) (*models.Nominee, error) {
	before, err := s.Nominees.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	if err := s.Nominees.UpdatePhotoPath(id, &photoPath); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	if before.PhotoPath != nil && *before.PhotoPath != photoPath {
		s.Cleaner.Enqueue(*before.PhotoPath)
	}

	after, err := s.Nominees.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "nominee.photo.update", "nominees", nomineeTargetID(id), before, after, ip)
	s.Hub.Publish(realtime.NomineePhotoUpdated{ID: id, PhotoPath: photoPath})
	return after, nil
}

// ClearNomineePhoto removes the photo reference and schedules removal of the
// stored file, then broadcasts nominee-photo-deleted.
func (s *NomineeService) ClearNomineePhoto(actorID *uint, ip string, id uint) (*models.Nominee, error) {
	before, err := s.Nominees.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	if err := s.Nominees.UpdatePhotoPath(id, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nominee %d", ErrNotFound, id)
		}
		return nil, err
	}

	if before.PhotoPath != nil {
		s.Cleaner.Enqueue(*before.PhotoPath)
	}

	after, err := s.Nominees.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(actorID, "nominee.photo.delete", "nominees", nomineeTargetID(id), before, after, ip)
	s.Hub.Publish(realtime.NomineePhotoDeleted{ID: id})
	return after, nil
}

// ListByCategory returns the active nominees of an active category, in
// display order.
func (s *NomineeService) ListByCategory(categoryID string) ([]models.Nominee, error) {
	if _, err := s.Categories.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
		}
		return nil, err
	}
	return s.Nominees.ListByCategory(categoryID)
}

func nomineeTargetID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
