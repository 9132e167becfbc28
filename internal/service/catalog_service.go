package service

import (
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 250
)

// SubjectUpdate lists the mutable fields of a subject. Nil fields are left unchanged.
type SubjectUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ChapterUpdate lists the mutable fields of a chapter. Nil fields are left unchanged.
type ChapterUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CatalogService struct {
	SubjectRepo *repository.SubjectRepository
	ChapterRepo *repository.ChapterRepository
}

func NewCatalogService(subjectRepo *repository.SubjectRepository, chapterRepo *repository.ChapterRepository) *CatalogService {
	return &CatalogService{
		SubjectRepo: subjectRepo,
		ChapterRepo: chapterRepo,
	}
}

func validateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", util.NewValidationError(field, "must not be blank")
	}
	if len(name) > maxNameLength {
		return "", util.NewValidationError(field, "is too long")
	}
	return name, nil
}

func validateDescription(field, desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if len(desc) > maxDescriptionLength {
		return "", util.NewValidationError(field, "is too long")
	}
	return desc, nil
}

func (s *CatalogService) CreateSubject(name, description string) (*model.Subject, error) {
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	description, err = validateDescription("description", description)
	if err != nil {
		return nil, err
	}

	subject := &model.Subject{Name: name, Description: description}
	if err := s.SubjectRepo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *CatalogService) GetSubject(id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(id)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func (s *CatalogService) ListSubjects(search string) ([]model.Subject, error) {
	return s.SubjectRepo.List(strings.TrimSpace(search))
}

func (s *CatalogService) UpdateSubject(id uint, upd SubjectUpdate) (*model.Subject, error) {
	if upd.Name == nil && upd.Description == nil {
		return nil, util.ErrEmptyUpdate
	}
	subject, err := s.GetSubject(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if subject.Name, err = validateName("name", *upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if subject.Description, err = validateDescription("description", *upd.Description); err != nil {
			return nil, err
		}
	}

	if err := s.SubjectRepo.Update(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *CatalogService) DeleteSubject(id uint) error {
	if _, err := s.GetSubject(id); err != nil {
		return err
	}
	if err := s.SubjectRepo.Delete(id); err != nil {
		return err
	}
	logger.Log.Info("subject deleted", zap.Uint("subjectID", id))
	return nil
}

func (s *CatalogService) CreateChapter(subjectID uint, name, description string) (*model.Chapter, error) {
	if _, err := s.GetSubject(subjectID); err != nil {
		return nil, err
	}
	name, err := validateName("name", name)
	if err != nil {
		return nil, err
	}
	description, err = validateDescription("description", description)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{SubjectID: subjectID, Name: name, Description: description}
	if err := s.ChapterRepo.Create(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *CatalogService) GetChapter(id uint) (*model.Chapter, error) {
	chapter, err := s.ChapterRepo.FindByID(id)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

func (s *CatalogService) UpdateChapter(id uint, upd ChapterUpdate) (*model.Chapter, error) {
	if upd.Name == nil && upd.Description == nil {
		return nil, util.ErrEmptyUpdate
	}
	chapter, err := s.GetChapter(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if chapter.Name, err = validateName("name", *upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if chapter.Description, err = validateDescription("description", *upd.Description); err != nil {
			return nil, err
		}
	}

	if err := s.ChapterRepo.Update(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *CatalogService) DeleteChapter(id uint) error {
	if _, err := s.GetChapter(id); err != nil {
		return err
	}
	if err := s.ChapterRepo.Delete(id); err != nil {
		return err
	}
	logger.Log.Info("chapter deleted", zap.Uint("chapterID", id))
	return nil
}
