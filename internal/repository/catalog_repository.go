package repository

import (
	"quiz_master_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.id asc")
	}).First(&subject, id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) List(search string) ([]model.Subject, error) {
	query := r.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.id asc")
	})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	var subjects []model.Subject
	err := query.Order("id asc").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(subject *model.Subject) error {
	return r.DB.Model(subject).Select("Name", "Description").Updates(subject).Error
}

// Delete removes the subject together with its chapters, quizzes and attempt history.
func (r *SubjectRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("subject_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if err := deleteQuizzes(tx, quizIDs); err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Subject{}, id).Error
	})
}

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.DB.First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) Update(chapter *model.Chapter) error {
	return r.DB.Model(chapter).Select("Name", "Description").Updates(chapter).Error
}

// Delete removes the chapter together with its quizzes and their attempt history.
func (r *ChapterRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("chapter_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if err := deleteQuizzes(tx, quizIDs); err != nil {
			return err
		}
		return tx.Delete(&model.Chapter{}, id).Error
	})
}
