package repository

import (
	"context"
	"quiz_master_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizListRow is a quiz joined with its catalog names and per-learner usage.
type QuizListRow struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	SubjectID       uint      `json:"subjectId"`
	SubjectName     string    `json:"subjectName"`
	ChapterID       uint      `json:"chapterId"`
	ChapterName     string    `json:"chapterName"`
	DueAt           time.Time `json:"dueAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Remarks         string    `json:"remarks"`
	Hidden          bool      `json:"hidden"`
	QuestionCount   int       `json:"questionCount"`
	AttemptsUsed    int       `json:"attemptsUsed"`
}

type QuizFilter struct {
	Search        string
	IncludeHidden bool
	ChapterID     uint

	// UserID selects whose attempts are counted in AttemptsUsed.
	UserID uint
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Model(quiz).
		Select("Title", "DueAt", "DurationMinutes", "Remarks", "Hidden").
		Updates(quiz).Error
}

// Delete removes the quiz with its questions, scores and user inputs.
func (r *QuizRepository) SetReportObject(ctx context.Context, id uint, name string) error {
	return r.DB.WithContext(ctx).Model(&model.Quiz{}).Where("id = ?", id).Update("report_object", name).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteQuizzes(tx, []uint{id})
	})
}

func (r *QuizRepository) List(ctx context.Context, filter QuizFilter) ([]QuizListRow, error) {
	query := r.DB.WithContext(ctx).Table("quizzes q").
		Select("q.id, q.title, q.subject_id, sub.name AS subject_name, q.chapter_id, c.name AS chapter_name, "+
			"q.due_at, q.duration_minutes, q.remarks, q.hidden, "+
			"(SELECT COUNT(*) FROM questions qu WHERE qu.quiz_id = q.id) AS question_count, "+
			"(SELECT COUNT(*) FROM scores s WHERE s.quiz_id = q.id AND s.user_id = ?) AS attempts_used", filter.UserID).
		Joins("JOIN subjects sub ON sub.id = q.subject_id").
		Joins("JOIN chapters c ON c.id = q.chapter_id")

	if !filter.IncludeHidden {
		query = query.Where("q.hidden = ?", false)
	}
	if filter.ChapterID > 0 {
		query = query.Where("q.chapter_id = ?", filter.ChapterID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("q.title LIKE ? OR sub.name LIKE ? OR c.name LIKE ? OR q.remarks LIKE ?", like, like, like, like)
	}

	var rows []QuizListRow
	err := query.Order("q.due_at asc, q.id asc").Scan(&rows).Error
	return rows, err
}

func (r *QuizRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Model(question).
		Select("Statement", "Option1", "Option2", "Option3", "Option4", "Answer", "Weightage").
		Updates(question).Error
}

// DeleteQuestion also drops the answers learners gave to it.
func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.UserInput{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).Where("quiz_id = ?", quizID).Order("id asc").Find(&qs).Error
	return qs, err
}

func deleteQuizzes(tx *gorm.DB, quizIDs []uint) error {
	if len(quizIDs) == 0 {
		return nil
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.UserInput{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Score{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", quizIDs).Delete(&model.Quiz{}).Error
}
