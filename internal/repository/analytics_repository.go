package repository

import (
	"context"
	"quiz_master_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

type Totals struct {
	Learners int64 `json:"learners"`
	Subjects int64 `json:"subjects"`
	Quizzes  int64 `json:"quizzes"`
	Attempts int64 `json:"attempts"`
}

type SubjectStat struct {
	SubjectID   uint    `json:"subjectId"`
	SubjectName string  `json:"subjectName"`
	Attempts    int64   `json:"attempts"`
	TopScore    int     `json:"topScore"`
	AvgScore    float64 `json:"avgScore"`
}

type QuizStat struct {
	QuizID      uint    `json:"quizId"`
	QuizTitle   string  `json:"quizTitle"`
	SubjectName string  `json:"subjectName"`
	ChapterName string  `json:"chapterName"`
	Attempts    int64   `json:"attempts"`
	AvgScore    float64 `json:"avgScore"`
}

type ReportRow struct {
	Username      string
	FullName      string
	AttemptNumber int
	Score         int
	StartedAt     *time.Time
	SubmittedAt   time.Time
}

func (r *AnalyticsRepository) Totals(ctx context.Context) (*Totals, error) {
	db := r.DB.WithContext(ctx)
	var t Totals
	if err := db.Model(&model.User{}).Where("role = ?", model.Student).Count(&t.Learners).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Subject{}).Count(&t.Subjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Quiz{}).Count(&t.Quizzes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Score{}).Count(&t.Attempts).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// SubjectStats aggregates attempts per subject, optionally for one learner only.
func (r *AnalyticsRepository) SubjectStats(ctx context.Context, userID uint) ([]SubjectStat, error) {
	scoreJoin := "LEFT JOIN scores s ON s.quiz_id = q.id"
	args := []interface{}{}
	if userID > 0 {
		scoreJoin += " AND s.user_id = ?"
		args = append(args, userID)
	}

	var rows []SubjectStat
	err := r.DB.WithContext(ctx).Table("subjects sub").
		Select("sub.id AS subject_id, sub.name AS subject_name, COUNT(s.id) AS attempts, " +
			"COALESCE(MAX(s.score), 0) AS top_score, COALESCE(AVG(s.score), 0) AS avg_score").
		Joins("LEFT JOIN quizzes q ON q.subject_id = sub.id").
		Joins(scoreJoin, args...).
		Group("sub.id, sub.name").
		Order("sub.name asc").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) QuizStats(ctx context.Context) ([]QuizStat, error) {
	var rows []QuizStat
	err := r.DB.WithContext(ctx).Table("quizzes q").
		Select("q.id AS quiz_id, q.title AS quiz_title, sub.name AS subject_name, c.name AS chapter_name, " +
			"COUNT(s.id) AS attempts, COALESCE(AVG(s.score), 0) AS avg_score").
		Joins("JOIN subjects sub ON sub.id = q.subject_id").
		Joins("JOIN chapters c ON c.id = q.chapter_id").
		Joins("LEFT JOIN scores s ON s.quiz_id = q.id").
		Group("q.id, q.title, sub.name, c.name").
		Order("q.id asc").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) QuizReport(ctx context.Context, quizID uint) ([]ReportRow, error) {
	var rows []ReportRow
	err := r.DB.WithContext(ctx).Table("scores s").
		Select("u.username, u.full_name, s.attempt_number, s.score, s.started_at, s.submitted_at").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.quiz_id = ?", quizID).
		Order("u.username asc, s.attempt_number asc").
		Scan(&rows).Error
	return rows, err
}
