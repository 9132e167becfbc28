package repository

import (
	"context"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// ScoreView is a score joined with its quiz, subject and chapter.
type ScoreView struct {
	ScoreID         uint       `json:"scoreId"`
	QuizID          uint       `json:"quizId"`
	QuizTitle       string     `json:"quizTitle"`
	SubjectID       uint       `json:"subjectId"`
	SubjectName     string     `json:"subjectName"`
	ChapterID       uint       `json:"chapterId"`
	ChapterName     string     `json:"chapterName"`
	DueAt           time.Time  `json:"dueAt"`
	DurationMinutes int        `json:"durationMinutes"`
	AttemptNumber   int        `json:"attemptNumber"`
	Score           int        `json:"score"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	SubmittedAt     time.Time  `json:"submittedAt"`
}

// AnswerDetail is one recorded answer joined with its question.
type AnswerDetail struct {
	QuestionID    uint    `json:"questionId"`
	Statement     string  `json:"statement"`
	Option1       string  `json:"option1"`
	Option2       string  `json:"option2"`
	Option3       string  `json:"option3"`
	Option4       string  `json:"option4"`
	InputAnswer   *string `json:"inputAnswer"`
	CorrectAnswer string  `json:"correctAnswer"`
	Weightage     int     `json:"weightage"`
	Correct       bool    `json:"correct" gorm:"-"`
}

func (r *AttemptRepository) CountAttempts(ctx context.Context, userID, quizID uint) (int, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Score{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return int(count), err
}

// RecordAttempt stores a score and its user inputs atomically. The attempt number
// is assigned inside the transaction as prior attempts + 1; the unique index on
// (user_id, quiz_id, attempt_number) turns a concurrent duplicate into
// util.ErrAttemptConflict.
func (r *AttemptRepository) RecordAttempt(ctx context.Context, score *model.Score, inputs []model.UserInput, maxAttempts int) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior int64
		if err := tx.Model(&model.Score{}).
			Where("user_id = ? AND quiz_id = ?", score.UserID, score.QuizID).
			Count(&prior).Error; err != nil {
			return err
		}
		if int(prior) >= maxAttempts {
			return util.ErrAttemptLimitReached
		}

		score.AttemptNumber = int(prior) + 1
		if err := tx.Create(score).Error; err != nil {
			return err
		}

		if len(inputs) == 0 {
			return nil
		}
		for i := range inputs {
			inputs[i].UserID = score.UserID
			inputs[i].QuizID = score.QuizID
			inputs[i].AttemptNumber = score.AttemptNumber
		}
		return tx.Create(&inputs).Error
	})
	if util.IsDuplicateKey(err) {
		return util.ErrAttemptConflict
	}
	return err
}

func (r *AttemptRepository) scoreViews(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Table("scores s").
		Select("s.id AS score_id, s.quiz_id, q.title AS quiz_title, q.subject_id, sub.name AS subject_name, " +
			"q.chapter_id, c.name AS chapter_name, q.due_at, q.duration_minutes, " +
			"s.attempt_number, s.score, s.started_at, s.submitted_at").
		Joins("JOIN quizzes q ON q.id = s.quiz_id").
		Joins("JOIN subjects sub ON sub.id = q.subject_id").
		Joins("JOIN chapters c ON c.id = q.chapter_id")
}

func (r *AttemptRepository) ListScores(ctx context.Context, userID uint) ([]ScoreView, error) {
	var rows []ScoreView
	err := r.scoreViews(ctx).
		Where("s.user_id = ?", userID).
		Order("s.submitted_at desc, s.id desc").
		Scan(&rows).Error
	return rows, err
}

func (r *AttemptRepository) FindScore(ctx context.Context, userID, quizID uint, attempt int) (*ScoreView, error) {
	var rows []ScoreView
	err := r.scoreViews(ctx).
		Where("s.user_id = ? AND s.quiz_id = ? AND s.attempt_number = ?", userID, quizID, attempt).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.ErrScoreNotFound
	}
	return &rows[0], nil
}

func (r *AttemptRepository) ListAnswers(ctx context.Context, userID, quizID uint, attempt int) ([]AnswerDetail, error) {
	var rows []AnswerDetail
	err := r.DB.WithContext(ctx).Table("user_inputs ui").
		Select("ui.question_id, qu.statement, qu.option1, qu.option2, qu.option3, qu.option4, "+
			"ui.input_answer, qu.answer AS correct_answer, qu.weightage").
		Joins("JOIN questions qu ON qu.id = ui.question_id").
		Where("ui.user_id = ? AND ui.quiz_id = ? AND ui.attempt_number = ?", userID, quizID, attempt).
		Order("ui.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Correct = rows[i].InputAnswer != nil && *rows[i].InputAnswer == rows[i].CorrectAnswer
	}
	return rows, nil
}
