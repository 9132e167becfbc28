package service

import (
	"context"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxTitleLength     = 64
	maxStatementLength = 300
	maxOptionLength    = 64
	maxDurationMinutes = 24 * 60
)

type QuizInput struct {
	ChapterID       uint
	Title           string
	DueAt           time.Time
	DurationMinutes int
	Remarks         string
	Hidden          bool
}

// QuizUpdate lists the mutable fields of a quiz. The chapter and subject are fixed at creation.
type QuizUpdate struct {
	Title           *string    `json:"title"`
	DueAt           *time.Time `json:"dueAt"`
	DurationMinutes *int       `json:"durationMinutes"`
	Remarks         *string    `json:"remarks"`
	Hidden          *bool      `json:"hidden"`
}

type QuestionInput struct {
	Statement    string `json:"statement"`
	QuestionType string `json:"questionType"`
	Option1      string `json:"option1"`
	Option2      string `json:"option2"`
	Option3      string `json:"option3"`
	Option4      string `json:"option4"`
	Answer       string `json:"answer"`
	Weightage    int    `json:"weightage"`
}

type QuestionUpdate struct {
	Statement *string `json:"statement"`
	Option1   *string `json:"option1"`
	Option2   *string `json:"option2"`
	Option3   *string `json:"option3"`
	Option4   *string `json:"option4"`
	Answer    *string `json:"answer"`
	Weightage *int    `json:"weightage"`
}

// QuizDetail is the admin view of a quiz, answers included.
type QuizDetail struct {
	model.Quiz
	Questions []model.Question `json:"questions"`
}

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	ChapterRepo *repository.ChapterRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, chapterRepo *repository.ChapterRepository) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		ChapterRepo: chapterRepo,
	}
}

func validateQuiz(q *model.Quiz) error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return util.NewValidationError("title", "must not be blank")
	}
	if len(q.Title) > maxTitleLength {
		return util.NewValidationError("title", "is too long")
	}
	if q.DueAt.IsZero() {
		return util.NewValidationError("dueAt", "is required")
	}
	if q.DurationMinutes < 1 || q.DurationMinutes > maxDurationMinutes {
		return util.NewValidationError("durationMinutes", "must be between 1 and 1440")
	}
	q.Remarks = strings.TrimSpace(q.Remarks)
	if len(q.Remarks) > maxDescriptionLength {
		return util.NewValidationError("remarks", "is too long")
	}
	return nil
}

func (s *QuizService) CreateQuiz(in QuizInput) (*model.Quiz, error) {
	chapter, err := s.ChapterRepo.FindByID(in.ChapterID)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	quiz := &model.Quiz{
		SubjectID:       chapter.SubjectID,
		ChapterID:       chapter.ID,
		Title:           in.Title,
		DueAt:           in.DueAt,
		DurationMinutes: in.DurationMinutes,
		Remarks:         in.Remarks,
		Hidden:          in.Hidden,
	}
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	logger.Log.Info("quiz created", zap.Uint("quizID", quiz.ID), zap.Uint("chapterID", quiz.ChapterID))
	return quiz, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, id)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuizDetail(ctx context.Context, id uint) (*QuizDetail, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuizRepo.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id uint, upd QuizUpdate) (*model.Quiz, error) {
	if upd.Title == nil && upd.DueAt == nil && upd.DurationMinutes == nil && upd.Remarks == nil && upd.Hidden == nil {
		return nil, util.ErrEmptyUpdate
	}
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		quiz.Title = *upd.Title
	}
	if upd.DueAt != nil {
		quiz.DueAt = *upd.DueAt
	}
	if upd.DurationMinutes != nil {
		quiz.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Remarks != nil {
		quiz.Remarks = *upd.Remarks
	}
	if upd.Hidden != nil {
		quiz.Hidden = *upd.Hidden
	}
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id uint) error {
	if _, err := s.GetQuiz(ctx, id); err != nil {
		return err
	}
	if err := s.QuizRepo.Delete(id); err != nil {
		return err
	}
	logger.Log.Info("quiz deleted", zap.Uint("quizID", id))
	return nil
}

// ListForAdmin includes hidden quizzes. chapterID 0 lists every chapter.
func (s *QuizService) ListForAdmin(ctx context.Context, chapterID uint, search string) ([]repository.QuizListRow, error) {
	return s.QuizRepo.List(ctx, repository.QuizFilter{
		Search:        strings.TrimSpace(search),
		IncludeHidden: true,
		ChapterID:     chapterID,
	})
}

// ListForLearner returns visible quizzes with the learner's attempts used.
func (s *QuizService) ListForLearner(ctx context.Context, userID uint, search string) ([]repository.QuizListRow, error) {
	return s.QuizRepo.List(ctx, repository.QuizFilter{
		Search: strings.TrimSpace(search),
		UserID: userID,
	})
}

func validateQuestion(q *model.Question) error {
	q.Statement = strings.TrimSpace(q.Statement)
	if q.Statement == "" {
		return util.NewValidationError("statement", "must not be blank")
	}
	if len(q.Statement) > maxStatementLength {
		return util.NewValidationError("statement", "is too long")
	}
	if q.QuestionType != model.QuestionSingleCorrect {
		return util.NewValidationError("questionType", "only single_correct is supported")
	}
	for i, o := range q.Options() {
		field := "option" + strconv.Itoa(i+1)
		if strings.TrimSpace(o) == "" {
			return util.NewValidationError(field, "must not be blank")
		}
		if len(o) > maxOptionLength {
			return util.NewValidationError(field, "is too long")
		}
	}
	if !q.HasOption(q.Answer) {
		return util.NewValidationError("answer", "must equal one of the options")
	}
	if q.Weightage < model.MinWeightage || q.Weightage > model.MaxWeightage {
		return util.NewValidationError("weightage", "must be between 1 and 10")
	}
	return nil
}

func (s *QuizService) AddQuestion(ctx context.Context, quizID uint, in QuestionInput) (*model.Question, error) {
	if _, err := s.GetQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	if in.QuestionType == "" {
		in.QuestionType = model.QuestionSingleCorrect
	}
	q := &model.Question{
		QuizID:       quizID,
		Statement:    in.Statement,
		QuestionType: in.QuestionType,
		Option1:      in.Option1,
		Option2:      in.Option2,
		Option3:      in.Option3,
		Option4:      in.Option4,
		Answer:       in.Answer,
		Weightage:    in.Weightage,
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) getQuestion(id uint) (*model.Question, error) {
	q, err := s.QuizRepo.FindQuestionByID(id)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuizService) UpdateQuestion(id uint, upd QuestionUpdate) (*model.Question, error) {
	if upd.Statement == nil && upd.Option1 == nil && upd.Option2 == nil && upd.Option3 == nil &&
		upd.Option4 == nil && upd.Answer == nil && upd.Weightage == nil {
		return nil, util.ErrEmptyUpdate
	}
	q, err := s.getQuestion(id)
	if err != nil {
		return nil, err
	}

	if upd.Statement != nil {
		q.Statement = *upd.Statement
	}
	if upd.Option1 != nil {
		q.Option1 = *upd.Option1
	}
	if upd.Option2 != nil {
		q.Option2 = *upd.Option2
	}
	if upd.Option3 != nil {
		q.Option3 = *upd.Option3
	}
	if upd.Option4 != nil {
		q.Option4 = *upd.Option4
	}
	if upd.Answer != nil {
		q.Answer = *upd.Answer
	}
	if upd.Weightage != nil {
		q.Weightage = *upd.Weightage
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) DeleteQuestion(id uint) error {
	if _, err := s.getQuestion(id); err != nil {
		return err
	}
	return s.QuizRepo.DeleteQuestion(id)
}
