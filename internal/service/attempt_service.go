package service

import (
	"context"
	"errors"
	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
	"quiz_master_backend/pkg/monitoring"
	"quiz_master_backend/pkg/tracing"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// QuestionView is a question as shown to a learner, without the answer.
type QuestionView struct {
	ID        uint     `json:"id"`
	Statement string   `json:"statement"`
	Options   []string `json:"options"`
	Weightage int      `json:"weightage"`
}

type AttemptPage struct {
	QuizID          uint           `json:"quizId"`
	Title           string         `json:"title"`
	Remarks         string         `json:"remarks"`
	DueAt           time.Time      `json:"dueAt"`
	DurationSeconds int64          `json:"durationSeconds"`
	StartedAt       time.Time      `json:"startedAt"`
	ElapsedSeconds  int64          `json:"elapsedSeconds"`
	AttemptNumber   int            `json:"attemptNumber"`
	AttemptsLeft    int            `json:"attemptsLeft"`
	Questions       []QuestionView `json:"questions"`
}

// ScoreDetail is a score record with the per-question breakdown.
type ScoreDetail struct {
	Score   *repository.ScoreView     `json:"score"`
	Answers []repository.AnswerDetail `json:"answers"`
}

type AttemptService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	Clock       AttemptClock
	Cfg         *config.QuizConfig

	now func() time.Time
}

func NewAttemptService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, clock AttemptClock, cfg *config.QuizConfig) *AttemptService {
	return &AttemptService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Clock:       clock,
		Cfg:         cfg,
		now:         time.Now,
	}
}

// gate applies the eligibility rules in order and returns the quiz with the
// learner's prior attempt count.
func (s *AttemptService) gate(ctx context.Context, userID, quizID uint, now time.Time) (*model.Quiz, int, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, quizID)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, 0, util.ErrQuizNotFound
		}
		return nil, 0, err
	}
	if quiz.Hidden {
		return nil, 0, util.ErrQuizHidden
	}
	if !quiz.Open(now) {
		return nil, 0, util.ErrQuizPastDue
	}

	prior, err := s.AttemptRepo.CountAttempts(ctx, userID, quizID)
	if err != nil {
		return nil, 0, err
	}
	if prior >= s.Cfg.MaxAttempts {
		return nil, 0, util.ErrAttemptLimitReached
	}
	return quiz, prior, nil
}

// StartAttempt serves the attempt page and starts the clock on the first visit.
func (s *AttemptService) StartAttempt(ctx context.Context, userID, quizID uint) (*AttemptPage, error) {
	now := s.now()
	quiz, prior, err := s.gate(ctx, userID, quizID, now)
	if err != nil {
		return nil, err
	}

	questions, err := s.QuizRepo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	startedAt, err := s.Clock.Start(ctx, userID, quizID, now)
	if err != nil {
		logger.Log.Warn("attempt clock unavailable", zap.Uint("userID", userID), zap.Uint("quizID", quizID), zap.Error(err))
		startedAt = now
	}

	page := &AttemptPage{
		QuizID:          quiz.ID,
		Title:           quiz.Title,
		Remarks:         quiz.Remarks,
		DueAt:           quiz.DueAt,
		DurationSeconds: int64(quiz.Duration() / time.Second),
		StartedAt:       startedAt,
		ElapsedSeconds:  int64(now.Sub(startedAt) / time.Second),
		AttemptNumber:   prior + 1,
		AttemptsLeft:    s.Cfg.MaxAttempts - prior,
		Questions:       make([]QuestionView, 0, len(questions)),
	}
	if page.ElapsedSeconds < 0 {
		page.ElapsedSeconds = 0
	}
	for _, q := range questions {
		page.Questions = append(page.Questions, QuestionView{
			ID:        q.ID,
			Statement: q.Statement,
			Options:   q.Options(),
			Weightage: q.Weightage,
		})
	}
	return page, nil
}

// parseAnswers maps submitted keys to question ids of this quiz.
func (s *AttemptService) parseAnswers(raw map[string]string, questions []model.Question) (map[uint]string, error) {
	if raw == nil {
		return nil, util.NewValidationError("answers", "is required")
	}
	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	answers := make(map[uint]string, len(raw))
	for key, text := range raw {
		id, ok := util.ParseID(key)
		if !ok || strconv.FormatUint(uint64(id), 10) != key {
			return nil, util.NewValidationError(key, "is not a question id")
		}
		if !known[id] {
			return nil, util.NewValidationError(key, "is not a question of this quiz")
		}
		if len(text) > s.Cfg.MaxAnswerSize {
			return nil, util.NewValidationError(key, "answer is too long")
		}
		answers[id] = text
	}
	return answers, nil
}

// Submit grades the answers and persists the score with its user inputs in one
// transaction. A concurrent submission of the same attempt yields util.ErrAttemptConflict.
func (s *AttemptService) Submit(ctx context.Context, userID, quizID uint, raw map[string]string) (detail *ScoreDetail, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Submit")
	span.SetAttributes(attribute.Int64("quiz.id", int64(quizID)), attribute.Int64("user.id", int64(userID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	now := s.now()
	if _, _, err := s.gate(ctx, userID, quizID, now); err != nil {
		monitoring.RecordSubmission(outcomeOf(err))
		return nil, err
	}

	questions, err := s.QuizRepo.ListQuestions(ctx, quizID)
	if err != nil {
		monitoring.RecordSubmission(monitoring.OutcomeError)
		return nil, err
	}
	answers, err := s.parseAnswers(raw, questions)
	if err != nil {
		monitoring.RecordSubmission(monitoring.OutcomeInvalid)
		return nil, err
	}

	result := ScoreAnswers(questions, answers)

	score := &model.Score{
		UserID:      userID,
		QuizID:      quizID,
		SubmittedAt: now,
		Score:       result.Percent,
	}
	if startedAt, ok, cerr := s.Clock.Started(ctx, userID, quizID); cerr != nil {
		logger.Log.Warn("attempt clock unavailable", zap.Uint("userID", userID), zap.Uint("quizID", quizID), zap.Error(cerr))
	} else if ok {
		score.StartedAt = &startedAt
	}

	if err := s.AttemptRepo.RecordAttempt(ctx, score, result.Inputs, s.Cfg.MaxAttempts); err != nil {
		monitoring.RecordSubmission(outcomeOf(err))
		if errors.Is(err, util.ErrAttemptConflict) {
			logger.Log.Warn("concurrent attempt rejected", zap.Uint("userID", userID), zap.Uint("quizID", quizID))
		}
		return nil, err
	}

	if err := s.Clock.Clear(ctx, userID, quizID); err != nil {
		logger.Log.Warn("failed to clear attempt clock", zap.Uint("userID", userID), zap.Uint("quizID", quizID), zap.Error(err))
	}

	monitoring.RecordSubmission(monitoring.OutcomeAccepted)
	monitoring.ObserveScore(result.Percent)
	span.SetAttributes(attribute.Int("attempt.number", score.AttemptNumber), attribute.Int("attempt.score", score.Score))
	logger.Log.Info("attempt recorded",
		zap.Uint("userID", userID),
		zap.Uint("quizID", quizID),
		zap.Int("attempt", score.AttemptNumber),
		zap.Int("score", score.Score),
		zap.Int("earned", result.Earned),
		zap.Int("possible", result.Possible),
	)

	return s.ScoreDetail(ctx, userID, quizID, score.AttemptNumber)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuizHidden),
		errors.Is(err, util.ErrQuizPastDue), errors.Is(err, util.ErrAttemptLimitReached):
		return monitoring.OutcomeRejected
	case errors.Is(err, util.ErrAttemptConflict):
		return monitoring.OutcomeConflict
	case errors.Is(err, util.ErrValidation):
		return monitoring.OutcomeInvalid
	default:
		return monitoring.OutcomeError
	}
}

func (s *AttemptService) ListScores(ctx context.Context, userID uint) ([]repository.ScoreView, error) {
	return s.AttemptRepo.ListScores(ctx, userID)
}

func (s *AttemptService) ScoreDetail(ctx context.Context, userID, quizID uint, attempt int) (*ScoreDetail, error) {
	score, err := s.AttemptRepo.FindScore(ctx, userID, quizID, attempt)
	if err != nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.ListAnswers(ctx, userID, quizID, attempt)
	if err != nil {
		return nil, err
	}
	return &ScoreDetail{Score: score, Answers: answers}, nil
}
