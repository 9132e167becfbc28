package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnalyticsSummary struct {
	Totals   *repository.Totals       `json:"totals"`
	Subjects []repository.SubjectStat `json:"subjects"`
	Quizzes  []repository.QuizStat    `json:"quizzes"`
}

type LearnerStats struct {
	Attempts int64                    `json:"attempts"`
	Subjects []repository.SubjectStat `json:"subjects"`
}

type ReportExport struct {
	QuizID uint   `json:"quizId"`
	Rows   int    `json:"rows"`
	URL    string `json:"url"`
}

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	QuizRepo      *repository.QuizRepository
	Storage       *StorageService
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, quizRepo *repository.QuizRepository, storage *StorageService) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		QuizRepo:      quizRepo,
		Storage:       storage,
	}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	totals, err := s.AnalyticsRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.AnalyticsRepo.SubjectStats(ctx, 0)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.AnalyticsRepo.QuizStats(ctx)
	if err != nil {
		return nil, err
	}
	return &AnalyticsSummary{Totals: totals, Subjects: subjects, Quizzes: quizzes}, nil
}

func (s *AnalyticsService) LearnerStats(ctx context.Context, userID uint) (*LearnerStats, error) {
	subjects, err := s.AnalyticsRepo.SubjectStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &LearnerStats{Subjects: subjects}
	for _, sub := range subjects {
		stats.Attempts += sub.Attempts
	}
	return stats, nil
}

// WriteQuizReport renders all attempts of a quiz as CSV.
func WriteQuizReport(buf *bytes.Buffer, rows []repository.ReportRow) error {
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"username", "full_name", "attempt", "score", "started_at", "submitted_at"}); err != nil {
		return err
	}
	for _, r := range rows {
		started := ""
		if r.StartedAt != nil {
			started = r.StartedAt.Format(util.TimeFormat)
		}
		record := []string{
			r.Username,
			r.FullName,
			strconv.Itoa(r.AttemptNumber),
			strconv.Itoa(r.Score),
			started,
			r.SubmittedAt.Format(util.TimeFormat),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportQuizReport uploads the CSV report of a quiz through the storage provider
// and removes the report it replaces.
func (s *AnalyticsService) ExportQuizReport(ctx context.Context, quizID uint) (*ReportExport, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, quizID)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	rows, err := s.AnalyticsRepo.QuizReport(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteQuizReport(&buf, rows); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("reports/quiz_%d_%s.csv", quizID, uuid.New().String())
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeCSV)
	if err != nil {
		return nil, err
	}
	if err := s.QuizRepo.SetReportObject(ctx, quizID, filename); err != nil {
		return nil, err
	}
	if quiz.ReportObject != "" {
		if err := s.Storage.Delete(ctx, quiz.ReportObject); err != nil {
			logger.Log.Warn("failed to delete previous report", zap.String("object", quiz.ReportObject), zap.Error(err))
		}
	}

	logger.Log.Info("quiz report exported", zap.Uint("quizID", quizID), zap.Int("rows", len(rows)), zap.String("url", url))
	return &ReportExport{QuizID: quizID, Rows: len(rows), URL: url}, nil
}
