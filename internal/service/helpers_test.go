package service

import (
	"fmt"
	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/pkg/database"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	learner   *model.User
	subject   *model.Subject
	chapter   *model.Chapter
	quiz      *model.Quiz
	questions []model.Question
}

// newFixture creates one learner and a quiz whose questions carry the given
// weights. Every question has options A..D with answer "A".
func newFixture(t *testing.T, db *gorm.DB, dueAt time.Time, hidden bool, weights ...int) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.learner = &model.User{Username: "learner", Email: "l@example.com", Password: "x", Role: model.Student}
	mustCreate(t, db, f.learner)
	f.subject = &model.Subject{Name: "Maths"}
	mustCreate(t, db, f.subject)
	f.chapter = &model.Chapter{SubjectID: f.subject.ID, Name: "Algebra"}
	mustCreate(t, db, f.chapter)
	f.quiz = &model.Quiz{
		SubjectID:       f.subject.ID,
		ChapterID:       f.chapter.ID,
		Title:           "Linear equations",
		DueAt:           dueAt,
		DurationMinutes: 30,
		Hidden:          hidden,
	}
	mustCreate(t, db, f.quiz)

	for i, w := range weights {
		q := model.Question{
			QuizID:       f.quiz.ID,
			Statement:    fmt.Sprintf("question %d", i+1),
			QuestionType: model.QuestionSingleCorrect,
			Option1:      "A",
			Option2:      "B",
			Option3:      "C",
			Option4:      "D",
			Answer:       "A",
			Weightage:    w,
		}
		mustCreate(t, db, &q)
		f.questions = append(f.questions, q)
	}
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func (f *fixture) key(i int) string {
	return fmt.Sprint(f.questions[i].ID)
}

func newAttemptService(db *gorm.DB, now time.Time) *AttemptService {
	svc := NewAttemptService(
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		NewMemoryAttemptClock(),
		&config.QuizConfig{MaxAttempts: 3, MaxAnswerSize: 64},
	)
	svc.now = func() time.Time { return now }
	return svc
}

func strPtr(s string) *string {
	return &s
}

func countRows(t *testing.T, db *gorm.DB, v interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(v).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", v, err)
	}
	return n
}
