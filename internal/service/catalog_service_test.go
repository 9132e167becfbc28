package service

import (
	"context"
	"errors"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"testing"
	"time"
)

func newCatalogService(f *fixture) *CatalogService {
	return NewCatalogService(repository.NewSubjectRepository(f.db), repository.NewChapterRepository(f.db))
}

func TestSubjectUpdateCommand(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db, testNow, false)
	svc := newCatalogService(f)

	if _, err := svc.UpdateSubject(f.subject.ID, SubjectUpdate{}); !errors.Is(err, util.ErrEmptyUpdate) {
		t.Fatalf("empty update err = %v", err)
	}
	if _, err := svc.UpdateSubject(f.subject.ID, SubjectUpdate{Name: strPtr("  ")}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("blank name err = %v", err)
	}

	got, err := svc.UpdateSubject(f.subject.ID, SubjectUpdate{Description: strPtr("numbers")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Maths" || got.Description != "numbers" {
		t.Fatalf("subject = %+v", got)
	}

	if _, err := svc.UpdateSubject(9999, SubjectUpdate{Name: strPtr("x")}); !errors.Is(err, util.ErrSubjectNotFound) {
		t.Fatalf("unknown subject err = %v", err)
	}
}

func TestCreateChapterRequiresSubject(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db, testNow, false)
	svc := newCatalogService(f)

	if _, err := svc.CreateChapter(9999, "Geometry", ""); !errors.Is(err, util.ErrSubjectNotFound) {
		t.Fatalf("err = %v", err)
	}
	ch, err := svc.CreateChapter(f.subject.ID, "Geometry", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	subject, err := svc.GetSubject(f.subject.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(subject.Chapters) != 2 || subject.Chapters[1].ID != ch.ID {
		t.Fatalf("chapters = %+v", subject.Chapters)
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db, testNow.Add(time.Hour), false, 3)
	if _, err := newAttemptService(db, testNow).Submit(context.Background(), f.learner.ID, f.quiz.ID, map[string]string{f.key(0): "A"}); err != nil {
		t.Fatal(err)
	}

	other := &model.Subject{Name: "Physics"}
	mustCreate(t, db, other)

	svc := newCatalogService(f)
	if err := svc.DeleteSubject(f.subject.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, v := range []interface{}{&model.Chapter{}, &model.Quiz{}, &model.Question{}, &model.Score{}, &model.UserInput{}} {
		if n := countRows(t, db, v); n != 0 {
			t.Errorf("%T rows left = %d", v, n)
		}
	}
	if n := countRows(t, db, &model.Subject{}); n != 1 {
		t.Fatalf("subjects left = %d, want 1", n)
	}
}

func TestDeleteChapterCascades(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db, testNow.Add(time.Hour), false, 3)
	if _, err := newAttemptService(db, testNow).Submit(context.Background(), f.learner.ID, f.quiz.ID, map[string]string{}); err != nil {
		t.Fatal(err)
	}

	svc := newCatalogService(f)
	if err := svc.DeleteChapter(f.chapter.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, v := range []interface{}{&model.Chapter{}, &model.Quiz{}, &model.Question{}, &model.Score{}, &model.UserInput{}} {
		if n := countRows(t, db, v); n != 0 {
			t.Errorf("%T rows left = %d", v, n)
		}
	}
	if n := countRows(t, db, &model.Subject{}); n != 1 {
		t.Fatalf("subject removed with its chapter")
	}
}

func TestListSubjectsWithChapters(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db, testNow, false)
	svc := newCatalogService(f)

	if _, err := svc.CreateSubject("Physics", ""); err != nil {
		t.Fatalf("create subject: %v", err)
	}

	all, err := svc.ListSubjects("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || len(all[0].Chapters) != 1 || all[0].Chapters[0].Name != "Algebra" {
		t.Fatalf("subjects = %+v", all)
	}

	found, err := svc.ListSubjects(" Phys ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Physics" {
		t.Fatalf("search result = %+v", found)
	}
}
