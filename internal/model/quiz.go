package model

import "time"

// swagger:model Quiz
type Quiz struct {
	BaseModel
	// SubjectID mirrors the chapter's subject so listings avoid a join.
	SubjectID       uint      `gorm:"index;not null" json:"subjectId"`
	ChapterID       uint      `gorm:"index;not null" json:"chapterId"`
	Title           string    `gorm:"size:64" json:"title"`
	DueAt           time.Time `gorm:"not null" json:"dueAt"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
	Remarks         string    `gorm:"size:250" json:"remarks"`
	Hidden          bool      `gorm:"default:false" json:"hidden"`
	// ReportObject is the storage name of the latest exported report.
	ReportObject string `gorm:"size:128" json:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Open reports whether learners may still attempt the quiz at now.
func (q *Quiz) Open(now time.Time) bool {
	return !now.After(q.DueAt)
}

func (q *Quiz) Duration() time.Duration {
	return time.Duration(q.DurationMinutes) * time.Minute
}
