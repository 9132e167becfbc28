package model

import "time"

// UserInput is one learner answer for one question in one attempt.
// A nil InputAnswer marks the question as unattempted.
type UserInput struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"index:idx_user_inputs_attempt,priority:1;not null" json:"userId"`
	QuizID        uint      `gorm:"index:idx_user_inputs_attempt,priority:2;not null" json:"quizId"`
	AttemptNumber int       `gorm:"index:idx_user_inputs_attempt,priority:3;not null" json:"attemptNumber"`
	QuestionID    uint      `gorm:"index;not null" json:"questionId"`
	InputAnswer   *string   `gorm:"size:64" json:"inputAnswer"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (UserInput) TableName() string {
	return "user_inputs"
}

// swagger:model Score
type Score struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint       `gorm:"uniqueIndex:uq_user_quiz_attempt,priority:1;not null" json:"userId"`
	QuizID        uint       `gorm:"uniqueIndex:uq_user_quiz_attempt,priority:2;index;not null" json:"quizId"`
	AttemptNumber int        `gorm:"uniqueIndex:uq_user_quiz_attempt,priority:3;not null" json:"attemptNumber"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	SubmittedAt   time.Time  `gorm:"not null" json:"submittedAt"`
	Score         int        `gorm:"not null" json:"score"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (Score) TableName() string {
	return "scores"
}
