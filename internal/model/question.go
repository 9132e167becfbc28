package model

const (
	QuestionSingleCorrect = "single_correct"
)

const (
	MinWeightage = 1
	MaxWeightage = 10
)

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint   `gorm:"index;not null" json:"quizId"`
	Statement    string `gorm:"size:300;not null" json:"statement"`
	QuestionType string `gorm:"size:32;not null;default:'single_correct'" json:"questionType"`
	Option1      string `gorm:"size:64" json:"option1"`
	Option2      string `gorm:"size:64" json:"option2"`
	Option3      string `gorm:"size:64" json:"option3"`
	Option4      string `gorm:"size:64" json:"option4"`
	Answer       string `gorm:"size:64;not null" json:"answer"`
	Weightage    int    `gorm:"not null;default:1" json:"weightage"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// HasOption reports whether text is exactly one of the four options.
func (q *Question) HasOption(text string) bool {
	for _, o := range q.Options() {
		if o == text {
			return true
		}
	}
	return false
}
