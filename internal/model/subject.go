package model

// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"size:250" json:"description"`
	Chapters    []Chapter `gorm:"foreignKey:SubjectID" json:"chapters,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	SubjectID   uint   `gorm:"index;not null" json:"subjectId"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Description string `gorm:"size:250" json:"description"`
}

func (Chapter) TableName() string {
	return "chapters"
}
