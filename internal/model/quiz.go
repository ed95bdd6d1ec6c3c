package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      string     `gorm:"index;type:varchar(36);not null" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Questions   []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions"`

	// Filled from the users join on reads, never persisted.
	CreatorEmail string `gorm:"-" json:"creator_email,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID       string   `gorm:"index;type:varchar(36);not null" json:"quiz_id"`
	Quiz         *Quiz    `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionText string   `gorm:"type:text;not null" json:"question_text"`
	Answers      []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	UUIDBase
	QuestionID string    `gorm:"index;type:varchar(36);not null" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	AnswerText string    `gorm:"type:text;not null" json:"answer_text"`
	IsCorrect  bool      `gorm:"default:false" json:"is_correct"`
}

func (Answer) TableName() string {
	return "answers"
}
