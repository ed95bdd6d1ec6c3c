package model

import "encoding/json"

// attemptAnswersVersion tags the serialized selections blob so its shape can
// evolve without a migration (schema-on-read).
const attemptAnswersVersion = 1

// QuizAttempt is write-once: inserted when a quiz is scored, never updated.
// UserID is nil for anonymous attempts.
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID  string          `gorm:"index;type:varchar(36);not null" json:"quiz_id"`
	Quiz    *Quiz           `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  *string         `gorm:"index;type:varchar(36)" json:"user_id"`
	Score   float64         `gorm:"type:decimal(5,2);not null" json:"score"`
	Answers json.RawMessage `gorm:"type:json;not null" json:"answers"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type attemptAnswersBlob struct {
	Version    int               `json:"v"`
	Selections map[string]string `json:"selections"`
}

// EncodeAttemptAnswers wraps the caller's questionID -> answerID selections in
// the version-tagged storage envelope.
func EncodeAttemptAnswers(selections map[string]string) (json.RawMessage, error) {
	if selections == nil {
		selections = map[string]string{}
	}
	return json.Marshal(attemptAnswersBlob{Version: attemptAnswersVersion, Selections: selections})
}

// DecodeAttemptAnswers reads the envelope back. Unknown versions surface the
// raw selections it can find and an empty map otherwise.
func DecodeAttemptAnswers(raw json.RawMessage) (map[string]string, error) {
	var blob attemptAnswersBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, err
	}
	if blob.Selections == nil {
		blob.Selections = map[string]string{}
	}
	return blob.Selections, nil
}
