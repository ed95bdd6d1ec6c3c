package service

import (
	"math"
	"quizhub_backend/internal/model"
)

// QuizReader is the read side the scoring engine needs from the quiz repository.
type QuizReader interface {
	FindByID(quizID string) (*model.Quiz, error)
}

// AttemptWriter persists one attempt row.
type AttemptWriter interface {
	Create(attempt *model.QuizAttempt) error
}

// ScoringService computes the authoritative score for a submitted selection
// map and records the attempt. Any score a client sends along is ignored; the
// persisted value is always recomputed from stored data.
type ScoringService struct {
	Quizzes  QuizReader
	Attempts AttemptWriter
}

func NewScoringService(quizzes QuizReader, attempts AttemptWriter) *ScoringService {
	return &ScoringService{Quizzes: quizzes, Attempts: attempts}
}

// Score returns the percentage of questions answered correctly, rounded to
// two decimals. A question counts as correct only when the selection maps it
// to an answer that belongs to it and is flagged correct; missing selections
// and foreign answer ids contribute zero. A quiz with no questions scores 0.
func (s *ScoringService) Score(quiz *model.Quiz, selections map[string]string) float64 {
	total := len(quiz.Questions)
	if total == 0 {
		return 0
	}

	correct := 0
	for _, q := range quiz.Questions {
		selected, ok := selections[q.ID]
		if !ok {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == selected {
				if a.IsCorrect {
					correct++
				}
				break
			}
		}
	}

	return math.Round(float64(correct)/float64(total)*10000) / 100
}

// RecordAttempt verifies the quiz exists, recomputes the score from its stored
// questions and answers, and inserts the write-once attempt row with the
// selections wrapped in the version-tagged blob. userID is nil for anonymous
// attempts. Returns util.ErrQuizNotFound without writing when the quiz is
// unknown.
func (s *ScoringService) RecordAttempt(quizID string, userID *string, selections map[string]string) (*model.QuizAttempt, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	score := s.Score(quiz, selections)

	answers, err := model.EncodeAttemptAnswers(selections)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Score:   score,
		Answers: answers,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}
