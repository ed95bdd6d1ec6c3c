package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"testing"
)

type fakeQuizReader struct {
	quizzes map[string]*model.Quiz
	calls   int
}

func (f *fakeQuizReader) FindByID(quizID string) (*model.Quiz, error) {
	f.calls++
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

type fakeAttemptWriter struct {
	created []*model.QuizAttempt
	err     error
}

func (f *fakeAttemptWriter) Create(attempt *model.QuizAttempt) error {
	if f.err != nil {
		return f.err
	}
	attempt.ID = model.GenerateUUID()
	f.created = append(f.created, attempt)
	return nil
}

// fourQuestionQuiz builds a quiz where question qN has answers qN-a (correct)
// and qN-b (incorrect).
func fourQuestionQuiz() *model.Quiz {
	quiz := &model.Quiz{Title: "Capitals"}
	quiz.ID = "quiz-1"
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		q := model.Question{QuestionText: "question " + id}
		q.ID = id
		correct := model.Answer{AnswerText: "right", IsCorrect: true}
		correct.ID = id + "-a"
		wrong := model.Answer{AnswerText: "wrong"}
		wrong.ID = id + "-b"
		q.Answers = []model.Answer{correct, wrong}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func TestScoreThreeOfFour(t *testing.T) {
	s := NewScoringService(nil, nil)
	quiz := fourQuestionQuiz()

	score := s.Score(quiz, map[string]string{
		"q1": "q1-a",
		"q2": "q2-a",
		"q3": "q3-a",
		"q4": "q4-b",
	})
	if score != 75.00 {
		t.Fatalf("score = %v, want 75.00", score)
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	s := NewScoringService(nil, nil)
	quiz := &model.Quiz{}
	for _, id := range []string{"q1", "q2", "q3"} {
		q := model.Question{}
		q.ID = id
		a := model.Answer{IsCorrect: true}
		a.ID = id + "-a"
		q.Answers = []model.Answer{a}
		quiz.Questions = append(quiz.Questions, q)
	}

	// 1/3 rounds to 33.33, 2/3 to 66.67.
	if got := s.Score(quiz, map[string]string{"q1": "q1-a"}); got != 33.33 {
		t.Errorf("1/3 score = %v, want 33.33", got)
	}
	if got := s.Score(quiz, map[string]string{"q1": "q1-a", "q2": "q2-a"}); got != 66.67 {
		t.Errorf("2/3 score = %v, want 66.67", got)
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	s := NewScoringService(nil, nil)
	if got := s.Score(&model.Quiz{}, map[string]string{"q1": "q1-a"}); got != 0 {
		t.Fatalf("score = %v, want 0", got)
	}
}

func TestScoreMissingAndForeignSelections(t *testing.T) {
	s := NewScoringService(nil, nil)
	quiz := fourQuestionQuiz()

	// q1 unanswered, q2 maps to an answer id from a different question,
	// q3 maps to a nonexistent id. Only q4 counts.
	score := s.Score(quiz, map[string]string{
		"q2": "q1-a",
		"q3": "nope",
		"q4": "q4-a",
	})
	if score != 25.00 {
		t.Fatalf("score = %v, want 25.00", score)
	}
}

func TestScoreMultipleCorrectAnswers(t *testing.T) {
	s := NewScoringService(nil, nil)
	quiz := &model.Quiz{}
	q := model.Question{}
	q.ID = "q1"
	a1 := model.Answer{IsCorrect: true}
	a1.ID = "a1"
	a2 := model.Answer{IsCorrect: true}
	a2.ID = "a2"
	a3 := model.Answer{}
	a3.ID = "a3"
	q.Answers = []model.Answer{a1, a2, a3}
	quiz.Questions = []model.Question{q}

	// Each correct answer counts on its own flag.
	if got := s.Score(quiz, map[string]string{"q1": "a2"}); got != 100.00 {
		t.Errorf("second correct answer score = %v, want 100.00", got)
	}
	if got := s.Score(quiz, map[string]string{"q1": "a3"}); got != 0 {
		t.Errorf("incorrect answer score = %v, want 0", got)
	}
}

func TestRecordAttemptPersistsRecomputedScore(t *testing.T) {
	reader := &fakeQuizReader{quizzes: map[string]*model.Quiz{"quiz-1": fourQuestionQuiz()}}
	writer := &fakeAttemptWriter{}
	s := NewScoringService(reader, writer)

	userID := "user-1"
	attempt, err := s.RecordAttempt("quiz-1", &userID, map[string]string{"q1": "q1-a", "q2": "q2-a"})
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if attempt.Score != 50.00 {
		t.Errorf("attempt score = %v, want 50.00", attempt.Score)
	}
	if attempt.UserID == nil || *attempt.UserID != "user-1" {
		t.Errorf("attempt user = %v, want user-1", attempt.UserID)
	}
	if len(writer.created) != 1 {
		t.Fatalf("created %d attempts, want 1", len(writer.created))
	}

	selections, err := model.DecodeAttemptAnswers(attempt.Answers)
	if err != nil {
		t.Fatalf("DecodeAttemptAnswers: %v", err)
	}
	if selections["q1"] != "q1-a" || selections["q2"] != "q2-a" {
		t.Errorf("round-tripped selections = %v", selections)
	}
}

func TestRecordAttemptAnonymous(t *testing.T) {
	reader := &fakeQuizReader{quizzes: map[string]*model.Quiz{"quiz-1": fourQuestionQuiz()}}
	writer := &fakeAttemptWriter{}
	s := NewScoringService(reader, writer)

	attempt, err := s.RecordAttempt("quiz-1", nil, map[string]string{"q1": "q1-a"})
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if attempt.UserID != nil {
		t.Errorf("anonymous attempt has user %v", *attempt.UserID)
	}
}

func TestRecordAttemptUnknownQuizWritesNothing(t *testing.T) {
	reader := &fakeQuizReader{quizzes: map[string]*model.Quiz{}}
	writer := &fakeAttemptWriter{}
	s := NewScoringService(reader, writer)

	_, err := s.RecordAttempt("missing", nil, map[string]string{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
	if len(writer.created) != 0 {
		t.Fatalf("created %d attempts, want 0", len(writer.created))
	}
}
