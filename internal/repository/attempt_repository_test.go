package repository

import (
	"context"
	"quizhub_backend/internal/model"
	"testing"

	"gorm.io/gorm"
)

func recordAttempt(t *testing.T, repo *AttemptRepository, quizID string, userID *string, score float64) {
	t.Helper()
	answers, err := model.EncodeAttemptAnswers(map[string]string{"q": "a"})
	if err != nil {
		t.Fatalf("encode answers: %v", err)
	}
	attempt := &model.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Score:   score,
		Answers: answers,
	}
	if err := repo.Create(attempt); err != nil {
		t.Fatalf("create attempt: %v", err)
	}
}

func createTestQuiz(t *testing.T, db *gorm.DB, ownerID, title string) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{Title: title, UserID: ownerID}
	if err := NewQuizRepository(db).Create(quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func TestAttemptCreateAnonymous(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	quiz := createTestQuiz(t, db, owner.ID, "Solar System")
	repo := NewAttemptRepository(db, nil)

	recordAttempt(t, repo, quiz.ID, nil, 50)

	var got model.QuizAttempt
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if got.UserID != nil {
		t.Errorf("anonymous attempt stored with user %v", *got.UserID)
	}
	if got.Score != 50 {
		t.Errorf("score = %v, want 50", got.Score)
	}

	selections, err := model.DecodeAttemptAnswers(got.Answers)
	if err != nil {
		t.Fatalf("decode answers: %v", err)
	}
	if selections["q"] != "a" {
		t.Errorf("selections = %v", selections)
	}
}

func TestAttemptsAreAppendOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	quiz := createTestQuiz(t, db, owner.ID, "Solar System")
	repo := NewAttemptRepository(db, nil)

	recordAttempt(t, repo, quiz.ID, &owner.ID, 40)
	recordAttempt(t, repo, quiz.ID, &owner.ID, 80)

	var n int64
	db.Model(&model.QuizAttempt{}).Count(&n)
	if n != 2 {
		t.Fatalf("attempt rows = %d, want 2", n)
	}
}

func TestLeaderboard(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	quiz1 := createTestQuiz(t, db, alice.ID, "Quiz One")
	quiz2 := createTestQuiz(t, db, alice.ID, "Quiz Two")
	repo := NewAttemptRepository(db, nil)

	// Alice: two quizzes, average 90. Bob: one quiz twice, average 70.
	// Anonymous attempts group into one row averaging 50.
	recordAttempt(t, repo, quiz1.ID, &alice.ID, 80)
	recordAttempt(t, repo, quiz2.ID, &alice.ID, 100)
	recordAttempt(t, repo, quiz1.ID, &bob.ID, 60)
	recordAttempt(t, repo, quiz1.ID, &bob.ID, 80)
	recordAttempt(t, repo, quiz1.ID, nil, 25)
	recordAttempt(t, repo, quiz2.ID, nil, 75)

	entries, err := repo.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	if entries[0].User != "alice@example.com" || entries[0].AverageScore != 90 || entries[0].QuizzesCompleted != 2 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].User != "bob@example.com" || entries[1].AverageScore != 70 || entries[1].QuizzesCompleted != 1 {
		t.Errorf("second entry = %+v", entries[1])
	}
	if entries[2].User != "Anonymous" || entries[2].AverageScore != 50 || entries[2].QuizzesCompleted != 2 {
		t.Errorf("third entry = %+v", entries[2])
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db, nil)

	entries, err := repo.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}
