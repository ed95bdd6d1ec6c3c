package repository

import (
	"fmt"
	"quizhub_backend/internal/model"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with foreign keys enforced and
// the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", model.GenerateUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.QuizAttempt{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Password: "x"}
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func sampleQuiz(ownerID string) *model.Quiz {
	return &model.Quiz{
		Title:       "Solar System",
		Description: "Planets and moons",
		UserID:      ownerID,
		Questions: []model.Question{
			{
				QuestionText: "Which planet is largest?",
				Answers: []model.Answer{
					{AnswerText: "Jupiter", IsCorrect: true},
					{AnswerText: "Saturn"},
					{AnswerText: "Earth"},
				},
			},
			{
				QuestionText: "How many moons does Mars have?",
				Answers: []model.Answer{
					{AnswerText: "Two", IsCorrect: true},
					{AnswerText: "None"},
				},
			},
		},
	}
}
