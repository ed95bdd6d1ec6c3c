// Seed script for local development.
//
// Inserts a demo user and a sample quiz so the API can be exercised
// without registering first.
//
// Usage: go run scripts/seed_demo.go

package main

import (
	"log"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/pkg/database"
	"quizhub_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	users := repository.NewUserRepository(db)
	quizzes := repository.NewQuizRepository(db)

	demo, err := users.FindByEmail("demo@quizhub.local")
	if err != nil {
		hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		demo = &model.User{Email: "demo@quizhub.local", Password: string(hash)}
		if err := users.Create(demo); err != nil {
			log.Fatalf("failed to create demo user: %v", err)
		}
		log.Printf("created demo user %s", demo.ID)
	}

	quiz := &model.Quiz{
		Title:       "Go Basics",
		Description: "A short warm-up quiz about the Go programming language.",
		UserID:      demo.ID,
		Questions: []model.Question{
			{
				QuestionText: "Which keyword starts a goroutine?",
				Answers: []model.Answer{
					{AnswerText: "go", IsCorrect: true},
					{AnswerText: "async"},
					{AnswerText: "spawn"},
					{AnswerText: "thread"},
				},
			},
			{
				QuestionText: "What does a channel provide?",
				Answers: []model.Answer{
					{AnswerText: "Communication between goroutines", IsCorrect: true},
					{AnswerText: "Dynamic typing"},
					{AnswerText: "Garbage collection"},
					{AnswerText: "Package management"},
				},
			},
		},
	}
	if err := quizzes.Create(quiz); err != nil {
		log.Fatalf("failed to create demo quiz: %v", err)
	}
	log.Printf("created demo quiz %s", quiz.ID)
}
