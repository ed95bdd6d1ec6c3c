package service

import (
	"fmt"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"strings"
)

// QuizStore is the slice of the quiz repository the service needs. Keeping it
// an interface allows test doubles without a database.
type QuizStore interface {
	Create(quiz *model.Quiz) error
	Update(quizID, ownerID string, quiz *model.Quiz) error
	FindByID(quizID string) (*model.Quiz, error)
	Delete(quizID, ownerID string) error
	List(ownerID string) (*repository.QuizListing, error)
}

type QuizService struct {
	Repo QuizStore
}

func NewQuizService(repo QuizStore) *QuizService {
	return &QuizService{Repo: repo}
}

type AnswerRequest struct {
	AnswerText string `json:"answer_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionText string          `json:"question_text" binding:"required"`
	Answers      []AnswerRequest `json:"answers"`
}

type QuizRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions"`
}

// validate rejects malformed payload shapes before anything touches storage.
func (req *QuizRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", util.ErrValidation)
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("%w: question %d: question_text must not be empty", util.ErrValidation, i+1)
		}
		for j, a := range q.Answers {
			if strings.TrimSpace(a.AnswerText) == "" {
				return fmt.Errorf("%w: question %d answer %d: answer_text must not be empty", util.ErrValidation, i+1, j+1)
			}
		}
	}
	return nil
}

func (req *QuizRequest) toModel(ownerID string) *model.Quiz {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		UserID:      ownerID,
		Questions:   make([]model.Question, len(req.Questions)),
	}
	for i, q := range req.Questions {
		question := model.Question{
			QuestionText: q.QuestionText,
			Answers:      make([]model.Answer, len(q.Answers)),
		}
		for j, a := range q.Answers {
			question.Answers[j] = model.Answer{
				AnswerText: a.AnswerText,
				IsCorrect:  a.IsCorrect,
			}
		}
		quiz.Questions[i] = question
	}
	return quiz
}

// Create persists a new quiz tree owned by the caller and returns it with its
// generated identifiers.
func (s *QuizService) Create(ownerID string, req QuizRequest) (*model.Quiz, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	quiz := req.toModel(ownerID)
	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Update applies the full-replace update. util.ErrQuizNotFound surfaces when
// the quiz is missing or owned by someone else.
func (s *QuizService) Update(quizID, ownerID string, req QuizRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	return s.Repo.Update(quizID, ownerID, req.toModel(ownerID))
}

func (s *QuizService) Get(quizID string) (*model.Quiz, error) {
	return s.Repo.FindByID(quizID)
}

func (s *QuizService) Delete(quizID, ownerID string) error {
	return s.Repo.Delete(quizID, ownerID)
}

func (s *QuizService) List(ownerID string) (*repository.QuizListing, error) {
	return s.Repo.List(ownerID)
}
