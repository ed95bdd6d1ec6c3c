package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"strings"
	"time"
)

const (
	generatedAnswersPerQuestion = 4
	maxGeneratedQuestions       = 20
)

// QuizCreator is the write side the generator needs from the quiz repository.
type QuizCreator interface {
	Create(quiz *model.Quiz) error
}

// GeneratorService produces multiple-choice quizzes from a chat-completions
// API, validates the model output, and persists the result through the quiz
// repository so the usual atomicity applies.
type GeneratorService struct {
	Cfg     config.AIConfig
	Quizzes QuizCreator
	Storage *StorageService
	client  *http.Client
}

func NewGeneratorService(cfg config.AIConfig, quizzes QuizCreator, storage *StorageService) *GeneratorService {
	return &GeneratorService{
		Cfg:     cfg,
		Quizzes: quizzes,
		Storage: storage,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// UpdateConfig swaps the AI settings on config hot reload.
func (s *GeneratorService) UpdateConfig(cfg config.AIConfig) {
	s.Cfg = cfg
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type generatedAnswer struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type generatedQuestion struct {
	QuestionText string            `json:"question_text"`
	Answers      []generatedAnswer `json:"answers"`
}

// Generate builds a quiz about the topic, validates the model output and
// persists it owned by ownerID. Nothing is written when validation fails.
func (s *GeneratorService) Generate(ownerID, topic string, numQuestions int, difficulty string) (*model.Quiz, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic must not be empty", util.ErrValidation)
	}
	if numQuestions <= 0 {
		numQuestions = 5
	}
	if numQuestions > maxGeneratedQuestions {
		return nil, fmt.Errorf("%w: at most %d questions can be generated", util.ErrValidation, maxGeneratedQuestions)
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	prompt := buildQuizPrompt(topic, numQuestions, difficulty)
	title := fmt.Sprintf("%s Quiz (AI Generated)", topic)
	description := fmt.Sprintf("A %s difficulty quiz about %s", difficulty, topic)
	return s.generate(ownerID, title, description, prompt, numQuestions)
}

func (s *GeneratorService) generate(ownerID, title, description, prompt string, numQuestions int) (*model.Quiz, error) {
	questions, err := s.requestQuestions(prompt, numQuestions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:       title,
		Description: description,
		UserID:      ownerID,
		Questions:   make([]model.Question, len(questions)),
	}
	for i, q := range questions {
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

	if err := s.Quizzes.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GenerateFromDocument archives the uploaded source document through the
// storage service, then generates a quiz grounded on its text content.
func (s *GeneratorService) GenerateFromDocument(ownerID, filename string, document io.Reader, size int64, numQuestions int, difficulty string) (*model.Quiz, error) {
	content, err := io.ReadAll(io.LimitReader(document, 1<<20))
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, fmt.Errorf("%w: document has no readable text", util.ErrValidation)
	}

	if s.Storage != nil {
		storedName := fmt.Sprintf("documents/%s-%s", model.GenerateUUID(), filename)
		if _, err := s.Storage.Upload(storedName, bytes.NewReader(content), int64(len(content)), "text/plain"); err != nil {
			return nil, err
		}
	}

	if numQuestions <= 0 {
		numQuestions = 5
	}
	if numQuestions > maxGeneratedQuestions {
		return nil, fmt.Errorf("%w: at most %d questions can be generated", util.ErrValidation, maxGeneratedQuestions)
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	topic := strings.TrimSuffix(filename, ".txt")
	prompt := buildQuizPrompt("the following document:\n\n"+text, numQuestions, difficulty)
	title := fmt.Sprintf("%s Quiz (AI Generated)", topic)
	description := fmt.Sprintf("A %s difficulty quiz generated from the uploaded document %s", difficulty, filename)
	return s.generate(ownerID, title, description, prompt, numQuestions)
}

func buildQuizPrompt(topic string, numQuestions int, difficulty string) string {
	return fmt.Sprintf(`Generate a multiple choice quiz about %s with exactly %d questions at %s difficulty level. Each question should have exactly 4 answer choices with exactly one correct answer. Format the response as a complete JSON array of questions like this:
[
  {
    "question_text": "Example question?",
    "answers": [
      {"answer_text": "Correct answer", "is_correct": true},
      {"answer_text": "Wrong answer 1", "is_correct": false},
      {"answer_text": "Wrong answer 2", "is_correct": false},
      {"answer_text": "Wrong answer 3", "is_correct": false}
    ]
  }
]
Ensure all questions are factually accurate and appropriate for the difficulty level. Return ONLY the JSON array, no additional text or formatting.`, topic, numQuestions, difficulty)
}

func (s *GeneratorService) requestQuestions(prompt string, numQuestions int) ([]generatedQuestion, error) {
	reqBody := chatCompletionRequest{
		Model:     s.Cfg.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 2048,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", s.Cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", util.ErrInvalidGeneratedQuiz)
	}

	raw := stripCodeFences(completion.Choices[0].Message.Content)
	if raw == "" || raw == "[" {
		return nil, fmt.Errorf("%w: empty or truncated reply", util.ErrInvalidGeneratedQuiz)
	}

	var questions []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidGeneratedQuiz, err)
	}

	if err := validateGeneratedQuestions(questions, numQuestions); err != nil {
		return nil, err
	}
	return questions, nil
}

// stripCodeFences tolerates models that wrap the JSON array in markdown fences
// despite the prompt.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}

// validateGeneratedQuestions enforces the generation invariant: the requested
// question count, four answers per question, exactly one of them correct.
func validateGeneratedQuestions(questions []generatedQuestion, numQuestions int) error {
	if len(questions) != numQuestions {
		return fmt.Errorf("%w: expected %d questions but got %d", util.ErrInvalidGeneratedQuiz, numQuestions, len(questions))
	}
	for i, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("%w: question %d has no text", util.ErrInvalidGeneratedQuiz, i+1)
		}
		if len(q.Answers) != generatedAnswersPerQuestion {
			return fmt.Errorf("%w: question %d has %d answers, want %d", util.ErrInvalidGeneratedQuiz, i+1, len(q.Answers), generatedAnswersPerQuestion)
		}
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d must have exactly one correct answer, has %d", util.ErrInvalidGeneratedQuiz, i+1, correct)
		}
	}
	return nil
}
