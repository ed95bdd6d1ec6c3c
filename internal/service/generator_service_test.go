package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/util"
	"strings"
	"testing"
)

// fakeCompletionServer answers every chat completion request with content.
func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func generatedQuestionsJSON(n int) string {
	questions := make([]map[string]any, n)
	for i := range questions {
		questions[i] = map[string]any{
			"question_text": fmt.Sprintf("Question %d?", i+1),
			"answers": []map[string]any{
				{"answer_text": "right", "is_correct": true},
				{"answer_text": "wrong 1", "is_correct": false},
				{"answer_text": "wrong 2", "is_correct": false},
				{"answer_text": "wrong 3", "is_correct": false},
			},
		}
	}
	data, _ := json.Marshal(questions)
	return string(data)
}

func newTestGenerator(baseURL string, store QuizCreator) *GeneratorService {
	return NewGeneratorService(config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
	}, store, nil)
}

func TestGenerateValidQuiz(t *testing.T) {
	srv := fakeCompletionServer(t, generatedQuestionsJSON(3))
	defer srv.Close()

	store := newFakeQuizStore()
	g := newTestGenerator(srv.URL, store)

	quiz, err := g.Generate("owner-1", "Go concurrency", 3, "hard")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if quiz.UserID != "owner-1" {
		t.Errorf("owner = %q", quiz.UserID)
	}
	if !strings.Contains(quiz.Title, "Go concurrency") {
		t.Errorf("title = %q", quiz.Title)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("question count = %d, want 3", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if len(q.Answers) != 4 {
			t.Errorf("question %d has %d answers", i, len(q.Answers))
		}
	}
	if store.createCalls != 1 {
		t.Errorf("store creates = %d, want 1", store.createCalls)
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + generatedQuestionsJSON(2) + "\n```"
	srv := fakeCompletionServer(t, fenced)
	defer srv.Close()

	g := newTestGenerator(srv.URL, newFakeQuizStore())
	quiz, err := g.Generate("owner-1", "topic", 2, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Errorf("question count = %d, want 2", len(quiz.Questions))
	}
}

func TestGenerateRejectsWrongQuestionCount(t *testing.T) {
	srv := fakeCompletionServer(t, generatedQuestionsJSON(2))
	defer srv.Close()

	store := newFakeQuizStore()
	g := newTestGenerator(srv.URL, store)

	_, err := g.Generate("owner-1", "topic", 5, "")
	if !errors.Is(err, util.ErrInvalidGeneratedQuiz) {
		t.Fatalf("err = %v, want ErrInvalidGeneratedQuiz", err)
	}
	if store.createCalls != 0 {
		t.Errorf("store creates = %d, want 0", store.createCalls)
	}
}

func TestGenerateRejectsBadAnswerShape(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"two correct answers",
			`[{"question_text":"Q?","answers":[{"answer_text":"a","is_correct":true},{"answer_text":"b","is_correct":true},{"answer_text":"c","is_correct":false},{"answer_text":"d","is_correct":false}]}]`,
		},
		{
			"no correct answer",
			`[{"question_text":"Q?","answers":[{"answer_text":"a","is_correct":false},{"answer_text":"b","is_correct":false},{"answer_text":"c","is_correct":false},{"answer_text":"d","is_correct":false}]}]`,
		},
		{
			"three answers",
			`[{"question_text":"Q?","answers":[{"answer_text":"a","is_correct":true},{"answer_text":"b","is_correct":false},{"answer_text":"c","is_correct":false}]}]`,
		},
		{"not json", "I could not generate a quiz, sorry."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeCompletionServer(t, tc.content)
			defer srv.Close()

			g := newTestGenerator(srv.URL, newFakeQuizStore())
			_, err := g.Generate("owner-1", "topic", 1, "")
			if !errors.Is(err, util.ErrInvalidGeneratedQuiz) {
				t.Fatalf("err = %v, want ErrInvalidGeneratedQuiz", err)
			}
		})
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	g := newTestGenerator("http://unreachable.invalid", newFakeQuizStore())

	if _, err := g.Generate("owner-1", "  ", 3, ""); !errors.Is(err, util.ErrValidation) {
		t.Errorf("blank topic err = %v, want ErrValidation", err)
	}
	if _, err := g.Generate("owner-1", "topic", maxGeneratedQuestions+1, ""); !errors.Is(err, util.ErrValidation) {
		t.Errorf("oversized request err = %v, want ErrValidation", err)
	}
}

func TestGenerateFromDocument(t *testing.T) {
	srv := fakeCompletionServer(t, generatedQuestionsJSON(2))
	defer srv.Close()

	g := newTestGenerator(srv.URL, newFakeQuizStore())
	doc := strings.NewReader("The Go scheduler multiplexes goroutines onto OS threads.")
	quiz, err := g.GenerateFromDocument("owner-1", "scheduler.txt", doc, int64(doc.Len()), 2, "easy")
	if err != nil {
		t.Fatalf("GenerateFromDocument: %v", err)
	}
	if !strings.Contains(quiz.Title, "scheduler") {
		t.Errorf("title = %q", quiz.Title)
	}

	empty := strings.NewReader("   ")
	if _, err := g.GenerateFromDocument("owner-1", "empty.txt", empty, 3, 2, ""); !errors.Is(err, util.ErrValidation) {
		t.Errorf("empty document err = %v, want ErrValidation", err)
	}
}
