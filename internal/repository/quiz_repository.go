package repository

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizRepository owns the transactional lifecycle of a quiz together with its
// nested questions and answers. Writes either commit the whole tree or roll
// back entirely.
type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizSummary is a listing row: quiz metadata plus its question count and,
// for the all-quizzes listing, the creator's email.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	CreatorEmail  string    `json:"creator_email,omitempty"`
	QuestionCount int64     `json:"question_count"`
}

type QuizStats struct {
	TotalQuizzes   int64 `json:"totalQuizzes"`
	TotalQuestions int64 `json:"totalQuestions"`
}

type QuizListing struct {
	AllQuizzes  []QuizSummary `json:"allQuizzes"`
	UserQuizzes []QuizSummary `json:"userQuizzes"`
	Stats       QuizStats     `json:"stats"`
}

// Create inserts the quiz row, then each question in input order, then each of
// its answers, all inside one transaction. Identifiers are generated per row
// by the model hook unless already set.
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(quiz).Error; err != nil {
			return err
		}
		return r.insertQuestionTree(tx, quiz.ID, quiz.Questions)
	})
}

// Update performs the destructive full replace: inside one transaction the
// quiz row is locked (scoped by id and owner), title/description updated, all
// existing answers and questions deleted, and the new tree reinserted with
// fresh identifiers. The row lock serializes concurrent updates to the same
// quiz, so two racing full replaces cannot interleave their deletes and
// inserts. Returns util.ErrQuizNotFound when the quiz does not exist or the
// caller does not own it; no writes happen in that case.
func (r *QuizRepository) Update(quizID, ownerID string, quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Quiz
		lookup := tx.Where("id = ? AND user_id = ?", quizID, ownerID)
		// SQLite rejects FOR UPDATE and serializes writers on its own.
		if tx.Dialector.Name() == "mysql" {
			lookup = lookup.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := lookup.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":       quiz.Title,
			"description": quiz.Description,
		}
		if err := tx.Model(&model.Quiz{}).Where("id = ?", quizID).Updates(updates).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&model.Question{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}

		return r.insertQuestionTree(tx, quizID, quiz.Questions)
	})
}

func (r *QuizRepository) insertQuestionTree(tx *gorm.DB, quizID string, questions []model.Question) error {
	for i := range questions {
		q := &questions[i]
		q.QuizID = quizID
		if err := tx.Omit(clause.Associations).Create(q).Error; err != nil {
			return err
		}
		for j := range q.Answers {
			a := &q.Answers[j]
			a.QuestionID = q.ID
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// quizRow carries the creator email out of the users join.
type quizRow struct {
	model.Quiz
	CreatorEmail string `gorm:"column:creator_email"`
}

// FindByID returns the quiz with its creator email and the full nested
// question/answer tree, questions and answers in insertion order. The reads
// run inside one transaction for a consistent snapshot; nothing is written.
func (r *QuizRepository) FindByID(quizID string) (*model.Quiz, error) {
	var quiz *model.Quiz
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var row quizRow
		err := tx.Model(&model.Quiz{}).
			Select("quizzes.*, users.email AS creator_email").
			Joins("LEFT JOIN users ON users.id = quizzes.user_id").
			Where("quizzes.id = ?", quizID).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		if err != nil {
			return err
		}

		quiz = &row.Quiz
		quiz.CreatorEmail = row.CreatorEmail

		if err := tx.Where("quiz_id = ?", quizID).
			Order("created_at ASC").
			Find(&quiz.Questions).Error; err != nil {
			return err
		}

		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			if err := tx.Where("question_id = ?", q.ID).
				Order("created_at ASC").
				Find(&q.Answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// Delete removes the quiz row if the caller owns it; questions and answers go
// via the foreign-key cascade. Zero affected rows means not found or not owned.
func (r *QuizRepository) Delete(quizID, ownerID string) error {
	res := r.DB.Where("id = ? AND user_id = ?", quizID, ownerID).Delete(&model.Quiz{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrQuizNotFound
	}
	return nil
}

// List runs the three listing reads. They share a connection but not a
// transaction; slight skew between them is tolerated.
func (r *QuizRepository) List(ownerID string) (*QuizListing, error) {
	listing := &QuizListing{
		AllQuizzes:  []QuizSummary{},
		UserQuizzes: []QuizSummary{},
	}

	allQuery := r.DB.Model(&model.Quiz{}).
		Select("quizzes.id, quizzes.title, quizzes.description, quizzes.user_id, quizzes.created_at, users.email AS creator_email, COUNT(questions.id) AS question_count").
		Joins("LEFT JOIN questions ON questions.quiz_id = quizzes.id").
		Joins("LEFT JOIN users ON users.id = quizzes.user_id").
		Group("quizzes.id, quizzes.title, quizzes.description, quizzes.user_id, quizzes.created_at, users.email").
		Order("quizzes.created_at DESC")
	if err := allQuery.Scan(&listing.AllQuizzes).Error; err != nil {
		return nil, err
	}

	userQuery := r.DB.Model(&model.Quiz{}).
		Select("quizzes.id, quizzes.title, quizzes.description, quizzes.user_id, quizzes.created_at, COUNT(questions.id) AS question_count").
		Joins("LEFT JOIN questions ON questions.quiz_id = quizzes.id").
		Where("quizzes.user_id = ?", ownerID).
		Group("quizzes.id, quizzes.title, quizzes.description, quizzes.user_id, quizzes.created_at").
		Order("quizzes.created_at DESC")
	if err := userQuery.Scan(&listing.UserQuizzes).Error; err != nil {
		return nil, err
	}

	statsQuery := r.DB.Model(&model.Quiz{}).
		Select("COUNT(DISTINCT quizzes.id) AS total_quizzes, COUNT(DISTINCT questions.id) AS total_questions").
		Joins("LEFT JOIN questions ON questions.quiz_id = quizzes.id")
	if err := statsQuery.Scan(&listing.Stats).Error; err != nil {
		return nil, err
	}

	return listing, nil
}
