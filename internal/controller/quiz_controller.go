package controller

import (
	"errors"
	"net/http"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService      *service.QuizService
	GeneratorService *service.GeneratorService
}

func NewQuizController(quizService *service.QuizService, generatorService *service.GeneratorService) *QuizController {
	return &QuizController{
		QuizService:      quizService,
		GeneratorService: generatorService,
	}
}

// List godoc
// @Summary List quizzes
// @Description All quizzes with question counts, the caller's own quizzes, and global stats
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=repository.QuizListing}
// @Router /quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	listing, err := c.QuizService.List(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, listing)
}

// Get godoc
// @Summary Fetch a quiz with its questions and answers
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	quiz, err := c.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// Create godoc
// @Summary Create a quiz with nested questions and answers
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizRequest true "Quiz payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": quiz.ID})
}

// Update godoc
// @Summary Replace a quiz's content
// @Description Full replace: existing questions and answers are discarded and recreated
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param body body service.QuizRequest true "Quiz payload"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuizService.Update(ctx.Param("id"), user.UserID, req); err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz updated successfully"})
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizService.Delete(ctx.Param("id"), user.UserID); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz deleted successfully"})
}

// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	NumQuestions int    `json:"numQuestions"`
	Difficulty   string `json:"difficulty"`
}

// Generate godoc
// @Summary Generate a quiz with AI
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body GenerateQuizRequest true "Generation parameters"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 422 {object} util.Response
// @Router /quizzes/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.GeneratorService.Generate(user.UserID, req.Topic, req.NumQuestions, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidGeneratedQuiz):
			util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// GenerateFromDocument godoc
// @Summary Generate a quiz from an uploaded document
// @Tags quizzes
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param document formData file true "Source document (plain text)"
// @Param numQuestions formData int false "Question count"
// @Param difficulty formData string false "Difficulty"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 422 {object} util.Response
// @Router /quizzes/generate/document [post]
func (c *QuizController) GenerateFromDocument(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("document")
	if err != nil {
		util.BadRequest(ctx, "document file is required")
		return
	}

	numQuestions := 0
	if v := ctx.PostForm("numQuestions"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			numQuestions = n
		}
	}
	difficulty := ctx.PostForm("difficulty")

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	quiz, err := c.GeneratorService.GenerateFromDocument(user.UserID, fileHeader.Filename, file, fileHeader.Size, numQuestions, difficulty)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidGeneratedQuiz):
			util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}
