package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	ScoringService *service.ScoringService
}

func NewAttemptController(scoringService *service.ScoringService) *AttemptController {
	return &AttemptController{ScoringService: scoringService}
}

// AttemptRequest carries the caller's selections. Any score field a client
// sends is deliberately not bound: the score is always recomputed server-side.
// swagger:model AttemptRequest
type AttemptRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit a quiz attempt
// @Description Scores the selections against the stored correct answers and records the attempt. Anonymous submissions are allowed.
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body AttemptRequest true "Selected answer per question"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{id}/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var userID *string
	anonymous := "true"
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
		anonymous = "false"
	}

	attempt, err := c.ScoringService.RecordAttempt(ctx.Param("id"), userID, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.AttemptCounter.WithLabelValues(anonymous).Inc()

	util.Created(ctx, gin.H{
		"id":    attempt.ID,
		"score": attempt.Score,
	})
}
