package controller

import (
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	AttemptRepo *repository.AttemptRepository
}

func NewLeaderboardController(attemptRepo *repository.AttemptRepository) *LeaderboardController {
	return &LeaderboardController{AttemptRepo: attemptRepo}
}

// Get godoc
// @Summary Top users by average attempt score
// @Description Anonymous attempts are grouped under "Anonymous"
// @Tags leaderboard
// @Produce json
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry}
// @Router /leaderboard [get]
func (c *LeaderboardController) Get(ctx *gin.Context) {
	entries, err := c.AttemptRepo.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
