package repository

import (
	"context"
	"encoding/json"
	"quizhub_backend/internal/model"
	"quizhub_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "quizhub:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
	leaderboardLimit    = 10
)

// AttemptRepository persists write-once quiz attempts and serves the
// leaderboard aggregate, cached in Redis with a short TTL.
type AttemptRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewAttemptRepository(db *gorm.DB, rdb *redis.Client) *AttemptRepository {
	return &AttemptRepository{DB: db, Redis: rdb}
}

type LeaderboardEntry struct {
	User             string  `json:"user"`
	QuizzesCompleted int64   `json:"quizzes_completed"`
	AverageScore     float64 `json:"average_score"`
}

// Create inserts one attempt row. Attempts have no child entities, so a single
// statement suffices. The leaderboard cache is invalidated on success.
func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	if err := r.DB.Create(attempt).Error; err != nil {
		return err
	}

	if r.Redis != nil {
		if err := r.Redis.Del(context.Background(), leaderboardCacheKey).Err(); err != nil {
			logger.Log.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
		}
	}
	return nil
}

// Leaderboard returns the top entries by average score, grouping anonymous
// attempts under a single "Anonymous" row. Cache failures fall through to the
// SQL aggregate.
func (r *AttemptRepository) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries := []LeaderboardEntry{}
	err := r.DB.WithContext(ctx).Model(&model.QuizAttempt{}).
		Select("COALESCE(users.email, 'Anonymous') AS user, COUNT(DISTINCT quiz_attempts.quiz_id) AS quizzes_completed, AVG(quiz_attempts.score) AS average_score").
		Joins("LEFT JOIN users ON users.id = quiz_attempts.user_id").
		Group("COALESCE(users.email, 'Anonymous')").
		Order("average_score DESC").
		Limit(leaderboardLimit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := r.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache leaderboard", zap.Error(err))
			}
		}
	}

	return entries, nil
}
