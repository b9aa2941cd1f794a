package server

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache mirrors score awards into a Redis sorted set per session
// so dashboards can read rankings without hitting SQLite. The SQL store stays
// authoritative; cache failures are logged and ignored.
type LeaderboardCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewLeaderboardCache(rdb *redis.Client, logger *slog.Logger) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, logger: logger}
}

func leaderboardKey(sessionID string) string {
	return "session:" + sessionID + ":leaderboard"
}

func (l *LeaderboardCache) Add(ctx context.Context, sessionID, playerID string, points int) {
	if l == nil || l.rdb == nil {
		return
	}
	if err := l.rdb.ZIncrBy(ctx, leaderboardKey(sessionID), float64(points), playerID).Err(); err != nil {
		l.logger.Warn("leaderboard cache update failed", "session", sessionID, "error", err)
	}
}
