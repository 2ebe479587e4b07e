// Package cache keeps live session leaderboards in a Redis sorted set so
// frequent leaderboard reads during a game do not hammer the database.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const leaderboardTTL = 2 * time.Hour

// LeaderboardCache implements quiz.LeaderboardCache on a Redis client.
type LeaderboardCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewLeaderboardCache creates a LeaderboardCache.
func NewLeaderboardCache(client *redis.Client, keyPrefix string) *LeaderboardCache {
	if keyPrefix == "" {
		keyPrefix = "qv:"
	}
	return &LeaderboardCache{client: client, keyPrefix: keyPrefix}
}

func (c *LeaderboardCache) sessionKey(sessionID uint) string {
	return fmt.Sprintf("%ssession:%d:scores", c.keyPrefix, sessionID)
}

// SetScore writes one player's running score. The TTL bounds leakage from
// sessions that never finish.
func (c *LeaderboardCache) SetScore(ctx context.Context, sessionID, userID uint, score int) error {
	key := c.sessionKey(sessionID)
	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(score),
		Member: strconv.FormatUint(uint64(userID), 10),
	})
	pipe.Expire(ctx, key, leaderboardTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Scores returns every cached score for a session keyed by user ID. An empty
// map means a cold cache, not an empty session.
func (c *LeaderboardCache) Scores(ctx context.Context, sessionID uint) (map[uint]int, error) {
	members, err := c.client.ZRangeWithScores(ctx, c.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	scores := make(map[uint]int, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(fmt.Sprint(m.Member), 10, 32)
		if err != nil {
			continue
		}
		scores[uint(id)] = int(m.Score)
	}
	return scores, nil
}
