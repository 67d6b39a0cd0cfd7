package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/redis/go-redis/v9"
)

// ICacheClient is the subset of *redis.Client used for caching.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// dashboardCache stores serialized dashboards under a per-user version.
// Writers bump the version after committing, so a read that loaded from the
// database before the commit stores its result under a version nobody asks
// for again. Every failure is logged and treated as a miss; the database
// stays the source of truth.
type dashboardCache struct {
	client ICacheClient
	ttl    time.Duration
}

func dashboardVersionKey(userID int64) string {
	return fmt.Sprintf("dashboard:%d:version", userID)
}

func dashboardKey(userID int64, version string) string {
	return fmt.Sprintf("dashboard:%d:v%s", userID, version)
}

// version returns the current dashboard version for userID, "0" when none was
// written yet. ok is false when Redis could not be read.
func (c *dashboardCache) version(ctx context.Context, userID int64) (string, bool) {
	v, err := c.client.Get(ctx, dashboardVersionKey(userID)).Result()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Dashboard cache read failed")
		return "", false
	}
}

// get returns the cached dashboard and the version it was looked up under.
// The version must be passed to set when the caller fills a miss.
func (c *dashboardCache) get(ctx context.Context, userID int64) (*model.Dashboard, string, bool) {
	if c == nil || c.client == nil {
		return nil, "", false
	}
	ver, ok := c.version(ctx, userID)
	if !ok {
		return nil, "", false
	}
	raw, err := c.client.Get(ctx, dashboardKey(userID, ver)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("user_id", userID).Warn("Dashboard cache read failed")
		}
		return nil, ver, false
	}
	var d model.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Discarding corrupt dashboard cache entry")
		return nil, ver, false
	}
	return &d, ver, true
}

func (c *dashboardCache) set(ctx context.Context, userID int64, ver string, d *model.Dashboard) {
	if c == nil || c.client == nil || ver == "" {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, dashboardKey(userID, ver), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Dashboard cache write failed")
	}
}

// invalidate moves userID to a new version and drops the entry of the old one.
func (c *dashboardCache) invalidate(ctx context.Context, userID int64) {
	if c == nil || c.client == nil {
		return
	}
	next, err := c.client.Incr(ctx, dashboardVersionKey(userID)).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Dashboard cache invalidation failed")
		return
	}
	if err := c.client.Del(ctx, dashboardKey(userID, strconv.FormatInt(next-1, 10))).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Dashboard cache invalidation failed")
	}
}
