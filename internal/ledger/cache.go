package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loanflow/internal/common/logger"
	"loanflow/internal/models"
)

const snapshotTTL = 24 * time.Hour

// SnapshotCache persists ledger snapshots to Redis keyed by session, so a
// reconnecting session can fall back to its last known list when the backend
// fetch fails. Every operation is best effort.
type SnapshotCache struct {
	client *redis.Client
	logger logger.Logger
}

func NewSnapshotCache(client *redis.Client, log logger.Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "ledger-cache"}),
	}
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("loanflow:ledger:%s", sessionID)
}

// Save stores the ledger's current contents. Cache failures are logged and
// swallowed; the in-memory ledger stays authoritative.
func (c *SnapshotCache) Save(ctx context.Context, sessionID string, l *Ledger) {
	payload, err := json.Marshal(l.All())
	if err != nil {
		c.logger.Warn("snapshot marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := c.client.Set(ctx, snapshotKey(sessionID), payload, snapshotTTL).Err(); err != nil {
		c.logger.Warn("snapshot save failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}

// Load returns the cached snapshot for a session, or nil when absent or
// unreadable.
func (c *SnapshotCache) Load(ctx context.Context, sessionID string) []models.Application {
	payload, err := c.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot load failed", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
		}
		return nil
	}

	var apps []models.Application
	if err := json.Unmarshal(payload, &apps); err != nil {
		c.logger.Warn("snapshot unmarshal failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return nil
	}
	return apps
}

// Delete removes a session's snapshot at logout.
func (c *SnapshotCache) Delete(ctx context.Context, sessionID string) {
	if err := c.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		c.logger.Warn("snapshot delete failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}
