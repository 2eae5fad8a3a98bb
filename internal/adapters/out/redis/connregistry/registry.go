// Package connregistry stores active push connections in Redis. Each
// connection lives in a hash with a TTL matching the registration lifetime,
// index sets allow lookups by user and by tenant, and a sorted set keyed by
// expiry time drives the periodic sweep of stale index entries.
package connregistry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"foodorders/internal/core/domain/model/connection"
	"foodorders/internal/core/domain/model/kernel"
)

const (
	connKeyPrefix     = "conn:"
	userIndexPrefix   = "connidx:user:"
	tenantIndexPrefix = "connidx:tenant:"
	expiryIndexKey    = "connidx:by_expiry"
)

// RedisConnectionRegistry implements ConnectionRegistry on top of Redis.
type RedisConnectionRegistry struct {
	client *redis.Client
}

// NewRedisConnectionRegistry creates a registry backed by the given Redis
// client.
func NewRedisConnectionRegistry(client *redis.Client) *RedisConnectionRegistry {
	return &RedisConnectionRegistry{client: client}
}

// Register stores the connection hash with a TTL and adds it to the user,
// tenant and expiry indexes. Re-registering the same connection refreshes
// everything.
func (r *RedisConnectionRegistry) Register(ctx context.Context, conn *connection.Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}

	key := connKeyPrefix + conn.ID()
	fields := map[string]any{
		"userId":      conn.UserID(),
		"tenantId":    conn.TenantID(),
		"role":        conn.Role().String(),
		"connectedAt": conn.ConnectedAt().UTC().Format(time.RFC3339Nano),
		"expiresAt":   conn.ExpiresAt().UTC().Format(time.RFC3339Nano),
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, conn.ExpiresAt())
	pipe.SAdd(ctx, userIndexPrefix+conn.UserID(), conn.ID())
	// only staff channels observe a tenant's order stream
	if conn.TenantID() != "" && conn.Role().IsStaff() {
		pipe.SAdd(ctx, tenantIndexPrefix+conn.TenantID(), conn.ID())
	}
	pipe.ZAdd(ctx, expiryIndexKey, redis.Z{
		Score:  float64(conn.ExpiresAt().Unix()),
		Member: conn.ID(),
	})

	_, err := pipe.Exec(ctx)
	return err
}

// Unregister removes the connection and its index entries. Unknown
// connections are removed from the expiry index only; no error is returned.
func (r *RedisConnectionRegistry) Unregister(ctx context.Context, connectionID string) error {
	key := connKeyPrefix + connectionID

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := r.client.TxPipeline()
	if userID := fields["userId"]; userID != "" {
		pipe.SRem(ctx, userIndexPrefix+userID, connectionID)
	}
	if tenantID := fields["tenantId"]; tenantID != "" {
		pipe.SRem(ctx, tenantIndexPrefix+tenantID, connectionID)
	}
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, expiryIndexKey, connectionID)

	_, err = pipe.Exec(ctx)
	return err
}

// FindByUser retrieves every live connection registered by a user. Index
// entries whose hash already expired are cleaned up on the way.
func (r *RedisConnectionRegistry) FindByUser(ctx context.Context, userID string) ([]*connection.Connection, error) {
	return r.findByIndex(ctx, userIndexPrefix+userID)
}

// FindByTenant retrieves every live staff connection observing a tenant.
func (r *RedisConnectionRegistry) FindByTenant(ctx context.Context, tenantID string) ([]*connection.Connection, error) {
	return r.findByIndex(ctx, tenantIndexPrefix+tenantID)
}

// PurgeExpired drops every connection whose registration TTL has passed and
// returns how many were removed. The connection hashes expire on their own;
// this sweep keeps the index structures from growing without bound.
func (r *RedisConnectionRegistry) PurgeExpired(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	expired, err := r.client.ZRangeByScore(ctx, expiryIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return 0, err
	}

	for _, connectionID := range expired {
		if err := r.Unregister(ctx, connectionID); err != nil {
			return 0, err
		}
	}

	return len(expired), nil
}

func (r *RedisConnectionRegistry) findByIndex(ctx context.Context, indexKey string) ([]*connection.Connection, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conns := make([]*connection.Connection, 0, len(ids))
	for _, connectionID := range ids {
		fields, getErr := r.client.HGetAll(ctx, connKeyPrefix+connectionID).Result()
		if getErr != nil {
			return nil, getErr
		}
		if len(fields) == 0 {
			// hash expired under us, drop the dangling index entry
			if remErr := r.client.SRem(ctx, indexKey, connectionID).Err(); remErr != nil {
				return nil, remErr
			}
			continue
		}

		conn, parseErr := parseConnection(connectionID, fields)
		if parseErr != nil {
			return nil, parseErr
		}
		if conn.IsExpired(now) {
			continue
		}
		conns = append(conns, conn)
	}

	return conns, nil
}

func parseConnection(connectionID string, fields map[string]string) (*connection.Connection, error) {
	connectedAt, err := time.Parse(time.RFC3339Nano, fields["connectedAt"])
	if err != nil {
		return nil, fmt.Errorf("connection %s has malformed connectedAt: %w", connectionID, err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expiresAt"])
	if err != nil {
		return nil, fmt.Errorf("connection %s has malformed expiresAt: %w", connectionID, err)
	}

	role, err := kernel.RoleFromString(fields["role"])
	if err != nil {
		return nil, err
	}

	return connection.RestoreConnection(
		connectionID,
		fields["userId"],
		fields["tenantId"],
		role,
		connectedAt,
		expiresAt,
	)
}
