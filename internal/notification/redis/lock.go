// Package redis holds the Redis-backed helpers of the notification module.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Locker struct {
	client goredis.UniversalClient
	owner  string
}

// NewLocker tags lock values with owner so operators can see which
// replica ran the last sweep.
func NewLocker(client goredis.UniversalClient, owner string) *Locker {
	return &Locker{client: client, owner: owner}
}

// TryLock takes key with SET NX. The lock is never released explicitly;
// it expires after ttl so the next interval can be claimed by any replica.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, l.owner, ttl).Result()
}
