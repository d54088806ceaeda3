// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/session"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// InitSessionStore picks the session store. A nil client selects the in-memory store,
// which keeps sessions local to this replica.
func InitSessionStore(client *redis.Client, ttl time.Duration) session.Store {
	if client == nil {
		logrus.Infof("using in-memory session store (ttl %s)", ttl)
		return session.NewMemoryStore(session.MemoryStoreConfig{TTL: ttl})
	}

	logrus.Infof("using Redis session store (ttl %s)", ttl)
	return session.NewRedisStore(client, session.RedisStoreConfig{TTL: ttl})
}
