// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"errors"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/google/uuid"
)

// DefaultTTL is how long an idle dashboard session is kept.
const DefaultTTL = 2 * time.Hour

var ErrNotFound = errors.New("session not found")

// UpdateFunc derives the next snapshot from the current one.
// It may run more than once when a concurrent update wins the race.
type UpdateFunc func(current dashboard.State) (dashboard.State, error)

// Store keeps one dashboard snapshot per session.
// Snapshots are transient and expire after the configured TTL.
type Store interface {
	// Create starts a session from a fresh snapshot.
	Create(ctx context.Context) (string, dashboard.State, error)

	// Get returns the current snapshot, or ErrNotFound.
	Get(ctx context.Context, id string) (dashboard.State, error)

	// Update atomically replaces the snapshot with fn(current) and refreshes the TTL.
	// An error from fn aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn UpdateFunc) (dashboard.State, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
}

// pingTimeout bounds a store health check.
const pingTimeout = 2 * time.Second

func newID() string {
	return uuid.NewString()
}
