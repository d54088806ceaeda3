// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Server is one listener owned by the application lifecycle.
// Start must not block; Shutdown must be safe to call on a server that was never started.
type Server interface {
	Name() string
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// serve runs srv in the background. A listener failure is fatal.
func serve(name string, srv *http.Server) {
	go func() {
		logrus.Infof("%s listening on %s", name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("%s failed: %v", name, err)
		}
	}()
}
