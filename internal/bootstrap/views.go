// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/AccelByte/extend-churn-dashboard/pkg/views"
	"github.com/sirupsen/logrus"
)

// InitViews creates the data-fetch views over the analytics backend.
// Nothing is fetched here; each view loads on first read.
func InitViews(client *backend.Client, fallbackPath string, ledgerLimit int) (*views.Dashboard, error) {
	fallback, err := views.LoadFallback(fallbackPath)
	if err != nil {
		return nil, err
	}

	dash := views.NewDashboard(client, fallback, views.Config{LedgerLimit: ledgerLimit})
	logrus.Infof("initialized %d dashboard views over %s", len(views.Names()), client.BaseURL())

	return dash, nil
}
