// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/sirupsen/logrus"
)

// InitExplainer compiles the driver rules into an explanation engine.
//
// The five builtin drivers are embedded in pkg/explain/drivers.yaml.
// A different rule set can be supplied with DRIVERS_PATH; every condition
// must be a boolean CEL expression over the payload fields.
func InitExplainer(path string) (*explain.Engine, error) {
	cfg, err := explain.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	engine, err := explain.NewEngineFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init explanation engine: %w", err)
	}

	source := path
	if source == "" {
		source = "builtin"
	}
	logrus.Infof("registered %d driver rules (%s)", engine.GetRegistry().Count(), source)

	return engine, nil
}
