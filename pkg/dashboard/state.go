// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package dashboard

import (
	"errors"

	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
)

// Tab identifies a dashboard panel.
type Tab string

const (
	TabLifecycle    Tab = "ml-lifecycle"
	TabSimulator    Tab = "simulator"
	TabDataQuality  Tab = "data-quality"
	TabSegmentation Tab = "segmentation"
	TabInsights     Tab = "insights"
	TabMembers      Tab = "members"
)

// DefaultTab is shown when a session starts.
const DefaultTab = TabLifecycle

// Tabs lists every panel in display order.
var Tabs = []Tab{TabLifecycle, TabSimulator, TabDataQuality, TabSegmentation, TabInsights, TabMembers}

var ErrUnknownTab = errors.New("unknown tab")

// ParseTab validates a tab identifier.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrUnknownTab
}

// State is one immutable snapshot of a dashboard session.
// It is only ever replaced through Reduce.
type State struct {
	ActiveTab Tab                   `json:"activeTab"`
	MenuOpen  bool                  `json:"menuOpen"`
	Profile   profile.MemberProfile `json:"profile"`

	// Prediction is nil until the first simulation completes.
	Prediction *inference.PredictionResult `json:"prediction"`
	Drivers    []explain.Driver            `json:"drivers"`

	// IssuedSeq is the sequence of the most recent simulation started.
	// AppliedSeq is the sequence whose result is currently displayed.
	IssuedSeq  uint64 `json:"issuedSeq"`
	AppliedSeq uint64 `json:"appliedSeq"`
	InFlight   bool   `json:"inFlight"`
}

// NewState returns the snapshot a fresh session starts from.
func NewState() State {
	return State{
		ActiveTab: DefaultTab,
		Profile:   profile.DefaultProfile(),
	}
}

// Payload returns the flat predict payload for the current form.
func (s State) Payload() profile.Payload {
	return profile.NewPayload(s.Profile)
}
