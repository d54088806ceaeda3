// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package dashboard

import (
	"fmt"

	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
)

// Action is an event applied to a State by Reduce.
type Action interface {
	apply(s State) (State, error)
}

// SelectTab switches the visible panel and closes the mobile menu.
type SelectTab struct {
	Tab Tab
}

// ToggleMenu opens or closes the mobile navigation menu.
type ToggleMenu struct{}

// SetField edits one simulator form field.
type SetField struct {
	Name  string
	Value float64
}

// SimulationStarted records that a new predict call has been issued.
// Reduce assigns it the next sequence number.
type SimulationStarted struct{}

// PredictionReceived delivers the outcome of the call tagged Seq.
type PredictionReceived struct {
	Seq     uint64
	Result  inference.PredictionResult
	Drivers []explain.Driver
}

// Reduce applies action to s and returns the next snapshot. s is never modified.
func Reduce(s State, action Action) (State, error) {
	if action == nil {
		return s, fmt.Errorf("nil action")
	}
	return action.apply(s)
}

func (a SelectTab) apply(s State) (State, error) {
	if _, err := ParseTab(string(a.Tab)); err != nil {
		return s, fmt.Errorf("%w: %s", err, a.Tab)
	}
	s.ActiveTab = a.Tab
	s.MenuOpen = false
	return s, nil
}

func (ToggleMenu) apply(s State) (State, error) {
	s.MenuOpen = !s.MenuOpen
	return s, nil
}

func (a SetField) apply(s State) (State, error) {
	p, err := profile.Set(s.Profile, a.Name, a.Value)
	if err != nil {
		return s, err
	}
	s.Profile = p
	return s, nil
}

func (SimulationStarted) apply(s State) (State, error) {
	s.IssuedSeq++
	s.InFlight = true
	return s, nil
}

func (a PredictionReceived) apply(s State) (State, error) {
	if IsStale(s, a.Seq) {
		return s, nil
	}

	result := a.Result
	drivers := make([]explain.Driver, len(a.Drivers))
	copy(drivers, a.Drivers)

	s.Prediction = &result
	s.Drivers = drivers
	s.AppliedSeq = a.Seq
	s.InFlight = false
	return s, nil
}

// IsStale reports whether a response tagged seq must be discarded:
// a newer simulation was issued after it, or it was never issued at all.
func IsStale(s State, seq uint64) bool {
	return seq == 0 || seq != s.IssuedSeq || seq <= s.AppliedSeq
}
